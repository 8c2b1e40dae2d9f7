package email

// Template names an embedded templates/<name>.html file.
type Template string

const (
	TemplateMessage      Template = "message"
	TemplateRegistration Template = "registration"
)
