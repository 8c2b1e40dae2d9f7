package email

// PreviewData holds sample template data for local previews, keyed by
// template name.
var PreviewData = map[Template]map[string]string{
	TemplateMessage: {
		"ID":      "42",
		"Name":    "Ann",
		"Email":   "ann@example.com",
		"Message": "Hi! Is the workshop still open?",
	},
	TemplateRegistration: {
		"ID":          "7",
		"Name":        "Bo",
		"Email":       "bo@example.com",
		"Institution": "Example University",
	},
}
