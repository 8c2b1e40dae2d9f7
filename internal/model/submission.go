package model

// Submissions is the ListSubmissions response body.
type Submissions struct {
	Registrations []Registration `json:"registrations"`
	Messages      []Message      `json:"messages"`
}

// SubmitResponse confirms a stored submission.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

const (
	MessageConfirmation      = "Сообщение отправлено"
	RegistrationConfirmation = "Регистрация успешна"
)
