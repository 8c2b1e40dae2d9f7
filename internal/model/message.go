package model

import "time"

// Message is a stored contact message.
type Message struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Email     string     `json:"email" db:"email"`
	Message   string     `json:"message" db:"message"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// MessageRequest is the body of POST /messages.
type MessageRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

func (m *MessageRequest) Validate() error {
	return validate.Struct(m)
}
