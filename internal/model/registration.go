package model

import "time"

// Registration is a stored registration.
type Registration struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Email       string     `json:"email" db:"email"`
	Institution string     `json:"institution" db:"institution"`
	CreatedAt   *time.Time `json:"created_at" db:"created_at"`
}

// RegistrationRequest is the body of POST /registrations.
type RegistrationRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email"`
	Institution string `json:"institution" validate:"max=255"`
}

func (r *RegistrationRequest) Validate() error {
	return validate.Struct(r)
}
