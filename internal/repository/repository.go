// Package repository holds the SQL behind the form handlers.
//
// A Session wraps exactly one database connection. Callers open it at the
// start of an invocation and must Close it before responding.
package repository

import (
	"context"

	"github.com/deppfellow/contactform/internal/model"
	"github.com/deppfellow/contactform/internal/server"
)

// Session is one connection's worth of submission queries.
type Session interface {
	ListRegistrations(ctx context.Context) ([]model.Registration, error)
	ListMessages(ctx context.Context) ([]model.Message, error)
	CreateRegistration(ctx context.Context, req *model.RegistrationRequest) (int64, error)
	CreateMessage(ctx context.Context, req *model.MessageRequest) (int64, error)
	Close(ctx context.Context) error
}

// Store opens sessions.
type Store interface {
	Open(ctx context.Context) (Session, error)
}

type Repositories struct {
	Submissions Store
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Submissions: NewSubmissionStore(s.DB),
	}
}
