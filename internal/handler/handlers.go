package handler

import (
	"github.com/deppfellow/contactform/internal/server"
	"github.com/deppfellow/contactform/internal/service"
)

// Handlers groups every handler so routing and the invoker receive one value.
type Handlers struct {
	Submissions *SubmissionHandler
	Health      *HealthHandler
}

// NewHandlers builds every handler from the shared server and services.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Submissions: NewSubmissionHandler(s, services.Submissions),
		Health:      NewHealthHandler(s),
	}
}
