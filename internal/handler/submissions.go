package handler

import (
	"context"
	"net/http"

	"github.com/deppfellow/contactform/internal/gateway"
	"github.com/deppfellow/contactform/internal/model"
	"github.com/deppfellow/contactform/internal/server"
	"github.com/deppfellow/contactform/internal/service"
)

// Function names, as used by the invoker and in logs.
const (
	FunctionListSubmissions    = "list"
	FunctionSubmitMessage      = "message"
	FunctionSubmitRegistration = "registration"
)

// SubmissionHandler exposes the three form functions.
//
// Each method returns a fresh gateway.Func. The functions keep no state
// between invocations; the service opens and closes a database session
// inside every call.
type SubmissionHandler struct {
	Handler
	submissionService *service.SubmissionService
}

// NewSubmissionHandler wires the form functions to submissionService.
func NewSubmissionHandler(s *server.Server, submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		Handler:           NewHandler(s),
		submissionService: submissionService,
	}
}

// ListSubmissions serves GET: every registration and message, newest first.
func (h *SubmissionHandler) ListSubmissions() gateway.Func {
	return HandleNoBody(h.Handler, FunctionListSubmissions, http.MethodGet,
		func(ctx context.Context) (*model.Submissions, error) {
			return h.submissionService.ListSubmissions(ctx)
		},
	)
}

// SubmitMessage serves POST {name, email, message}.
//
// An invalid body is answered with 400 and the failing fields. Nothing is
// stored in that case.
func (h *SubmissionHandler) SubmitMessage() gateway.Func {
	return Handle(h.Handler, FunctionSubmitMessage, http.MethodPost,
		func(ctx context.Context, req *model.MessageRequest) (*model.SubmitResponse, error) {
			return h.submissionService.SubmitMessage(ctx, req)
		},
		func() *model.MessageRequest { return &model.MessageRequest{} },
	)
}

// SubmitRegistration serves POST {name, email, institution?}.
func (h *SubmissionHandler) SubmitRegistration() gateway.Func {
	return Handle(h.Handler, FunctionSubmitRegistration, http.MethodPost,
		func(ctx context.Context, req *model.RegistrationRequest) (*model.SubmitResponse, error) {
			return h.submissionService.SubmitRegistration(ctx, req)
		},
		func() *model.RegistrationRequest { return &model.RegistrationRequest{} },
	)
}

// Functions maps function names to handlers.
func (h *SubmissionHandler) Functions() map[string]gateway.Func {
	return map[string]gateway.Func{
		FunctionListSubmissions:    h.ListSubmissions(),
		FunctionSubmitMessage:      h.SubmitMessage(),
		FunctionSubmitRegistration: h.SubmitRegistration(),
	}
}
