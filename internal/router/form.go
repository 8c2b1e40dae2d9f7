package router

import (
	"github.com/deppfellow/contactform/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerFormRoutes routes every method to the form handlers, which answer
// preflight and wrong verbs themselves.
func registerFormRoutes(r *echo.Echo, h *handler.Handlers) {
	r.Any("/submissions", Invoke(h.Submissions.ListSubmissions()))
	r.Any("/messages", Invoke(h.Submissions.SubmitMessage()))
	r.Any("/registrations", Invoke(h.Submissions.SubmitRegistration()))
}
