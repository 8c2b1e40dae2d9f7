// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives validated
// requests from the handlers, runs them against a repository session and
// hands stored submissions to the notifier.
package service

import (
	"github.com/deppfellow/contactform/internal/lib/job"
	"github.com/deppfellow/contactform/internal/repository"
	"github.com/deppfellow/contactform/internal/server"
)

// Services groups the business services handed to the handler layer.
//
// Job is nil when notifications are disabled. Submissions then skips
// notifications instead of failing.
type Services struct {
	Submissions *SubmissionService
	Job         *job.JobService
}

// NewService builds every service on top of the shared server and the
// repositories. The submission notifier is the job service when one is
// running.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var notifier Notifier
	if s.Job != nil {
		notifier = s.Job
	}

	return &Services{
		Submissions: NewSubmissionService(repos.Submissions, notifier, s.Logger),
		Job:         s.Job,
	}, nil
}
