package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/contactform/internal/logger"
	"github.com/deppfellow/contactform/internal/model"
	"github.com/deppfellow/contactform/internal/repository"
	"github.com/rs/zerolog"
)

// Notifier is told about every stored submission. Failures never affect
// the stored row or the response.
type Notifier interface {
	NotifyMessage(ctx context.Context, id int64, req *model.MessageRequest) error
	NotifyRegistration(ctx context.Context, id int64, req *model.RegistrationRequest) error
}

// SubmissionService stores form submissions and lists them back.
//
// Every call opens its own repository session and closes it before
// returning, on success and on error alike.
type SubmissionService struct {
	store    repository.Store
	notifier Notifier
	logger   *zerolog.Logger
}

// NewSubmissionService builds the service. notifier may be nil.
func NewSubmissionService(store repository.Store, notifier Notifier, logger *zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// withSession opens a session, runs fn and closes the session on every
// return path.
func (s *SubmissionService) withSession(ctx context.Context, fn func(session repository.Session) error) error {
	session, err := s.store.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := session.Close(context.WithoutCancel(ctx)); closeErr != nil {
			logger.FromContext(ctx, s.logger).Warn().Err(closeErr).Msg("failed to close database session")
		}
	}()

	return fn(session)
}

// ListSubmissions returns every registration and every message, each list
// ordered by created_at, newest first.
func (s *SubmissionService) ListSubmissions(ctx context.Context) (*model.Submissions, error) {
	result := &model.Submissions{}

	err := s.withSession(ctx, func(session repository.Session) error {
		registrations, err := session.ListRegistrations(ctx)
		if err != nil {
			return err
		}

		messages, err := session.ListMessages(ctx)
		if err != nil {
			return err
		}

		result.Registrations = registrations
		result.Messages = messages
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	return result, nil
}

// SubmitMessage stores one message and returns its id with the confirmation
// text. req must already be validated.
//
// A notifier failure is logged and does not change the response.
func (s *SubmissionService) SubmitMessage(ctx context.Context, req *model.MessageRequest) (*model.SubmitResponse, error) {
	var id int64
	err := s.withSession(ctx, func(session repository.Session) error {
		var err error
		id, err = session.CreateMessage(ctx, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("submit message: %w", err)
	}

	log := logger.FromContext(ctx, s.logger)
	log.Info().Int64("message_id", id).Msg("message stored")

	if s.notifier != nil {
		if err := s.notifier.NotifyMessage(ctx, id, req); err != nil {
			log.Error().Err(err).Int64("message_id", id).Msg("failed to enqueue message notification")
		}
	}

	return &model.SubmitResponse{Success: true, Message: model.MessageConfirmation, ID: id}, nil
}

// SubmitRegistration stores one registration. It behaves like SubmitMessage.
func (s *SubmissionService) SubmitRegistration(ctx context.Context, req *model.RegistrationRequest) (*model.SubmitResponse, error) {
	var id int64
	err := s.withSession(ctx, func(session repository.Session) error {
		var err error
		id, err = session.CreateRegistration(ctx, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("submit registration: %w", err)
	}

	log := logger.FromContext(ctx, s.logger)
	log.Info().Int64("registration_id", id).Msg("registration stored")

	if s.notifier != nil {
		if err := s.notifier.NotifyRegistration(ctx, id, req); err != nil {
			log.Error().Err(err).Int64("registration_id", id).Msg("failed to enqueue registration notification")
		}
	}

	return &model.SubmitResponse{Success: true, Message: model.RegistrationConfirmation, ID: id}, nil
}
