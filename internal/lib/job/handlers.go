package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/contactform/internal/lib/email"
	"github.com/deppfellow/contactform/internal/model"
	"github.com/hibiken/asynq"
)

// NotifyMessage enqueues a notification for a stored message.
func (j *JobService) NotifyMessage(ctx context.Context, id int64, req *model.MessageRequest) error {
	task, err := NewMessageNotificationTask(id, req)
	if err != nil {
		return fmt.Errorf("failed to build message notification task: %w", err)
	}
	return j.enqueue(ctx, task)
}

// NotifyRegistration enqueues a notification for a stored registration.
func (j *JobService) NotifyRegistration(ctx context.Context, id int64, req *model.RegistrationRequest) error {
	task, err := NewRegistrationNotificationTask(id, req)
	if err != nil {
		return fmt.Errorf("failed to build registration notification task: %w", err)
	}
	return j.enqueue(ctx, task)
}

func (j *JobService) enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", task.Type(), err)
	}

	j.logger.Debug().
		Str("type", task.Type()).
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("enqueued notification task")

	return nil
}

func (j *JobService) handleMessageNotificationTask(ctx context.Context, t *asynq.Task) error {
	var p MessageNotificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal message notification payload: %w", err)
	}

	j.logger.Info().
		Str("type", "message").
		Int64("message_id", p.ID).
		Msg("Processing message notification task")

	err := j.mailer.SendMessageNotification(ctx, j.recipient, email.MessageNotification{
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		Message: p.Message,
	})
	if err != nil {
		j.logger.Error().
			Str("type", "message").
			Int64("message_id", p.ID).
			Err(err).
			Msg("Failed to send message notification")
		return err
	}

	j.logger.Info().
		Str("type", "message").
		Int64("message_id", p.ID).
		Msg("Successfully sent message notification")

	return nil
}

func (j *JobService) handleRegistrationNotificationTask(ctx context.Context, t *asynq.Task) error {
	var p RegistrationNotificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal registration notification payload: %w", err)
	}

	j.logger.Info().
		Str("type", "registration").
		Int64("registration_id", p.ID).
		Msg("Processing registration notification task")

	err := j.mailer.SendRegistrationNotification(ctx, j.recipient, email.RegistrationNotification{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Institution: p.Institution,
	})
	if err != nil {
		j.logger.Error().
			Str("type", "registration").
			Int64("registration_id", p.ID).
			Err(err).
			Msg("Failed to send registration notification")
		return err
	}

	j.logger.Info().
		Str("type", "registration").
		Int64("registration_id", p.ID).
		Msg("Successfully sent registration notification")

	return nil
}
