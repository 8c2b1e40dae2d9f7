// Package job delivers submission notifications in the background.
//
// Handlers enqueue tasks through asynq.Client; the worker started by the
// HTTP server renders and sends the e-mails.
package job

import (
	"context"

	"github.com/deppfellow/contactform/internal/config"
	"github.com/deppfellow/contactform/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Mailer sends notification e-mails. *email.Client implements it.
type Mailer interface {
	SendMessageNotification(ctx context.Context, recipient string, n email.MessageNotification) error
	SendRegistrationNotification(ctx context.Context, recipient string, n email.RegistrationNotification) error
}

type JobService struct {
	Client *asynq.Client

	server    *asynq.Server
	mailer    Mailer
	recipient string
	logger    *zerolog.Logger
}

func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client:    asynq.NewClient(redisOpt),
		server:    server,
		mailer:    email.NewClient(cfg, logger),
		recipient: cfg.Notification.Recipient,
		logger:    logger,
	}
}

func (j *JobService) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskMessageNotification, j.handleMessageNotificationTask)
	mux.HandleFunc(TaskRegistrationNotification, j.handleRegistrationNotificationTask)
	return mux
}

// Start runs the worker in the background.
func (j *JobService) Start() error {
	j.logger.Info().Msg("Starting background job server")
	return j.server.Start(j.mux())
}

func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("failed to close job client")
	}
}
