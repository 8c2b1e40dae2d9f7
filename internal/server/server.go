// Package server composes the application's shared dependencies and owns the
// HTTP server lifecycle.
//
// Nothing here touches the database at startup: each invocation opens its own
// connection through DB.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/contactform/internal/config"
	"github.com/deppfellow/contactform/internal/database"
	"github.com/deppfellow/contactform/internal/lib/job"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/contactform/internal/logger"
)

type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	// DB opens one connection per invocation.
	DB *database.Connector

	// Redis is nil when no address is configured.
	Redis *redis.Client

	// Job is nil unless notifications are configured.
	Job *job.JobService

	httpServer *http.Server
}

func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	s := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            database.New(cfg, logger, loggerService),
	}

	if cfg.Redis.Address != "" {
		s.Redis = redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Address,
		})

		if loggerService.GetApplication() != nil {
			s.Redis.AddHook(nrredis.NewHook(s.Redis.Options()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Redis only backs notifications, so an outage is not fatal.
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without it")
		}
	}

	if cfg.NotificationsEnabled() {
		s.Job = job.NewJobService(logger, cfg)
	} else {
		logger.Info().Msg("notifications disabled")
	}

	return s, nil
}

func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start starts the notification worker, if any, and serves HTTP until the
// server is shut down.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	if s.Job != nil {
		if err := s.Job.Start(); err != nil {
			return fmt.Errorf("failed to start job server: %w", err)
		}
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server, then the worker, then closes Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	s.Close()
	return nil
}

// Close releases the job client and Redis without touching HTTP. The
// one-shot invoker uses it directly.
func (s *Server) Close() {
	if s.Job != nil {
		s.Job.Stop()
		s.Job = nil
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.Warn().Err(err).Msg("failed to close redis client")
		}
		s.Redis = nil
	}
}
