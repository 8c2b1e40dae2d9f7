// Package database opens PostgreSQL connections.
//
// Every handler invocation gets its own connection and closes it before
// responding; there is no pool. The package wires the logger and tracers
// into the pgx driver:
//   - pgx tracelog + zerolog SQL logging in the "local" environment
//   - New Relic instrumentation (nrpgx5) when the agent is running
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/contactform/internal/config"
	loggerConfig "github.com/deppfellow/contactform/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

// ErrMissingDatabaseURL is the configuration error reported when an
// invocation needs the store but no connection string is set.
var ErrMissingDatabaseURL = errors.New("database url is not configured")

// multiTracer chains several pgx tracers into the single Tracer slot of
// pgx.ConnConfig.
type multiTracer struct {
	tracers []pgx.QueryTracer
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		ctx = tracer.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		tracer.TraceQueryEnd(ctx, conn, data)
	}
}

// Connector opens one instrumented connection per invocation.
type Connector struct {
	url            string
	env            string
	connectTimeout time.Duration
	log            *zerolog.Logger
	loggerService  *loggerConfig.LoggerService
}

// New creates a Connector. It does not touch the network: a missing or
// unreachable database only fails the invocations that need it.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) *Connector {
	timeout := time.Duration(cfg.Database.ConnectTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Connector{
		url:            cfg.Database.URL,
		env:            cfg.Primary.Env,
		connectTimeout: timeout,
		log:            logger,
		loggerService:  loggerService,
	}
}

// connConfig parses the connection string and attaches tracers.
func (c *Connector) connConfig() (*pgx.ConnConfig, error) {
	if c.url == "" {
		return nil, ErrMissingDatabaseURL
	}

	connConfig, err := pgx.ParseConfig(c.url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	var tracers []pgx.QueryTracer

	if c.loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	// SQL logging is noisy, so only in local.
	if c.env == "local" {
		globalLevel := c.log.GetLevel()
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(globalLevel)),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		})
	}

	switch len(tracers) {
	case 0:
	case 1:
		connConfig.Tracer = tracers[0]
	default:
		connConfig.Tracer = &multiTracer{tracers: tracers}
	}

	return connConfig, nil
}

// Open connects to the database. The caller owns the connection and must
// close it.
func (c *Connector) Open(ctx context.Context) (*pgx.Conn, error) {
	connConfig, err := c.connConfig()
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	conn, err := pgx.ConnectConfig(connectCtx, connConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return conn, nil
}

// Ping opens a connection, pings it and closes it again.
func (c *Connector) Ping(ctx context.Context) error {
	conn, err := c.Open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(context.WithoutCancel(ctx))

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
