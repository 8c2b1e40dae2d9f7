// Command migrate creates or updates the registrations and messages tables.
package main

import (
	"context"
	"time"

	"github.com/deppfellow/contactform/internal/config"
	"github.com/deppfellow/contactform/internal/database"
	"github.com/deppfellow/contactform/internal/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.NewLogger(cfg.Observability)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, &log, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
}
