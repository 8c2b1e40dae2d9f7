// Command invoke runs one form handler once, the way a function gateway
// would: the request description is read as JSON from stdin and the
// response description is written as JSON to stdout.
//
//	echo '{"httpMethod":"POST","body":"{\"name\":\"Ann\",\"email\":\"ann@example.com\",\"message\":\"Hi\"}"}' |
//	    invoke -function message
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/deppfellow/contactform/internal/config"
	"github.com/deppfellow/contactform/internal/gateway"
	"github.com/deppfellow/contactform/internal/handler"
	"github.com/deppfellow/contactform/internal/lib/utils"
	"github.com/deppfellow/contactform/internal/logger"
	"github.com/deppfellow/contactform/internal/repository"
	"github.com/deppfellow/contactform/internal/server"
	"github.com/deppfellow/contactform/internal/service"
	"github.com/deppfellow/contactform/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	var function string
	var timeout time.Duration
	flag.StringVar(&function, "function", "", "handler to invoke ("+strings.Join(functionNames(), ", ")+")")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "invocation deadline")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService).Output(os.Stderr)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		os.Exit(1)
	}

	services, err := service.NewService(srv, repository.NewRepositories(srv))
	if err != nil {
		log.Error().Err(err).Msg("could not create services")
		os.Exit(1)
	}
	functions := handler.NewHandlers(srv, services).Submissions.Functions()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	err = invoke(ctx, &log, functions, function, os.Stdin, os.Stdout)
	cancel()

	srv.Close()
	loggerService.Shutdown()

	if err != nil {
		os.Exit(1)
	}
}

func functionNames() []string {
	return []string{
		handler.FunctionListSubmissions,
		handler.FunctionSubmitMessage,
		handler.FunctionSubmitRegistration,
	}
}

// invoke runs the named function against the event read from in. A failed
// invocation still writes the translated error response to out and
// returns the error.
func invoke(
	ctx context.Context,
	log *zerolog.Logger,
	functions map[string]gateway.Func,
	name string,
	in io.Reader,
	out io.Writer,
) error {
	fn, ok := functions[name]
	if !ok {
		known := make([]string, 0, len(functions))
		for n := range functions {
			known = append(known, n)
		}
		sort.Strings(known)
		return fmt.Errorf("unknown function %q, want one of %s", name, strings.Join(known, ", "))
	}

	var req gateway.Request
	if err := json.NewDecoder(in).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode event: %w", err)
	}

	inv := gateway.Invocation{RequestID: uuid.New().String(), FunctionName: name}
	invLogger := log.With().
		Str("request_id", inv.RequestID).
		Str("function", name).
		Logger()

	ctx = gateway.NewContext(invLogger.WithContext(ctx), inv)

	resp, err := fn(ctx, req)
	if err != nil {
		invLogger.Error().Err(err).Msg("invocation failed")

		if writeErr := utils.WriteJSON(out, gateway.Error(sqlerr.HandleError(err))); writeErr != nil {
			invLogger.Error().Err(writeErr).Msg("failed to write error response")
		}
		return err
	}

	return utils.WriteJSON(out, resp)
}
