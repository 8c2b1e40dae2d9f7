// Package handler implements the invocable form handlers.
//
// Every handler shares one pipeline: answer CORS preflight, reject the wrong
// verb, decode and validate the body, run the operation and render JSON.
// Handlers return gateway.Func values so any gateway adapter can call them.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/contactform/internal/errs"
	"github.com/deppfellow/contactform/internal/gateway"
	"github.com/deppfellow/contactform/internal/logger"
	"github.com/deppfellow/contactform/internal/server"
	"github.com/deppfellow/contactform/internal/validation"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler holds the shared application dependencies.
//
// Concrete handlers (SubmissionHandler, HealthHandler) embed it so they reach
// the config, logger and database connector through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
//
// It returns the struct by value. The only field is a pointer, so copies
// share the same Server.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed operation that:
//
// - receives a decoded and validated payload (Req)
// - returns a result (Res) rendered as a 200 JSON body, or an error
//
// Req must satisfy validation.Validatable. In practice Req is a pointer,
// e.g. *model.MessageRequest, because decoding fills it in place.
type HandlerFunc[Req validation.Validatable, Res any] func(ctx context.Context, req Req) (Res, error)

// HandlerFuncNoBody is a typed operation that reads no request body, such as
// listing submissions. Its result is rendered the same way as HandlerFunc's.
type HandlerFuncNoBody[Res any] func(ctx context.Context) (Res, error)

// handleRequest is the pipeline shared by every handler. bind is nil for
// handlers that do not read a body.
//
// Rejections (preflight, wrong verb, invalid body) are returned as
// responses. Errors from run are returned as errors for the gateway
// adapter to translate.
func (h Handler) handleRequest(
	ctx context.Context,
	name string,
	verb string,
	req gateway.Request,
	bind func(raw []byte) error,
	run func(ctx context.Context) (any, error),
) (gateway.Response, error) {
	start := time.Now()
	method := req.Method()

	txn := newrelic.FromContext(ctx)
	if txn != nil {
		txn.AddAttribute("handler.name", name)
	}

	log := logger.FromContext(ctx, h.server.Logger).With().
		Str("operation", "handler").
		Str("handler", name).
		Str("method", method).
		Logger()

	if method == http.MethodOptions {
		log.Debug().Msg("answering preflight")
		return gateway.Preflight(verb), nil
	}

	if method != verb {
		log.Warn().Str("expected_method", verb).Msg("method not allowed")
		return gateway.Error(errs.NewMethodNotAllowedError()), nil
	}

	log.Info().Msg("handling request")

	// ---------------- Validation phase ---------------------------------------
	validationStart := time.Now()
	if bind != nil {
		if err := h.bind(req, bind); err != nil {
			validationDuration := time.Since(validationStart)

			log.Warn().
				Err(err).
				Dur("validation_duration", validationDuration).
				Msg("request validation failed")

			if txn != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
				txn.AddAttribute("validation.status", "failed")
				txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
			}

			return gateway.Error(err), nil
		}
	}
	validationDuration := time.Since(validationStart)

	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	// ---------------- Handler execution phase --------------------------------
	handlerStart := time.Now()
	result, err := run(log.WithContext(ctx))
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		log.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return gateway.Response{}, err
	}

	resp, err := gateway.JSON(http.StatusOK, result)
	if err != nil {
		return gateway.Response{}, err
	}

	totalDuration := time.Since(start)
	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
	}

	log.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return resp, nil
}

// bind reads the raw body and hands it to the payload decoder.
func (h Handler) bind(req gateway.Request, bind func(raw []byte) error) error {
	raw, err := req.RawBody()
	if err != nil {
		return errs.NewBadRequestError("Invalid request body encoding", true, nil, nil)
	}
	return bind(raw)
}

// Handle wraps an operation that takes a JSON body into a gateway.Func.
//
// name labels logs and New Relic attributes. verb is the only method the
// function accepts besides OPTIONS. newReq returns a fresh payload for every
// invocation, so concurrent invocations never share one.
func Handle[Req validation.Validatable, Res any](
	h Handler,
	name string,
	verb string,
	handler HandlerFunc[Req, Res],
	newReq func() Req,
) gateway.Func {
	return func(ctx context.Context, req gateway.Request) (gateway.Response, error) {
		payload := newReq()
		return h.handleRequest(ctx, name, verb, req,
			func(raw []byte) error {
				return validation.ParseAndValidate(raw, payload)
			},
			func(ctx context.Context) (any, error) {
				return handler(ctx, payload)
			},
		)
	}
}

// HandleNoBody wraps an operation that ignores the request body into a
// gateway.Func. Preflight and verb checks run exactly as in Handle.
func HandleNoBody[Res any](
	h Handler,
	name string,
	verb string,
	handler HandlerFuncNoBody[Res],
) gateway.Func {
	return func(ctx context.Context, req gateway.Request) (gateway.Response, error) {
		return h.handleRequest(ctx, name, verb, req, nil,
			func(ctx context.Context) (any, error) {
				return handler(ctx)
			},
		)
	}
}
