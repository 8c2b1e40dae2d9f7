package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/deppfellow/contactform/internal/errs"
)

const (
	HeaderAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAllowMethods = "Access-Control-Allow-Methods"
	HeaderAllowHeaders = "Access-Control-Allow-Headers"
	HeaderMaxAge       = "Access-Control-Max-Age"
	HeaderContentType  = "Content-Type"

	preflightMaxAge = "86400"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Errors []errs.FieldError `json:"errors,omitempty"`
}

// Preflight answers a CORS OPTIONS request for a handler serving verb.
func Preflight(verb string) Response {
	return Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			HeaderAllowOrigin:  "*",
			HeaderAllowMethods: verb + ", OPTIONS",
			HeaderAllowHeaders: "Content-Type",
			HeaderMaxAge:       preflightMaxAge,
		},
	}
}

// JSON renders v as a JSON response with the CORS origin header.
func JSON(status int, v any) (Response, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return Response{}, fmt.Errorf("failed to encode response body: %w", err)
	}

	return Response{
		StatusCode: status,
		Headers: map[string]string{
			HeaderContentType: "application/json",
			HeaderAllowOrigin: "*",
		},
		Body: string(bytes.TrimRight(buf.Bytes(), "\n")),
	}, nil
}

// Error renders err. An *errs.HTTPError keeps its status, message and field
// errors; anything else becomes a generic 500.
func Error(err error) Response {
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = errs.NewInternalServerError()
	}

	resp, encErr := JSON(httpErr.Status, ErrorBody{Error: httpErr.Message, Errors: httpErr.Errors})
	if encErr != nil {
		// ErrorBody holds only strings.
		panic(encErr)
	}
	return resp
}
