// Package gateway defines the normalized request and response descriptions
// exchanged between a function gateway and the form handlers.
package gateway

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
)

// Request is the request description handed to a handler. Only the method
// and the body are consulted by the handlers.
type Request struct {
	HTTPMethod            string            `json:"httpMethod"`
	Path                  string            `json:"path,omitempty"`
	Headers               map[string]string `json:"headers,omitempty"`
	QueryStringParameters map[string]string `json:"queryStringParameters,omitempty"`
	Body                  *string           `json:"body"`
	IsBase64Encoded       bool              `json:"isBase64Encoded"`
}

// Method returns the method as supplied, GET when none was supplied.
// Verbs compare case-sensitively, so "post" is not POST.
func (r Request) Method() string {
	if r.HTTPMethod == "" {
		return http.MethodGet
	}
	return r.HTTPMethod
}

// RawBody returns the body bytes. An absent or empty body reads as an empty
// JSON object.
func (r Request) RawBody() ([]byte, error) {
	if r.Body == nil || *r.Body == "" {
		return []byte("{}"), nil
	}

	if !r.IsBase64Encoded {
		return []byte(*r.Body), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(*r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 body: %w", err)
	}
	if len(decoded) == 0 {
		return []byte("{}"), nil
	}
	return decoded, nil
}

// Response is the response description returned to the gateway.
type Response struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
	Body            string            `json:"body"`
}

// Func is one invocable handler.
type Func func(ctx context.Context, req Request) (Response, error)

// Invocation identifies one execution of a handler.
type Invocation struct {
	RequestID    string
	FunctionName string
}

type invocationKey struct{}

func NewContext(ctx context.Context, inv Invocation) context.Context {
	return context.WithValue(ctx, invocationKey{}, inv)
}

func FromContext(ctx context.Context) (Invocation, bool) {
	inv, ok := ctx.Value(invocationKey{}).(Invocation)
	return inv, ok
}
