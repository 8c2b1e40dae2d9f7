package router

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/deppfellow/contactform/internal/gateway"
	"github.com/labstack/echo/v4"
)

// Invoke adapts a gateway.Func to echo. Errors returned by the function go
// to the global error handler.
func Invoke(fn gateway.Func) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := newGatewayRequest(c.Request())
		if err != nil {
			return err
		}

		resp, err := fn(c.Request().Context(), req)
		if err != nil {
			return err
		}

		return writeGatewayResponse(c, resp)
	}
}

func newGatewayRequest(r *http.Request) (gateway.Request, error) {
	req := gateway.Request{
		HTTPMethod:            r.Method,
		Path:                  r.URL.Path,
		Headers:               make(map[string]string, len(r.Header)),
		QueryStringParameters: make(map[string]string),
	}

	for key := range r.Header {
		req.Headers[key] = r.Header.Get(key)
	}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			req.QueryStringParameters[key] = values[0]
		}
	}

	if r.Body == nil {
		return req, nil
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return gateway.Request{}, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(raw) == 0 {
		return req, nil
	}

	body := string(raw)
	if !utf8.Valid(raw) {
		body = base64.StdEncoding.EncodeToString(raw)
		req.IsBase64Encoded = true
	}
	req.Body = &body

	return req, nil
}

func writeGatewayResponse(c echo.Context, resp gateway.Response) error {
	header := c.Response().Header()
	for key, value := range resp.Headers {
		header.Set(key, value)
	}

	if resp.Body == "" {
		return c.NoContent(resp.StatusCode)
	}

	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
		body = decoded
	}

	return c.Blob(resp.StatusCode, resp.Headers[gateway.HeaderContentType], body)
}
