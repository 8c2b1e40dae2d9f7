package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/contactform/internal/config"
	"github.com/deppfellow/contactform/internal/database"
	"github.com/deppfellow/contactform/internal/handler"
	"github.com/deppfellow/contactform/internal/repository/repositorytest"
	"github.com/deppfellow/contactform/internal/server"
	"github.com/deppfellow/contactform/internal/service"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*echo.Echo, *repositorytest.Store) {
	t.Helper()

	logger := zerolog.Nop()
	cfg := config.Default()
	s := &server.Server{Config: cfg, Logger: &logger, DB: database.New(cfg, &logger, nil)}
	store := repositorytest.NewStore()

	h := &handler.Handlers{
		Submissions: handler.NewSubmissionHandler(s, service.NewSubmissionService(store, nil, &logger)),
		Health:      handler.NewHealthHandler(s),
	}

	return NewRouter(s, h), store
}

func serve(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPostMessage(t *testing.T) {
	e, store := newTestRouter(t)

	rec := serve(e, http.MethodPost, "/messages", `{"name": "Ann", "email": "ann@example.com", "message": "Hi"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.IsType(t, float64(0), body["id"])
	assert.Len(t, store.Messages(), 1)
}

func TestPreflightOverHTTP(t *testing.T) {
	e, _ := newTestRouter(t)

	for _, path := range []string{"/submissions", "/messages", "/registrations"} {
		rec := serve(e, http.MethodOptions, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Empty(t, rec.Body.String(), path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"), path)
	}
}

func TestWrongVerbOverHTTP(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := serve(e, http.MethodGet, "/registrations", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error": "Method not allowed"}`, rec.Body.String())

	rec = serve(e, http.MethodPost, "/submissions", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestValidationOverHTTP(t *testing.T) {
	e, store := newTestRouter(t)

	rec := serve(e, http.MethodPost, "/registrations", `{"name": "Bo", "email": "not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "Validation failed", "errors": [{"field": "email", "error": "must be a valid email address"}]}`, rec.Body.String())
	assert.Empty(t, store.Registrations())
}

func TestStoreErrorsOverHTTP(t *testing.T) {
	e, store := newTestRouter(t)

	store.QueryErr = errors.New("connection reset by peer")
	rec := serve(e, http.MethodGet, "/submissions", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Internal Server Error"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	store.QueryErr = &pgconn.PgError{Code: "23505", TableName: "registrations", ConstraintName: "registrations_email_key"}
	rec = serve(e, http.MethodPost, "/registrations", `{"name": "Bo", "email": "bo@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "A Registration with this Email already exists"}`, rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := serve(e, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "Route not found"}`, rec.Body.String())
}

func TestNewGatewayRequest(t *testing.T) {
	httpReq := httptest.NewRequest(http.MethodPost, "/messages?ref=home", strings.NewReader("\xff\xfe"))
	httpReq.Header.Set("X-Test", "1")

	req, err := newGatewayRequest(httpReq)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, req.HTTPMethod)
	assert.Equal(t, "/messages", req.Path)
	assert.Equal(t, "home", req.QueryStringParameters["ref"])
	assert.Equal(t, "1", req.Headers["X-Test"])
	assert.True(t, req.IsBase64Encoded)

	raw, err := req.RawBody()
	require.NoError(t, err)
	assert.Equal(t, []byte("\xff\xfe"), raw)

	empty, err := newGatewayRequest(httptest.NewRequest(http.MethodGet, "/submissions", nil))
	require.NoError(t, err)
	assert.Nil(t, empty.Body)
}
