package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/deppfellow/contactform/internal/config"
	"github.com/deppfellow/contactform/internal/database"
	"github.com/deppfellow/contactform/internal/gateway"
	"github.com/deppfellow/contactform/internal/handler"
	"github.com/deppfellow/contactform/internal/repository"
	"github.com/deppfellow/contactform/internal/repository/repositorytest"
	"github.com/deppfellow/contactform/internal/server"
	"github.com/deppfellow/contactform/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFunctions(store repository.Store) map[string]gateway.Func {
	logger := zerolog.Nop()
	s := &server.Server{Config: config.Default(), Logger: &logger}
	return handler.NewSubmissionHandler(s, service.NewSubmissionService(store, nil, &logger)).Functions()
}

func run(t *testing.T, store repository.Store, name, event string) (gateway.Response, error) {
	t.Helper()

	logger := zerolog.Nop()
	var out bytes.Buffer
	err := invoke(context.Background(), &logger, testFunctions(store), name, strings.NewReader(event), &out)

	var resp gateway.Response
	if out.Len() > 0 {
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	}
	return resp, err
}

func TestInvokeMessage(t *testing.T) {
	store := repositorytest.NewStore()

	resp, err := run(t, store, handler.FunctionSubmitMessage,
		`{"httpMethod": "POST", "body": "{\"name\": \"Ann\", \"email\": \"ann@example.com\", \"message\": \"Hi\"}"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, resp.IsBase64Encoded)
	assert.JSONEq(t, `{"success": true, "message": "Сообщение отправлено", "id": 1}`, resp.Body)
	assert.Len(t, store.Messages(), 1)
}

func TestInvokeEmptyEventIsGet(t *testing.T) {
	resp, err := run(t, repositorytest.NewStore(), handler.FunctionListSubmissions, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"registrations": [], "messages": []}`, resp.Body)
}

func TestInvokeMissingDatabaseURL(t *testing.T) {
	logger := zerolog.Nop()
	store := repository.NewSubmissionStore(database.New(config.Default(), &logger, nil))

	resp, err := run(t, store, handler.FunctionSubmitRegistration,
		`{"httpMethod": "POST", "body": "{\"name\": \"Bo\", \"email\": \"bo@example.com\"}"}`)
	assert.ErrorIs(t, err, database.ErrMissingDatabaseURL)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestInvokeStoreError(t *testing.T) {
	store := repositorytest.NewStore()
	store.QueryErr = errors.New("connection reset by peer")

	resp, err := run(t, store, handler.FunctionListSubmissions, `{"httpMethod": "GET"}`)
	assert.ErrorIs(t, err, store.QueryErr)
	assert.JSONEq(t, `{"error": "Internal Server Error"}`, resp.Body)
}

func TestInvokeUnknownFunction(t *testing.T) {
	_, err := run(t, repositorytest.NewStore(), "delete", `{}`)
	assert.EqualError(t, err, `unknown function "delete", want one of list, message, registration`)
}

func TestInvokeBadEvent(t *testing.T) {
	_, err := run(t, repositorytest.NewStore(), handler.FunctionListSubmissions, `{"httpMethod": 5}`)
	assert.Error(t, err)
}
