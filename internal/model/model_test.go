package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failedTags(t *testing.T, err error) map[string]string {
	t.Helper()
	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)

	tags := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		tags[fe.Field()] = fe.Tag()
	}
	return tags
}

func TestMessageRequestValidate(t *testing.T) {
	valid := &MessageRequest{Name: "Ann", Email: "ann@example.com", Message: "Hi"}
	assert.NoError(t, valid.Validate())

	err := (&MessageRequest{Name: "", Email: "ann", Message: ""}).Validate()
	assert.Equal(t, map[string]string{
		"Name":    "required",
		"Email":   "email",
		"Message": "required",
	}, failedTags(t, err))
}

func TestRegistrationRequestValidate(t *testing.T) {
	assert.NoError(t, (&RegistrationRequest{Name: "Bo", Email: "bo@example.com"}).Validate())

	// Limits count characters, not bytes.
	cyrillic := strings.Repeat("ж", 255)
	assert.NoError(t, (&RegistrationRequest{Name: cyrillic, Email: "bo@example.com", Institution: cyrillic}).Validate())

	err := (&RegistrationRequest{
		Name:        strings.Repeat("a", 256),
		Email:       "not-an-email",
		Institution: strings.Repeat("b", 256),
	}).Validate()
	assert.Equal(t, map[string]string{
		"Name":        "max",
		"Email":       "email",
		"Institution": "max",
	}, failedTags(t, err))
}

func TestEntitiesSerializeCreatedAt(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	withTime, err := json.Marshal(Message{ID: 1, Name: "Ann", CreatedAt: &created})
	require.NoError(t, err)
	assert.Contains(t, string(withTime), `"created_at":"2024-05-01T10:30:00Z"`)

	withoutTime, err := json.Marshal(Registration{ID: 2, Name: "Bo"})
	require.NoError(t, err)
	assert.Contains(t, string(withoutTime), `"created_at":null`)
	assert.Contains(t, string(withoutTime), `"institution":""`)
}
