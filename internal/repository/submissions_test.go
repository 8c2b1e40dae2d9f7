package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/deppfellow/contactform/internal/config"
	"github.com/deppfellow/contactform/internal/database"
	"github.com/deppfellow/contactform/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDatabaseURLEnv = "CONTACTFORM_TEST_DATABASE_URL"

// setupStore migrates and truncates the database named by
// CONTACTFORM_TEST_DATABASE_URL, skipping when it is unset.
func setupStore(t *testing.T) *SubmissionStore {
	t.Helper()

	url := os.Getenv(testDatabaseURLEnv)
	if url == "" {
		t.Skipf("%s not set", testDatabaseURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.Default()
	cfg.Database.URL = url
	logger := zerolog.Nop()

	require.NoError(t, database.Migrate(ctx, &logger, cfg))

	connector := database.New(cfg, &logger, nil)
	conn, err := connector.Open(ctx)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, "TRUNCATE registrations, messages RESTART IDENTITY")
	require.NoError(t, err)
	require.NoError(t, conn.Close(ctx))

	return NewSubmissionStore(connector)
}

func TestOpenWithoutDatabaseURL(t *testing.T) {
	cfg := config.Default()
	logger := zerolog.Nop()
	store := NewSubmissionStore(database.New(cfg, &logger, nil))

	session, err := store.Open(context.Background())
	assert.Nil(t, session)
	assert.ErrorIs(t, err, database.ErrMissingDatabaseURL)
}

func TestSubmissionStoreRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	session, err := store.Open(ctx)
	require.NoError(t, err)
	defer session.Close(ctx)

	empty, err := session.ListMessages(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	firstID, err := session.CreateMessage(ctx, &model.MessageRequest{Name: "Ann", Email: "ann@example.com", Message: "Hi"})
	require.NoError(t, err)
	secondID, err := session.CreateMessage(ctx, &model.MessageRequest{Name: "Cy", Email: "cy@example.com", Message: "Hello"})
	require.NoError(t, err)
	assert.Greater(t, secondID, firstID)

	regID, err := session.CreateRegistration(ctx, &model.RegistrationRequest{Name: "Bo", Email: "bo@example.com"})
	require.NoError(t, err)

	messages, err := session.ListMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, secondID, messages[0].ID)
	assert.Equal(t, "Ann", messages[1].Name)
	assert.Equal(t, "Hi", messages[1].Message)
	require.NotNil(t, messages[1].CreatedAt)

	registrations, err := session.ListRegistrations(ctx)
	require.NoError(t, err)
	require.Len(t, registrations, 1)
	assert.Equal(t, regID, registrations[0].ID)
	assert.Equal(t, "", registrations[0].Institution)
}
