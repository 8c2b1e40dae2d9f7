package service

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/contactform/internal/model"
	"github.com/deppfellow/contactform/internal/repository/repositorytest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	messages      []int64
	registrations []int64
	err           error
}

func (n *recordingNotifier) NotifyMessage(ctx context.Context, id int64, req *model.MessageRequest) error {
	n.messages = append(n.messages, id)
	return n.err
}

func (n *recordingNotifier) NotifyRegistration(ctx context.Context, id int64, req *model.RegistrationRequest) error {
	n.registrations = append(n.registrations, id)
	return n.err
}

func newTestService(notifier Notifier) (*SubmissionService, *repositorytest.Store) {
	store := repositorytest.NewStore()
	logger := zerolog.Nop()
	return NewSubmissionService(store, notifier, &logger), store
}

func TestSubmitMessage(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, store := newTestService(notifier)

	resp, err := svc.SubmitMessage(context.Background(), &model.MessageRequest{Name: "Ann", Email: "ann@example.com", Message: "Hi"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Сообщение отправлено", resp.Message)

	messages := store.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, resp.ID, messages[0].ID)
	assert.Equal(t, []int64{resp.ID}, notifier.messages)

	opened, closed := store.Sessions()
	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, closed)
}

func TestSubmitRegistrationNotifierFailureIgnored(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("redis down")}
	svc, store := newTestService(notifier)

	resp, err := svc.SubmitRegistration(context.Background(), &model.RegistrationRequest{Name: "Bo", Email: "bo@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Регистрация успешна", resp.Message)
	assert.Len(t, store.Registrations(), 1)
	assert.Equal(t, []int64{resp.ID}, notifier.registrations)
}

func TestSubmitWithoutNotifier(t *testing.T) {
	svc, store := newTestService(nil)

	_, err := svc.SubmitRegistration(context.Background(), &model.RegistrationRequest{Name: "Bo", Email: "bo@example.com"})
	require.NoError(t, err)
	assert.Len(t, store.Registrations(), 1)
}

func TestStoreErrorsCloseSession(t *testing.T) {
	svc, store := newTestService(nil)
	store.QueryErr = errors.New("connection lost")

	_, err := svc.SubmitMessage(context.Background(), &model.MessageRequest{Name: "Ann", Email: "ann@example.com", Message: "Hi"})
	assert.ErrorIs(t, err, store.QueryErr)

	_, err = svc.ListSubmissions(context.Background())
	assert.ErrorIs(t, err, store.QueryErr)

	opened, closed := store.Sessions()
	assert.Equal(t, 2, opened)
	assert.Equal(t, 2, closed)
	assert.Empty(t, store.Messages())
}

func TestOpenErrorPropagates(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, store := newTestService(notifier)
	store.OpenErr = errors.New("database url is not configured")

	_, err := svc.SubmitMessage(context.Background(), &model.MessageRequest{Name: "Ann", Email: "ann@example.com", Message: "Hi"})
	assert.ErrorIs(t, err, store.OpenErr)
	assert.Empty(t, notifier.messages)
}

func TestListSubmissionsNewestFirst(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.SubmitMessage(ctx, &model.MessageRequest{Name: name, Email: name + "@example.com", Message: "m"})
		require.NoError(t, err)
	}
	_, err := svc.SubmitRegistration(ctx, &model.RegistrationRequest{Name: "r", Email: "r@example.com"})
	require.NoError(t, err)

	result, err := svc.ListSubmissions(ctx)
	require.NoError(t, err)
	require.Len(t, result.Messages, 3)
	assert.Equal(t, "c", result.Messages[0].Name)
	assert.Equal(t, "a", result.Messages[2].Name)
	assert.Len(t, result.Registrations, 1)
}

func TestListSubmissionsEmpty(t *testing.T) {
	svc, _ := newTestService(nil)

	result, err := svc.ListSubmissions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result.Registrations)
	assert.NotNil(t, result.Messages)
}
