// Package repositorytest provides an in-memory repository.Store for tests.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/deppfellow/contactform/internal/model"
	"github.com/deppfellow/contactform/internal/repository"
)

// Store keeps submissions in memory and counts sessions so tests can check
// that every opened session is closed.
type Store struct {
	mu sync.Mutex

	registrations []model.Registration
	messages      []model.Message
	nextID        int64
	now           time.Time

	opened int
	closed int

	// OpenErr fails Open. QueryErr fails every list and insert.
	OpenErr  error
	QueryErr error
}

func NewStore() *Store {
	return &Store{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (s *Store) Open(ctx context.Context) (repository.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	s.opened++
	return &session{store: s}, nil
}

// Sessions returns how many sessions were opened and closed.
func (s *Store) Sessions() (opened, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened, s.closed
}

func (s *Store) Registrations() []model.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Registration(nil), s.registrations...)
}

func (s *Store) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Message(nil), s.messages...)
}

// tick returns a strictly increasing creation time and id.
func (s *Store) tick() (int64, *time.Time) {
	s.nextID++
	s.now = s.now.Add(time.Second)
	created := s.now
	return s.nextID, &created
}

type session struct {
	store  *Store
	closed bool
}

func (ss *session) ListRegistrations(ctx context.Context) ([]model.Registration, error) {
	s := ss.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.QueryErr != nil {
		return nil, s.QueryErr
	}

	out := append([]model.Registration{}, s.registrations...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(*out[j].CreatedAt) })
	return out, nil
}

func (ss *session) ListMessages(ctx context.Context) ([]model.Message, error) {
	s := ss.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.QueryErr != nil {
		return nil, s.QueryErr
	}

	out := append([]model.Message{}, s.messages...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(*out[j].CreatedAt) })
	return out, nil
}

func (ss *session) CreateRegistration(ctx context.Context, req *model.RegistrationRequest) (int64, error) {
	s := ss.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.QueryErr != nil {
		return 0, s.QueryErr
	}

	id, created := s.tick()
	s.registrations = append(s.registrations, model.Registration{
		ID:          id,
		Name:        req.Name,
		Email:       req.Email,
		Institution: req.Institution,
		CreatedAt:   created,
	})
	return id, nil
}

func (ss *session) CreateMessage(ctx context.Context, req *model.MessageRequest) (int64, error) {
	s := ss.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.QueryErr != nil {
		return 0, s.QueryErr
	}

	id, created := s.tick()
	s.messages = append(s.messages, model.Message{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		CreatedAt: created,
	})
	return id, nil
}

func (ss *session) Close(ctx context.Context) error {
	s := ss.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if !ss.closed {
		ss.closed = true
		s.closed++
	}
	return nil
}
