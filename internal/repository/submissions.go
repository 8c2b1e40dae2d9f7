package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/contactform/internal/database"
	"github.com/deppfellow/contactform/internal/model"
	"github.com/jackc/pgx/v5"
)

const (
	listRegistrationsSQL = `
		SELECT id, name, email, COALESCE(institution, '') AS institution, created_at
		FROM registrations
		ORDER BY created_at DESC, id DESC`

	listMessagesSQL = `
		SELECT id, name, email, message, created_at
		FROM messages
		ORDER BY created_at DESC, id DESC`

	insertRegistrationSQL = `
		INSERT INTO registrations (name, email, institution)
		VALUES (@name, @email, @institution)
		RETURNING id`

	insertMessageSQL = `
		INSERT INTO messages (name, email, message)
		VALUES (@name, @email, @message)
		RETURNING id`
)

// SubmissionStore opens PostgreSQL sessions through a database.Connector.
type SubmissionStore struct {
	connector *database.Connector
}

func NewSubmissionStore(connector *database.Connector) *SubmissionStore {
	return &SubmissionStore{connector: connector}
}

func (s *SubmissionStore) Open(ctx context.Context) (Session, error) {
	conn, err := s.connector.Open(ctx)
	if err != nil {
		return nil, err
	}
	return &pgSession{conn: conn}, nil
}

type pgSession struct {
	conn *pgx.Conn
}

func (s *pgSession) ListRegistrations(ctx context.Context) ([]model.Registration, error) {
	rows, err := s.conn.Query(ctx, listRegistrationsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list registrations query: %w", err)
	}

	registrations, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Registration])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:registrations: %w", err)
	}
	if registrations == nil {
		registrations = []model.Registration{}
	}

	return registrations, nil
}

func (s *pgSession) ListMessages(ctx context.Context) ([]model.Message, error) {
	rows, err := s.conn.Query(ctx, listMessagesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list messages query: %w", err)
	}

	messages, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Message])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:messages: %w", err)
	}
	if messages == nil {
		messages = []model.Message{}
	}

	return messages, nil
}

func (s *pgSession) CreateRegistration(ctx context.Context, req *model.RegistrationRequest) (int64, error) {
	id, err := s.insert(ctx, insertRegistrationSQL, pgx.NamedArgs{
		"name":        req.Name,
		"email":       req.Email,
		"institution": req.Institution,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert registration: %w", err)
	}
	return id, nil
}

func (s *pgSession) CreateMessage(ctx context.Context, req *model.MessageRequest) (int64, error) {
	id, err := s.insert(ctx, insertMessageSQL, pgx.NamedArgs{
		"name":    req.Name,
		"email":   req.Email,
		"message": req.Message,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert message: %w", err)
	}
	return id, nil
}

// insert runs a single INSERT ... RETURNING id and commits it. Nothing is
// committed when any step fails.
func (s *pgSession) insert(ctx context.Context, sql string, args pgx.NamedArgs) (int64, error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	var id int64
	if err := tx.QueryRow(ctx, sql, args).Scan(&id); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return id, nil
}

func (s *pgSession) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}
