package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

const createSessionsTable = `
CREATE TABLE IF NOT EXISTS web_sessions (
	id           TEXT PRIMARY KEY,
	access_token TEXT NOT NULL,
	user_id      BIGINT NOT NULL DEFAULT 0,
	user_name    TEXT NOT NULL DEFAULT '',
	user_email   TEXT NOT NULL DEFAULT '',
	user_role    TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS web_sessions_expires_at_idx ON web_sessions (expires_at);`

// dbtx - часть *pgxpool.Pool, которая нужна репозиторию.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSessionRepository хранит серверные сессии в PostgreSQL.
type PostgresSessionRepository struct {
	db dbtx
}

func NewPostgresSessionRepository(db dbtx) (*PostgresSessionRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle cannot be nil")
	}
	return &PostgresSessionRepository{db: db}, nil
}

// EnsureSchema создает таблицу сессий, если ее еще нет.
func (r *PostgresSessionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createSessionsTable); err != nil {
		return fmt.Errorf("failed to create web_sessions table: %w", err)
	}
	return nil
}

func (r *PostgresSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresSessionRepository",
		"method":    "Save",
		"user_id":   session.User.ID,
	})

	query := `
		INSERT INTO web_sessions (id, access_token, user_id, user_name, user_email, user_role, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			user_id      = EXCLUDED.user_id,
			user_name    = EXCLUDED.user_name,
			user_email   = EXCLUDED.user_email,
			user_role    = EXCLUDED.user_role,
			expires_at   = EXCLUDED.expires_at`

	_, err := r.db.Exec(ctx, query,
		session.ID, session.AccessToken,
		session.User.ID, session.User.Name, session.User.Email, session.User.Role,
		session.CreatedAt, session.ExpiresAt,
	)
	if err != nil {
		repoLogger.Error("Failed to save session", err, nil)
		return fmt.Errorf("failed to save session: %w", err)
	}
	repoLogger.Debug("Session saved.", nil)
	return nil
}

func (r *PostgresSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT id, access_token, user_id, user_name, user_email, user_role, created_at, expires_at
		FROM web_sessions WHERE id = $1`

	var s domain.Session
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.AccessToken,
		&s.User.ID, &s.User.Name, &s.User.Email, &s.User.Role,
		&s.CreatedAt, &s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		contextkeys.LoggerFromContext(ctx).Error("Failed to load session", err, port.Fields{
			"component": "PostgresSessionRepository",
			"method":    "Get",
		})
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &s, nil
}

func (r *PostgresSessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM web_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *PostgresSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM web_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
