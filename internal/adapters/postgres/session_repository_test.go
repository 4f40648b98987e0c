package postgres_adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *int64:
			*p = r.values[i].(int64)
		case *time.Time:
			*p = r.values[i].(time.Time)
		}
	}
	return nil
}

type fakeDB struct {
	execSQL  []string
	execArgs [][]any
	row      fakeRow
	tag      pgconn.CommandTag
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	return f.tag, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return f.row
}

func TestSaveSendsAllColumns(t *testing.T) {
	db := &fakeDB{}
	repo, err := NewPostgresSessionRepository(db)
	require.NoError(t, err)

	now := time.Now()
	err = repo.Save(context.Background(), &domain.Session{
		ID: "sid", AccessToken: "tok", CreatedAt: now, ExpiresAt: now.Add(time.Hour),
		User: domain.User{ID: 4, Name: "Rami", Email: "rami@example.com", Role: "admin"},
	})
	require.NoError(t, err)
	require.Len(t, db.execArgs, 1)
	assert.Equal(t, []any{"sid", "tok", int64(4), "Rami", "rami@example.com", "admin", now, now.Add(time.Hour)}, db.execArgs[0])
}

func TestGetMapsNoRowsToNotFound(t *testing.T) {
	repo, _ := NewPostgresSessionRepository(&fakeDB{row: fakeRow{err: pgx.ErrNoRows}})

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetWrapsOtherErrors(t *testing.T) {
	repo, _ := NewPostgresSessionRepository(&fakeDB{row: fakeRow{err: errors.New("conn reset")}})

	_, err := repo.Get(context.Background(), "sid")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetScansSession(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo, _ := NewPostgresSessionRepository(&fakeDB{row: fakeRow{values: []any{
		"sid", "tok", int64(7), "Lina", "lina@example.com", "user", created, created.Add(time.Hour),
	}}})

	s, err := repo.Get(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, "tok", s.AccessToken)
	assert.Equal(t, int64(7), s.User.ID)
	assert.Equal(t, created.Add(time.Hour), s.ExpiresAt)
}

func TestDeleteExpiredReturnsRowsAffected(t *testing.T) {
	db := &fakeDB{tag: pgconn.NewCommandTag("DELETE 3")}
	repo, _ := NewPostgresSessionRepository(db)

	n, err := repo.DeleteExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestNilDatabaseIsRejected(t *testing.T) {
	_, err := NewPostgresSessionRepository(nil)
	assert.Error(t, err)
}
