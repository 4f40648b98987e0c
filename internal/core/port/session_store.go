package port

import (
	"context"
	"time"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

// SessionStorePort - хранилище серверных сессий.
// Get возвращает domain.ErrNotFound, если сессии нет.
type SessionStorePort interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
