package usecases_port

import (
	"context"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

type LoginUseCasePort interface {
	Execute(ctx context.Context, email, password string) (*domain.Session, error)
}

type LogoutUseCasePort interface {
	Execute(ctx context.Context, sessionID string) error
}

type ResolveSessionUseCasePort interface {
	Execute(ctx context.Context, sessionID string) (*domain.Session, error)
}
