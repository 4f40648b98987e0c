package usecases_port

import (
	"context"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

type GetDashboardStatsUseCasePort interface {
	Execute(ctx context.Context) (*domain.DashboardStats, error)
}
