package usecases_port

import (
	"context"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

type GetBuildingOverviewUseCasePort interface {
	Execute(ctx context.Context, buildingID int64) (*domain.BuildingOverview, error)
}
