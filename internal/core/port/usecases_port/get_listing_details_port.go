package usecases_port

import (
	"context"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

type GetListingDetailsUseCasePort interface {
	Execute(ctx context.Context, id int64) (*domain.ListingDetails, error)
}
