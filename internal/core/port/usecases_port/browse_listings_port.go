package usecases_port

import (
	"context"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

type BrowseListingsUseCasePort interface {
	Execute(ctx context.Context, filter domain.ListingFilter) (*domain.ListingSearchResult, error)
}
