package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

type BrowseListingsUseCase struct {
	api port.MarketplaceAPI
}

func NewBrowseListingsUseCase(api port.MarketplaceAPI) *BrowseListingsUseCase {
	return &BrowseListingsUseCase{api: api}
}

func (uc *BrowseListingsUseCase) Execute(ctx context.Context, filter domain.ListingFilter) (*domain.ListingSearchResult, error) {
	filter = filter.Normalize()
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "BrowseListings",
		"page":     filter.Page,
	})
	ucLogger.Debug("Use case started", nil)

	listings, err := uc.api.RealEstate.List(ctx, filter.QueryParams())
	if err != nil {
		ucLogger.Error("Failed to list real estate", err, nil)
		return nil, fmt.Errorf("failed to list real estate: %w", err)
	}

	// Бэкенд может игнорировать часть параметров, поэтому фильтруем и здесь.
	matched := make([]domain.RealEstate, 0, len(listings))
	for _, l := range listings {
		if filter.Matches(l) {
			matched = append(matched, l)
		}
	}
	sortNewestFirst(matched)

	dicts, err := loadDictionaries(ctx, uc.api)
	if err != nil {
		ucLogger.Error("Failed to load dictionaries", err, nil)
		return nil, err
	}

	page := paginate(matched, filter.Page, filter.PerPage)
	ucLogger.Debug("Use case finished", port.Fields{"total": page.Total, "on_page": len(page.Items)})

	return &domain.ListingSearchResult{
		Filter:       filter,
		Page:         page,
		Dictionaries: *dicts,
	}, nil
}

// sortNewestFirst: сначала с датой по убыванию, без даты - в конце, дальше по id.
func sortNewestFirst(items []domain.RealEstate) {
	slices.SortStableFunc(items, func(a, b domain.RealEstate) int {
		switch {
		case a.CreatedAt != nil && b.CreatedAt != nil && !a.CreatedAt.Equal(*b.CreatedAt):
			return b.CreatedAt.Compare(*a.CreatedAt)
		case a.CreatedAt != nil && b.CreatedAt == nil:
			return -1
		case a.CreatedAt == nil && b.CreatedAt != nil:
			return 1
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
}

func paginate(items []domain.RealEstate, page, perPage int) domain.ListingPage {
	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * perPage
	end := min(start+perPage, total)

	return domain.ListingPage{
		Items:      items[start:end],
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}
