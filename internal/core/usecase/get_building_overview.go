package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

type GetBuildingOverviewUseCase struct {
	api port.MarketplaceAPI
}

func NewGetBuildingOverviewUseCase(api port.MarketplaceAPI) *GetBuildingOverviewUseCase {
	return &GetBuildingOverviewUseCase{api: api}
}

func (uc *GetBuildingOverviewUseCase) Execute(ctx context.Context, buildingID int64) (*domain.BuildingOverview, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "GetBuildingOverview",
		"building_id": buildingID,
	})

	building, err := uc.api.Buildings.Get(ctx, buildingID)
	if err != nil {
		ucLogger.Error("Failed to get building", err, nil)
		return nil, fmt.Errorf("failed to get building %d: %w", buildingID, err)
	}

	overview := &domain.BuildingOverview{Building: *building}
	params := url.Values{"building_id": {strconv.FormatInt(buildingID, 10)}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		units, err := uc.api.Units.List(gctx, params)
		if err != nil {
			return fmt.Errorf("failed to list units: %w", err)
		}
		for _, u := range units {
			if u.BuildingID == buildingID {
				overview.Units = append(overview.Units, u)
			}
		}
		return nil
	})
	g.Go(func() error {
		items, err := uc.api.BuildingItems.List(gctx, params)
		if err != nil {
			return fmt.Errorf("failed to list building items: %w", err)
		}
		for _, it := range items {
			if it.BuildingID == buildingID {
				overview.Items = append(overview.Items, it)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		ucLogger.Error("Failed to load building contents", err, nil)
		return nil, err
	}

	// Компания только подпись на экране, ее отсутствие не ошибка.
	if building.CompanyID != 0 {
		company, err := uc.api.Companies.Get(ctx, building.CompanyID)
		if err != nil {
			ucLogger.Warn("Company unavailable", port.Fields{"company_id": building.CompanyID, "error": err.Error()})
		} else {
			overview.Company = company
		}
	}

	ucLogger.Debug("Use case finished", port.Fields{"units": len(overview.Units), "items": len(overview.Items)})
	return overview, nil
}
