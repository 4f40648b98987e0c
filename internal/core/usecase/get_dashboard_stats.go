package usecase

import (
	"context"
	"errors"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/constants"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

const statsConcurrency = 4

type counter func(ctx context.Context) (int, error)

func countOf[T any](resource port.ResourcePort[T]) counter {
	return func(ctx context.Context) (int, error) {
		items, err := resource.List(ctx, nil)
		return len(items), err
	}
}

type GetDashboardStatsUseCase struct {
	counters map[string]counter
}

func NewGetDashboardStatsUseCase(api port.MarketplaceAPI) *GetDashboardStatsUseCase {
	return &GetDashboardStatsUseCase{counters: map[string]counter{
		constants.ResourceCities:        countOf(api.Cities),
		constants.ResourceNeighborhoods: countOf(api.Neighborhoods),
		constants.ResourceMainTypes:     countOf(api.MainTypes),
		constants.ResourceSubTypes:      countOf(api.SubTypes),
		constants.ResourceFinalTypes:    countOf(api.FinalTypes),
		constants.ResourceCompanies:     countOf(api.Companies),
		constants.ResourceBuildings:     countOf(api.Buildings),
		constants.ResourceBuildingItems: countOf(api.BuildingItems),
		constants.ResourceUnits:         countOf(api.Units),
		constants.ResourceRealEstate:    countOf(api.RealEstate),
	}}
}

// Execute считает записи по всем ресурсам. Недоступный ресурс попадает в Failed,
// ошибка возвращается только при отказе в доступе.
func (uc *GetDashboardStatsUseCase) Execute(ctx context.Context) (*domain.DashboardStats, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "GetDashboardStats"})

	stats := &domain.DashboardStats{Counts: make(map[string]int, len(uc.counters))}
	var (
		mu      sync.Mutex
		authErr error
	)

	var g errgroup.Group
	g.SetLimit(statsConcurrency)
	for resource, count := range uc.counters {
		g.Go(func() error {
			n, err := count(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				ucLogger.Warn("Failed to count resource", port.Fields{"resource": resource, "error": err.Error()})
				stats.Failed = append(stats.Failed, resource)
				if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrForbidden) {
					authErr = err
				}
				return nil
			}
			stats.Counts[resource] = n
			return nil
		})
	}
	_ = g.Wait()

	if authErr != nil {
		return nil, authErr
	}
	slices.Sort(stats.Failed)
	return stats, nil
}
