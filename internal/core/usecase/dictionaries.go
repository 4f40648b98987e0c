package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

// loadDictionaries параллельно загружает справочники фильтров.
func loadDictionaries(ctx context.Context, api port.MarketplaceAPI) (*domain.Dictionaries, error) {
	var dicts domain.Dictionaries
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		dicts.Cities, err = api.Cities.List(gctx, nil)
		return wrapList(api.Cities.Resource(), err)
	})
	g.Go(func() (err error) {
		dicts.Neighborhoods, err = api.Neighborhoods.List(gctx, nil)
		return wrapList(api.Neighborhoods.Resource(), err)
	})
	g.Go(func() (err error) {
		dicts.MainTypes, err = api.MainTypes.List(gctx, nil)
		return wrapList(api.MainTypes.Resource(), err)
	})
	g.Go(func() (err error) {
		dicts.SubTypes, err = api.SubTypes.List(gctx, nil)
		return wrapList(api.SubTypes.Resource(), err)
	})
	g.Go(func() (err error) {
		dicts.FinalTypes, err = api.FinalTypes.List(gctx, nil)
		return wrapList(api.FinalTypes.Resource(), err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dicts, nil
}

func wrapList(resource string, err error) error {
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", resource, err)
	}
	return nil
}

func nameByID[T any](items []T, id int64, idOf func(T) int64, nameOf func(T) string) string {
	if id == 0 {
		return ""
	}
	for _, item := range items {
		if idOf(item) == id {
			return nameOf(item)
		}
	}
	return ""
}
