package querycache

import (
	"context"
	"net/url"
	"slices"
	"strconv"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/constants"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

// cachedResource - декоратор ResourcePort: чтения через кэш, мутации сбрасывают кэш.
type cachedResource[T any] struct {
	cache *Cache
	next  port.ResourcePort[T]
}

// Wrap возвращает next без изменений, если кэш выключен (cache == nil).
func Wrap[T any](cache *Cache, next port.ResourcePort[T]) port.ResourcePort[T] {
	if cache == nil {
		return next
	}
	return &cachedResource[T]{cache: cache, next: next}
}

func (r *cachedResource[T]) Resource() string { return r.next.Resource() }

func (r *cachedResource[T]) List(ctx context.Context, params url.Values) ([]T, error) {
	value, err := r.cache.Fetch(ctx, r.Resource(), "list?"+params.Encode(), func(ctx context.Context) (any, error) {
		return r.next.List(ctx, params)
	})
	if err != nil {
		return nil, err
	}
	// Копия, чтобы вызывающий код мог сортировать результат.
	return slices.Clone(value.([]T)), nil
}

func (r *cachedResource[T]) Get(ctx context.Context, id int64) (*T, error) {
	value, err := r.cache.Fetch(ctx, r.Resource(), "get/"+strconv.FormatInt(id, 10), func(ctx context.Context) (any, error) {
		return r.next.Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	item := *value.(*T)
	return &item, nil
}

func (r *cachedResource[T]) Create(ctx context.Context, entity T) (*T, error) {
	created, err := r.next.Create(ctx, entity)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return created, nil
}

func (r *cachedResource[T]) Update(ctx context.Context, id int64, entity T) (*T, error) {
	updated, err := r.next.Update(ctx, id, entity)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return updated, nil
}

func (r *cachedResource[T]) Delete(ctx context.Context, id int64) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *cachedResource[T]) invalidate(ctx context.Context) {
	r.cache.Invalidate(ctx, constants.InvalidationScope(r.Resource())...)
}

// WrapMarketplace оборачивает все ресурсные клиенты в кэш.
func WrapMarketplace(cache *Cache, api port.MarketplaceAPI) port.MarketplaceAPI {
	return port.MarketplaceAPI{
		Auth:          api.Auth,
		Cities:        Wrap(cache, api.Cities),
		Neighborhoods: Wrap(cache, api.Neighborhoods),
		MainTypes:     Wrap(cache, api.MainTypes),
		SubTypes:      Wrap(cache, api.SubTypes),
		FinalTypes:    Wrap(cache, api.FinalTypes),
		Companies:     Wrap(cache, api.Companies),
		Buildings:     Wrap(cache, api.Buildings),
		BuildingItems: Wrap(cache, api.BuildingItems),
		Units:         Wrap(cache, api.Units),
		RealEstate:    Wrap(cache, api.RealEstate),
	}
}
