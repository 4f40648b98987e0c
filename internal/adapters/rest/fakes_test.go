package rest

import (
	"context"
	"net/url"
	"sync"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

type fakeBrowse struct {
	mu     sync.Mutex
	last   domain.ListingFilter
	result *domain.ListingSearchResult
	err    error
}

func (f *fakeBrowse) Execute(ctx context.Context, filter domain.ListingFilter) (*domain.ListingSearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = filter
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &domain.ListingSearchResult{Filter: filter.Normalize(), Page: domain.ListingPage{Page: 1, TotalPages: 1}}, nil
}

type fakeDetails struct {
	details *domain.ListingDetails
	err     error
}

func (f *fakeDetails) Execute(ctx context.Context, id int64) (*domain.ListingDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.details, nil
}

type fakeOverview struct {
	overview *domain.BuildingOverview
	err      error
}

func (f *fakeOverview) Execute(ctx context.Context, id int64) (*domain.BuildingOverview, error) {
	return f.overview, f.err
}

type fakeStats struct {
	stats *domain.DashboardStats
	err   error
}

func (f *fakeStats) Execute(ctx context.Context) (*domain.DashboardStats, error) {
	return f.stats, f.err
}

type fakeLogin struct {
	session *domain.Session
	err     error
}

func (f *fakeLogin) Execute(ctx context.Context, email, password string) (*domain.Session, error) {
	return f.session, f.err
}

type fakeLogout struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeLogout) Execute(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, sessionID)
	return nil
}

type fakeResolve struct {
	sessions map[string]*domain.Session
}

func (f *fakeResolve) Execute(ctx context.Context, sessionID string) (*domain.Session, error) {
	if s, ok := f.sessions[sessionID]; ok {
		return s, nil
	}
	return nil, domain.ErrUnauthorized
}

type fakeCatalog[T domain.Entity] struct {
	mu        sync.Mutex
	name      string
	items     []T
	err       error
	mutErr    error
	payloads  []map[string]any
	updatedID int64
	deletedID int64
}

func (f *fakeCatalog[T]) Resource() string { return f.name }

func (f *fakeCatalog[T]) List(ctx context.Context, params url.Values) ([]T, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeCatalog[T]) Get(ctx context.Context, id int64) (*T, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, it := range f.items {
		if it.EntityID() == id {
			item := it
			return &item, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCatalog[T]) Create(ctx context.Context, payload map[string]any) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	var zero T
	return &zero, nil
}

func (f *fakeCatalog[T]) Update(ctx context.Context, id int64, payload map[string]any) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	f.updatedID = id
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	var zero T
	return &zero, nil
}

func (f *fakeCatalog[T]) Delete(ctx context.Context, id int64) error {
	f.deletedID = id
	return f.mutErr
}

func newFakeCatalogs() (Catalogs, *fakeCatalog[domain.City], *fakeCatalog[domain.Neighborhood]) {
	cities := &fakeCatalog[domain.City]{name: "cities", items: []domain.City{{ID: 1, Name: "Damascus"}}}
	neighborhoods := &fakeCatalog[domain.Neighborhood]{name: "neighborhoods", items: []domain.Neighborhood{{ID: 4, Name: "Mezzeh", CityID: 1}}}
	return Catalogs{
		Cities:        cities,
		Neighborhoods: neighborhoods,
		MainTypes:     &fakeCatalog[domain.MainType]{name: "main-types"},
		SubTypes:      &fakeCatalog[domain.SubType]{name: "sub-types"},
		FinalTypes:    &fakeCatalog[domain.FinalType]{name: "final-types"},
		Companies:     &fakeCatalog[domain.Company]{name: "companies"},
		Buildings:     &fakeCatalog[domain.Building]{name: "buildings"},
		BuildingItems: &fakeCatalog[domain.BuildingItem]{name: "building-items"},
		Units:         &fakeCatalog[domain.Unit]{name: "units"},
		RealEstate:    &fakeCatalog[domain.RealEstate]{name: "realestate"},
	}, cities, neighborhoods
}

func coord(v float64) *float64 { return &v }
