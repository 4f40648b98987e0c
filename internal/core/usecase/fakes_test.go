package usecase

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

type fakeResource[T domain.Entity] struct {
	mu       sync.Mutex
	name     string
	items    []T
	listErr  error
	getErr   error
	mutErr   error
	lastList url.Values
	created  []T
	updated  map[int64]T
	deleted  []int64
}

func newFakeResource[T domain.Entity](name string, items ...T) *fakeResource[T] {
	return &fakeResource[T]{name: name, items: items, updated: map[int64]T{}}
}

func (f *fakeResource[T]) Resource() string { return f.name }

func (f *fakeResource[T]) List(ctx context.Context, params url.Values) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = params
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]T(nil), f.items...), nil
}

func (f *fakeResource[T]) Get(ctx context.Context, id int64) (*T, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, it := range f.items {
		if it.EntityID() == id {
			item := it
			return &item, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeResource[T]) Create(ctx context.Context, entity T) (*T, error) {
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	f.created = append(f.created, entity)
	return &entity, nil
}

func (f *fakeResource[T]) Update(ctx context.Context, id int64, entity T) (*T, error) {
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	f.updated[id] = entity
	return &entity, nil
}

func (f *fakeResource[T]) Delete(ctx context.Context, id int64) error {
	if f.mutErr != nil {
		return f.mutErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeValidator struct {
	err       error
	resources []string
}

func (v *fakeValidator) Validate(resource string, payload map[string]any) error {
	v.resources = append(v.resources, resource)
	return v.err
}

type fakeAudit struct {
	events []port.AuditEvent
	err    error
}

func (a *fakeAudit) Publish(ctx context.Context, event port.AuditEvent) error {
	a.events = append(a.events, event)
	return a.err
}

type fakeAuthAPI struct {
	token string
	user  *domain.User
	err   error

	me      *domain.User
	meErr   error
	meToken string
}

func (a *fakeAuthAPI) Login(ctx context.Context, c domain.Credentials) (string, *domain.User, error) {
	return a.token, a.user, a.err
}

func (a *fakeAuthAPI) CurrentUser(ctx context.Context) (*domain.User, error) {
	a.meToken = contextkeys.AccessTokenFromContext(ctx)
	return a.me, a.meErr
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[string]domain.Session{}}
}

func (s *fakeSessions) Save(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *fakeSessions) Get(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &session, nil
}

func (s *fakeSessions) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *fakeSessions) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type fakeMarketplace struct {
	cities        *fakeResource[domain.City]
	neighborhoods *fakeResource[domain.Neighborhood]
	mainTypes     *fakeResource[domain.MainType]
	subTypes      *fakeResource[domain.SubType]
	finalTypes    *fakeResource[domain.FinalType]
	companies     *fakeResource[domain.Company]
	buildings     *fakeResource[domain.Building]
	buildingItems *fakeResource[domain.BuildingItem]
	units         *fakeResource[domain.Unit]
	realEstate    *fakeResource[domain.RealEstate]
}

func newFakeMarketplace() *fakeMarketplace {
	return &fakeMarketplace{
		cities:        newFakeResource[domain.City]("cities"),
		neighborhoods: newFakeResource[domain.Neighborhood]("neighborhoods"),
		mainTypes:     newFakeResource[domain.MainType]("main-types"),
		subTypes:      newFakeResource[domain.SubType]("sub-types"),
		finalTypes:    newFakeResource[domain.FinalType]("final-types"),
		companies:     newFakeResource[domain.Company]("companies"),
		buildings:     newFakeResource[domain.Building]("buildings"),
		buildingItems: newFakeResource[domain.BuildingItem]("building-items"),
		units:         newFakeResource[domain.Unit]("units"),
		realEstate:    newFakeResource[domain.RealEstate]("realestate"),
	}
}

func (m *fakeMarketplace) api() port.MarketplaceAPI {
	return port.MarketplaceAPI{
		Cities:        m.cities,
		Neighborhoods: m.neighborhoods,
		MainTypes:     m.mainTypes,
		SubTypes:      m.subTypes,
		FinalTypes:    m.finalTypes,
		Companies:     m.companies,
		Buildings:     m.buildings,
		BuildingItems: m.buildingItems,
		Units:         m.units,
		RealEstate:    m.realEstate,
	}
}

func at(day int) *time.Time {
	t := time.Date(2026, time.March, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func coord(v float64) *float64 { return &v }
