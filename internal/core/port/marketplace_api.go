package port

import (
	"context"
	"net/url"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

// ResourcePort - контракт CRUD-клиента для одного REST-ресурса бэкенда.
type ResourcePort[T any] interface {
	Resource() string
	List(ctx context.Context, params url.Values) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, entity T) (*T, error)
	Update(ctx context.Context, id int64, entity T) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// AuthAPIPort - контракт клиента аутентификации бэкенда.
type AuthAPIPort interface {
	Login(ctx context.Context, credentials domain.Credentials) (token string, user *domain.User, err error)
	CurrentUser(ctx context.Context) (*domain.User, error)
}

// MarketplaceAPI собирает клиенты всех ресурсов.
type MarketplaceAPI struct {
	Auth          AuthAPIPort
	Cities        ResourcePort[domain.City]
	Neighborhoods ResourcePort[domain.Neighborhood]
	MainTypes     ResourcePort[domain.MainType]
	SubTypes      ResourcePort[domain.SubType]
	FinalTypes    ResourcePort[domain.FinalType]
	Companies     ResourcePort[domain.Company]
	Buildings     ResourcePort[domain.Building]
	BuildingItems ResourcePort[domain.BuildingItem]
	Units         ResourcePort[domain.Unit]
	RealEstate    ResourcePort[domain.RealEstate]
}
