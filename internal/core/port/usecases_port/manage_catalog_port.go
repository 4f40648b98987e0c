package usecases_port

import (
	"context"
	"net/url"
)

// ManageCatalogUseCasePort - CRUD одного справочника админки.
// Create и Update принимают сырой payload формы и сначала проверяют его.
type ManageCatalogUseCasePort[T any] interface {
	Resource() string
	List(ctx context.Context, params url.Values) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, payload map[string]any) (*T, error)
	Update(ctx context.Context, id int64, payload map[string]any) (*T, error)
	Delete(ctx context.Context, id int64) error
}
