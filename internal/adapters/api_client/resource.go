package api_client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

// ResourceClient - CRUD-клиент одного ресурса /api/{resource}.
type ResourceClient[T any] struct {
	client   *Client
	resource string
}

func NewResourceClient[T any](client *Client, resource string) *ResourceClient[T] {
	return &ResourceClient[T]{client: client, resource: resource}
}

func (c *ResourceClient[T]) Resource() string { return c.resource }

func (c *ResourceClient[T]) collectionPath() string {
	return "/api/" + c.resource
}

func (c *ResourceClient[T]) itemPath(id int64) string {
	return c.collectionPath() + "/" + strconv.FormatInt(id, 10)
}

// List обрабатывает GET /api/{resource}
func (c *ResourceClient[T]) List(ctx context.Context, params url.Values) ([]T, error) {
	var items []T
	if err := c.client.doJSON(ctx, http.MethodGet, c.collectionPath(), params, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get обрабатывает GET /api/{resource}/{id}
func (c *ResourceClient[T]) Get(ctx context.Context, id int64) (*T, error) {
	if id <= 0 {
		return nil, fmt.Errorf("get %s %d: %w", c.resource, id, domain.ErrInvalidID)
	}
	var item *T
	if err := c.client.doJSON(ctx, http.MethodGet, c.itemPath(id), nil, nil, &item); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("get %s %d: empty response: %w", c.resource, id, domain.ErrNotFound)
	}
	return item, nil
}

// Create обрабатывает POST /api/{resource}.
// Если бэкенд не вернул тело, возвращается отправленная сущность.
func (c *ResourceClient[T]) Create(ctx context.Context, entity T) (*T, error) {
	var created *T
	if err := c.client.doJSON(ctx, http.MethodPost, c.collectionPath(), nil, entity, &created); err != nil {
		return nil, err
	}
	if created == nil {
		created = &entity
	}
	return created, nil
}

// Update обрабатывает PUT /api/{resource}/{id}
func (c *ResourceClient[T]) Update(ctx context.Context, id int64, entity T) (*T, error) {
	if id <= 0 {
		return nil, fmt.Errorf("update %s %d: %w", c.resource, id, domain.ErrInvalidID)
	}
	var updated *T
	if err := c.client.doJSON(ctx, http.MethodPut, c.itemPath(id), nil, entity, &updated); err != nil {
		return nil, err
	}
	if updated == nil {
		updated = &entity
	}
	return updated, nil
}

// Delete обрабатывает DELETE /api/{resource}/{id}
func (c *ResourceClient[T]) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("delete %s %d: %w", c.resource, id, domain.ErrInvalidID)
	}
	return c.client.doJSON(ctx, http.MethodDelete, c.itemPath(id), nil, nil, nil)
}
