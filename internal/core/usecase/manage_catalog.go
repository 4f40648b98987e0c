package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/constants"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

// ManageCatalogUseCase - CRUD одного ресурса админки: проверка формы,
// вызов API и событие аудита после успешной мутации.
type ManageCatalogUseCase[T domain.Entity] struct {
	resource  port.ResourcePort[T]
	validator port.FormValidatorPort
	audit     port.AuditPublisherPort
	now       func() time.Time
}

func NewManageCatalogUseCase[T domain.Entity](
	resource port.ResourcePort[T],
	validator port.FormValidatorPort,
	audit port.AuditPublisherPort,
) *ManageCatalogUseCase[T] {
	return &ManageCatalogUseCase[T]{
		resource:  resource,
		validator: validator,
		audit:     audit,
		now:       time.Now,
	}
}

func (uc *ManageCatalogUseCase[T]) Resource() string { return uc.resource.Resource() }

func (uc *ManageCatalogUseCase[T]) logger(ctx context.Context, method string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ManageCatalog",
		"resource": uc.Resource(),
		"method":   method,
	})
}

func (uc *ManageCatalogUseCase[T]) List(ctx context.Context, params url.Values) ([]T, error) {
	items, err := uc.resource.List(ctx, params)
	if err != nil {
		uc.logger(ctx, "List").Error("Failed to list entities", err, nil)
		return nil, err
	}
	return items, nil
}

func (uc *ManageCatalogUseCase[T]) Get(ctx context.Context, id int64) (*T, error) {
	item, err := uc.resource.Get(ctx, id)
	if err != nil {
		uc.logger(ctx, "Get").Error("Failed to get entity", err, port.Fields{"id": id})
		return nil, err
	}
	return item, nil
}

func (uc *ManageCatalogUseCase[T]) Create(ctx context.Context, payload map[string]any) (*T, error) {
	ucLogger := uc.logger(ctx, "Create")

	entity, err := uc.decode(payload)
	if err != nil {
		ucLogger.Warn("Form rejected", port.Fields{"error": err.Error()})
		return nil, err
	}

	created, err := uc.resource.Create(ctx, entity)
	if err != nil {
		ucLogger.Error("Failed to create entity", err, nil)
		return nil, err
	}

	ucLogger.Info("Entity created", port.Fields{"id": (*created).EntityID()})
	uc.publish(ctx, constants.AuditActionCreated, (*created).EntityID())
	return created, nil
}

func (uc *ManageCatalogUseCase[T]) Update(ctx context.Context, id int64, payload map[string]any) (*T, error) {
	ucLogger := uc.logger(ctx, "Update").WithFields(port.Fields{"id": id})

	withID := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		withID[k] = v
	}
	withID["id"] = id

	entity, err := uc.decode(withID)
	if err != nil {
		ucLogger.Warn("Form rejected", port.Fields{"error": err.Error()})
		return nil, err
	}

	updated, err := uc.resource.Update(ctx, id, entity)
	if err != nil {
		ucLogger.Error("Failed to update entity", err, nil)
		return nil, err
	}

	ucLogger.Info("Entity updated", nil)
	uc.publish(ctx, constants.AuditActionUpdated, id)
	return updated, nil
}

func (uc *ManageCatalogUseCase[T]) Delete(ctx context.Context, id int64) error {
	ucLogger := uc.logger(ctx, "Delete").WithFields(port.Fields{"id": id})

	if err := uc.resource.Delete(ctx, id); err != nil {
		ucLogger.Error("Failed to delete entity", err, nil)
		return err
	}

	ucLogger.Info("Entity deleted", nil)
	uc.publish(ctx, constants.AuditActionDeleted, id)
	return nil
}

// decode проверяет payload по схеме и превращает его в сущность.
func (uc *ManageCatalogUseCase[T]) decode(payload map[string]any) (T, error) {
	var entity T
	if err := uc.validator.Validate(uc.Resource(), payload); err != nil {
		return entity, err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return entity, fmt.Errorf("failed to encode %s payload: %w", uc.Resource(), err)
	}
	if err := json.Unmarshal(raw, &entity); err != nil {
		return entity, fmt.Errorf("failed to decode %s payload: %w", uc.Resource(), err)
	}
	return entity, nil
}

// publish не возвращает ошибку: мутация уже выполнена на бэкенде.
func (uc *ManageCatalogUseCase[T]) publish(ctx context.Context, action string, id int64) {
	if uc.audit == nil {
		return
	}
	event := port.AuditEvent{
		Resource:   uc.Resource(),
		Action:     action,
		EntityID:   id,
		TraceID:    contextkeys.TraceIDFromContext(ctx),
		OccurredAt: uc.now().UTC(),
	}
	if session := contextkeys.SessionFromContext(ctx); session != nil {
		event.UserID = session.User.ID
	}
	if err := uc.audit.Publish(ctx, event); err != nil {
		uc.logger(ctx, "publish").Warn("Failed to publish audit event", port.Fields{
			"action": action,
			"id":     id,
			"error":  err.Error(),
		})
	}
}
