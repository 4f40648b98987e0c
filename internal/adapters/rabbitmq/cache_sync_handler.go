package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/constants"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

// cacheInvalidator - часть querycache.Cache, которая нужна обработчику.
type cacheInvalidator interface {
	Invalidate(ctx context.Context, resources ...string)
}

// CacheSyncHandler сбрасывает локальный кэш, когда справочник изменил
// другой экземпляр дашборда.
type CacheSyncHandler struct {
	cache      cacheInvalidator
	instanceID string
	logger     port.LoggerPort
}

func NewCacheSyncHandler(cache cacheInvalidator, instanceID string, logger port.LoggerPort) *CacheSyncHandler {
	return &CacheSyncHandler{
		cache:      cache,
		instanceID: instanceID,
		logger:     logger.WithFields(port.Fields{"component": "CacheSyncHandler"}),
	}
}

// Handle подходит как rabbitmq_consumer.MessageHandler.
func (h *CacheSyncHandler) Handle(ctx context.Context, d amqp.Delivery) error {
	if origin, _ := d.Headers[constants.InstanceIDHeader].(string); origin != "" && origin == h.instanceID {
		// свой кэш уже сброшен при мутации
		return nil
	}

	var event port.AuditEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		h.logger.Error("Failed to decode audit event", err, port.Fields{"delivery_tag": d.DeliveryTag})
		return fmt.Errorf("failed to decode audit event: %w", err)
	}
	if !slices.Contains(constants.AllResources, event.Resource) {
		h.logger.Warn("Audit event for unknown resource", port.Fields{"resource": event.Resource})
		return fmt.Errorf("unknown resource %q", event.Resource)
	}

	logger := h.logger.WithFields(port.Fields{"resource": event.Resource, "action": event.Action})
	if event.TraceID != "" {
		logger = logger.WithFields(port.Fields{"trace_id": event.TraceID})
	}
	h.cache.Invalidate(contextkeys.ContextWithLogger(ctx, logger), constants.InvalidationScope(event.Resource)...)
	logger.Debug("Cache invalidated by remote change", nil)
	return nil
}
