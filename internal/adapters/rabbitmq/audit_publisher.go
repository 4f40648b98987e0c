package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/constants"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

// messagePublisher - часть rabbitmq_producer.Publisher, которая нужна адаптеру.
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// AuditPublisherAdapter публикует события изменений справочников в обменник аудита.
type AuditPublisherAdapter struct {
	publisher  messagePublisher
	appName    string
	instanceID string
}

// instanceID попадает в заголовок, чтобы экземпляр пропускал свои же события.
func NewAuditPublisherAdapter(publisher messagePublisher, appName, instanceID string) *AuditPublisherAdapter {
	return &AuditPublisherAdapter{publisher: publisher, appName: appName, instanceID: instanceID}
}

func (a *AuditPublisherAdapter) Publish(ctx context.Context, event port.AuditEvent) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "AuditPublisherAdapter",
		"resource":  event.Resource,
		"action":    event.Action,
		"entity_id": event.EntityID,
	})

	body, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal audit event", err, nil)
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         "CatalogChangedEvent",
		AppId:        a.appName,
		Body:         body,
		Headers: amqp.Table{
			"event_version":            "1.0.0",
			constants.InstanceIDHeader: a.instanceID,
		},
	}
	if event.TraceID != "" {
		msg.Headers["trace_id"] = event.TraceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	routingKey := constants.AuditRoutingKey(event.Resource, event.Action)
	if err := a.publisher.Publish(publishCtx, routingKey, msg); err != nil {
		logger.Error("Failed to publish audit event", err, port.Fields{"routing_key": routingKey})
		return err
	}

	logger.Debug("Audit event published", port.Fields{"routing_key": routingKey})
	return nil
}

// NoopAuditPublisher используется, когда аудит выключен.
type NoopAuditPublisher struct{}

func (NoopAuditPublisher) Publish(ctx context.Context, event port.AuditEvent) error { return nil }
