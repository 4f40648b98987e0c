package port

import (
	"context"
	"time"
)

// AuditEvent - событие об изменении справочника из админки.
type AuditEvent struct {
	Resource   string    `json:"resource"`
	Action     string    `json:"action"`
	EntityID   int64     `json:"entity_id"`
	UserID     int64     `json:"user_id,omitempty"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuditPublisherPort публикует события аудита. Ошибка публикации не должна
// отменять уже выполненную мутацию.
type AuditPublisherPort interface {
	Publish(ctx context.Context, event AuditEvent) error
}
