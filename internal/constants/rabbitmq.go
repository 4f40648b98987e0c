package constants

const (
	AuditExchangeType = "topic"

	AuditActionCreated = "created"
	AuditActionUpdated = "updated"
	AuditActionDeleted = "deleted"

	// AuditBindingKey - все события справочников.
	AuditBindingKey = "catalog.#"
	// InstanceIDHeader - заголовок с id экземпляра, опубликовавшего событие.
	InstanceIDHeader = "instance_id"
)

// AuditRoutingKey - ключ маршрутизации события, например "catalog.units.created".
func AuditRoutingKey(resource, action string) string {
	return "catalog." + resource + "." + action
}
