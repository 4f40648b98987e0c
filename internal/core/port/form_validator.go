package port

// FormValidatorPort проверяет payload формы по схеме ресурса.
// Возвращает *domain.ValidationError, если поля заполнены неверно.
type FormValidatorPort interface {
	Validate(resource string, payload map[string]any) error
}
