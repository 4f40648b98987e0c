package domain

// Entity - запись справочника с числовым id.
type Entity interface {
	EntityID() int64
}
