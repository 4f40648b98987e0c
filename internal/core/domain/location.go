package domain

// City - город из справочника бэкенда.
type City struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (c City) EntityID() int64 { return c.ID }

// Neighborhood - район, привязанный к городу.
type Neighborhood struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	CityID int64  `json:"city_id"`
}

func (n Neighborhood) EntityID() int64 { return n.ID }
