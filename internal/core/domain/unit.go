package domain

const (
	UnitStatusAvailable = "available"
	UnitStatusReserved  = "reserved"
	UnitStatusSold      = "sold"
)

// Unit - помещение внутри здания.
type Unit struct {
	ID         int64   `json:"id"`
	BuildingID int64   `json:"building_id"`
	UnitNumber string  `json:"unit_number"`
	Floor      int     `json:"floor"`
	Area       float64 `json:"area"`
	Rooms      int     `json:"rooms"`
	Price      float64 `json:"price"`
	Status     string  `json:"status"`
}

func (u Unit) EntityID() int64 { return u.ID }
