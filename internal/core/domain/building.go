package domain

const (
	BuildingStatusCompleted         = "completed"
	BuildingStatusUnderConstruction = "under_construction"

	ItemTypeApartment = "apartment"
	ItemTypeShop      = "shop"
	ItemTypeOffice    = "office"
	ItemTypeParking   = "parking"
)

// Building - здание, которым управляет администратор.
type Building struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	CompanyID   int64    `json:"company_id"`
	Location    string   `json:"location"`
	Status      string   `json:"status"`
	BuildingAge int      `json:"building_age"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func (b Building) EntityID() int64 { return b.ID }

// BuildingItem - продаваемая позиция внутри здания (квартира, магазин, офис, парковка).
type BuildingItem struct {
	ID         int64   `json:"id"`
	BuildingID int64   `json:"building_id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Price      float64 `json:"price"`
	Area       float64 `json:"area"`
}

func (i BuildingItem) EntityID() int64 { return i.ID }

// BuildingOverview - данные экрана управления зданием.
type BuildingOverview struct {
	Building Building
	Company  *Company
	Units    []Unit
	Items    []BuildingItem
}
