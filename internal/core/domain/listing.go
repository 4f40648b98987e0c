package domain

import (
	"net/url"
	"strconv"
	"time"
)

const (
	ListingStatusAvailable = "available"
	ListingStatusSold      = "sold"
	ListingStatusRented    = "rented"

	FurnishingFurnished     = "furnished"
	FurnishingSemiFurnished = "semi_furnished"
	FurnishingUnfurnished   = "unfurnished"

	DefaultListingsPerPage = 12
	MaxListingsPerPage     = 48
)

// RealEstate - объявление, которое видит конечный пользователь.
// Редактируемые необязательные поля сериализуются всегда: PUT с пустым
// значением очищает поле на бэкенде. Координаты - указатели, чтобы 0 не
// путался с "не задано".
type RealEstate struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Price          float64    `json:"price"`
	CityID         int64      `json:"city_id"`
	NeighborhoodID int64      `json:"neighborhood_id"`
	MainTypeID     int64      `json:"main_type_id"`
	SubTypeID      int64      `json:"sub_type_id"`
	FinalTypeID    int64      `json:"final_type_id"`
	BuildingItemID *int64     `json:"building_item_id"`
	Area           float64    `json:"area"`
	Rooms          int        `json:"rooms"`
	Bathrooms      int        `json:"bathrooms"`
	Furnishing     string     `json:"furnishing"`
	Status         string     `json:"status"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	CoverImage     string     `json:"cover_image"`
	Images         []string   `json:"images"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}

func (r RealEstate) EntityID() int64 { return r.ID }

func (r RealEstate) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Coordinates - широта и долгота; имеет смысл только при HasLocation.
func (r RealEstate) Coordinates() (lat, lng float64) {
	if r.HasLocation() {
		return *r.Latitude, *r.Longitude
	}
	return 0, 0
}

// ListingFilter - параметры фильтрации. Нулевые значения означают "любой".
type ListingFilter struct {
	CityID         int64
	NeighborhoodID int64
	MainTypeID     int64
	SubTypeID      int64
	FinalTypeID    int64
	MinPrice       float64
	MaxPrice       float64
	Status         string
	Page           int
	PerPage        int
}

// Normalize приводит пагинацию к допустимым значениям.
func (f ListingFilter) Normalize() ListingFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage <= 0 {
		f.PerPage = DefaultListingsPerPage
	}
	if f.PerPage > MaxListingsPerPage {
		f.PerPage = MaxListingsPerPage
	}
	if f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		f.MinPrice, f.MaxPrice = f.MaxPrice, f.MinPrice
	}
	return f
}

// Matches проверяет объявление на соответствие фильтру.
func (f ListingFilter) Matches(r RealEstate) bool {
	if f.CityID != 0 && r.CityID != f.CityID {
		return false
	}
	if f.NeighborhoodID != 0 && r.NeighborhoodID != f.NeighborhoodID {
		return false
	}
	if f.MainTypeID != 0 && r.MainTypeID != f.MainTypeID {
		return false
	}
	if f.SubTypeID != 0 && r.SubTypeID != f.SubTypeID {
		return false
	}
	if f.FinalTypeID != 0 && r.FinalTypeID != f.FinalTypeID {
		return false
	}
	if f.MinPrice > 0 && r.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && r.Price > f.MaxPrice {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}

// QueryParams - параметры, которые пробрасываются в GET /api/realestate.
// Пагинация сюда не входит, она делается на нашей стороне.
func (f ListingFilter) QueryParams() url.Values {
	params := url.Values{}
	setID := func(key string, v int64) {
		if v != 0 {
			params.Set(key, strconv.FormatInt(v, 10))
		}
	}
	setID("city_id", f.CityID)
	setID("neighborhood_id", f.NeighborhoodID)
	setID("main_type_id", f.MainTypeID)
	setID("sub_type_id", f.SubTypeID)
	setID("final_type_id", f.FinalTypeID)
	if f.MinPrice > 0 {
		params.Set("min_price", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		params.Set("max_price", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.Status != "" {
		params.Set("status", f.Status)
	}
	return params
}

// Dictionaries - справочники для фильтров и форм.
type Dictionaries struct {
	Cities        []City
	Neighborhoods []Neighborhood
	MainTypes     []MainType
	SubTypes      []SubType
	FinalTypes    []FinalType
}

// ListingPage - страница результатов поиска.
type ListingPage struct {
	Items      []RealEstate
	Total      int
	Page       int
	PerPage    int
	TotalPages int
}

func (p ListingPage) HasPrev() bool { return p.Page > 1 }
func (p ListingPage) HasNext() bool { return p.Page < p.TotalPages }

// ListingDetails - объявление с раскрытыми справочными значениями.
type ListingDetails struct {
	Listing          RealEstate
	CityName         string
	NeighborhoodName string
	MainTypeName     string
	SubTypeName      string
	FinalTypeName    string
	GeoCell          string
	Nearby           []RealEstate
}

// ListingSearchResult - страница поиска вместе со справочниками для фильтров.
type ListingSearchResult struct {
	Filter       ListingFilter
	Page         ListingPage
	Dictionaries Dictionaries
}
