package rest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/constants"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contracts"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
)

type fieldKind string

const (
	kindText     fieldKind = "text"
	kindTextarea fieldKind = "textarea"
	kindEmail    fieldKind = "email"
	kindInt      fieldKind = "int"
	kindFloat    fieldKind = "float"
	kindRef      fieldKind = "ref"
	kindEnum     fieldKind = "enum"
	kindList     fieldKind = "list"
)

// formField описывает поле формы админки и колонку таблицы.
type formField struct {
	Name     string
	Kind     fieldKind
	Required bool
	InList   bool
	// Ref - ресурс, из которого берутся варианты для kindRef.
	Ref string
	// Enum и EnumPrefix - варианты kindEnum и префикс ключа их перевода.
	Enum       []string
	EnumPrefix string
}

// parse превращает значение из формы в значение JSON payload.
// Пустое значение не попадает в payload, чтобы сработала проверка required.
func (f formField) parse(raw string) (any, bool, error) {
	raw = strings.TrimSpace(raw)
	if f.Kind == kindList {
		var items []string
		for _, line := range strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == ',' }) {
			if line = strings.TrimSpace(line); line != "" {
				items = append(items, line)
			}
		}
		return items, len(items) > 0, nil
	}
	if raw == "" {
		return nil, false, nil
	}

	switch f.Kind {
	case kindInt, kindRef:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", f.Name, err)
		}
		return v, true, nil
	case kindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", f.Name, err)
		}
		return v, true, nil
	default:
		return raw, true, nil
	}
}

// formatValue - значение поля из JSON-представления сущности в виде строки для формы.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, "\n")
	default:
		return fmt.Sprint(val)
	}
}

// parsePayload собирает payload из формы. Ошибки чисел возвращаются сразу,
// без похода в валидатор.
func parsePayload(fields []formField, get func(string) string) (map[string]any, *domain.ValidationError) {
	payload := make(map[string]any, len(fields))
	verr := domain.NewValidationError()
	for _, f := range fields {
		value, ok, err := f.parse(get(f.Name))
		if err != nil {
			verr.Add(f.Name, contracts.MsgInvalidNumber)
			continue
		}
		if ok {
			payload[f.Name] = value
		}
	}
	if !verr.Empty() {
		return nil, verr
	}
	return payload, nil
}

var (
	buildingStatuses = []string{domain.BuildingStatusCompleted, domain.BuildingStatusUnderConstruction}
	unitStatuses     = []string{domain.UnitStatusAvailable, domain.UnitStatusReserved, domain.UnitStatusSold}
	listingStatuses  = []string{domain.ListingStatusAvailable, domain.ListingStatusSold, domain.ListingStatusRented}
	itemTypes        = []string{domain.ItemTypeApartment, domain.ItemTypeShop, domain.ItemTypeOffice, domain.ItemTypeParking}
	furnishings      = []string{domain.FurnishingFurnished, domain.FurnishingSemiFurnished, domain.FurnishingUnfurnished}
)

// resourceFields - поля форм по ресурсам.
var resourceFields = map[string][]formField{
	constants.ResourceCities: {
		{Name: "name", Kind: kindText, Required: true, InList: true},
	},
	constants.ResourceNeighborhoods: {
		{Name: "name", Kind: kindText, Required: true, InList: true},
		{Name: "city_id", Kind: kindRef, Ref: constants.ResourceCities, Required: true, InList: true},
	},
	constants.ResourceMainTypes: {
		{Name: "name", Kind: kindText, Required: true, InList: true},
		{Name: "icon", Kind: kindText, InList: true},
	},
	constants.ResourceSubTypes: {
		{Name: "name", Kind: kindText, Required: true, InList: true},
		{Name: "main_type_id", Kind: kindRef, Ref: constants.ResourceMainTypes, Required: true, InList: true},
	},
	constants.ResourceFinalTypes: {
		{Name: "name", Kind: kindText, Required: true, InList: true},
		{Name: "sub_type_id", Kind: kindRef, Ref: constants.ResourceSubTypes, Required: true, InList: true},
	},
	constants.ResourceCompanies: {
		{Name: "name", Kind: kindText, Required: true, InList: true},
		{Name: "phone", Kind: kindText, Required: true, InList: true},
		{Name: "email", Kind: kindEmail, Required: true, InList: true},
		{Name: "address", Kind: kindText},
		{Name: "description", Kind: kindTextarea},
	},
	constants.ResourceBuildings: {
		{Name: "title", Kind: kindText, Required: true, InList: true},
		{Name: "company_id", Kind: kindRef, Ref: constants.ResourceCompanies, Required: true, InList: true},
		{Name: "location", Kind: kindText, Required: true, InList: true},
		{Name: "status", Kind: kindEnum, Enum: buildingStatuses, EnumPrefix: "status.", Required: true, InList: true},
		{Name: "building_age", Kind: kindInt},
		{Name: "latitude", Kind: kindFloat},
		{Name: "longitude", Kind: kindFloat},
	},
	constants.ResourceBuildingItems: {
		{Name: "building_id", Kind: kindRef, Ref: constants.ResourceBuildings, Required: true, InList: true},
		{Name: "name", Kind: kindText, Required: true, InList: true},
		{Name: "type", Kind: kindEnum, Enum: itemTypes, EnumPrefix: "item_type.", Required: true, InList: true},
		{Name: "price", Kind: kindFloat, Required: true, InList: true},
		{Name: "area", Kind: kindFloat, Required: true, InList: true},
	},
	constants.ResourceUnits: {
		{Name: "building_id", Kind: kindRef, Ref: constants.ResourceBuildings, Required: true, InList: true},
		{Name: "unit_number", Kind: kindText, Required: true, InList: true},
		{Name: "floor", Kind: kindInt, Required: true, InList: true},
		{Name: "area", Kind: kindFloat, Required: true},
		{Name: "rooms", Kind: kindInt},
		{Name: "price", Kind: kindFloat, Required: true, InList: true},
		{Name: "status", Kind: kindEnum, Enum: unitStatuses, EnumPrefix: "status.", Required: true, InList: true},
	},
	constants.ResourceRealEstate: {
		{Name: "title", Kind: kindText, Required: true, InList: true},
		{Name: "description", Kind: kindTextarea},
		{Name: "price", Kind: kindFloat, Required: true, InList: true},
		{Name: "city_id", Kind: kindRef, Ref: constants.ResourceCities, Required: true, InList: true},
		{Name: "neighborhood_id", Kind: kindRef, Ref: constants.ResourceNeighborhoods, Required: true},
		{Name: "main_type_id", Kind: kindRef, Ref: constants.ResourceMainTypes, Required: true},
		{Name: "sub_type_id", Kind: kindRef, Ref: constants.ResourceSubTypes, Required: true},
		{Name: "final_type_id", Kind: kindRef, Ref: constants.ResourceFinalTypes, Required: true},
		{Name: "building_item_id", Kind: kindRef, Ref: constants.ResourceBuildingItems},
		{Name: "area", Kind: kindFloat, Required: true},
		{Name: "rooms", Kind: kindInt},
		{Name: "bathrooms", Kind: kindInt},
		{Name: "furnishing", Kind: kindEnum, Enum: furnishings, EnumPrefix: "furnishing."},
		{Name: "status", Kind: kindEnum, Enum: listingStatuses, EnumPrefix: "status.", Required: true, InList: true},
		{Name: "latitude", Kind: kindFloat},
		{Name: "longitude", Kind: kindFloat},
		{Name: "cover_image", Kind: kindText},
		{Name: "images", Kind: kindList},
	},
}
