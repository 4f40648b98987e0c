package constants

// Имена REST-ресурсов бэкенда. Они же используются в URL админки и в ключах кэша.
const (
	ResourceCities        = "cities"
	ResourceNeighborhoods = "neighborhoods"
	ResourceMainTypes     = "main-types"
	ResourceSubTypes      = "sub-types"
	ResourceFinalTypes    = "final-types"
	ResourceCompanies     = "companies"
	ResourceBuildings     = "buildings"
	ResourceBuildingItems = "building-items"
	ResourceUnits         = "units"
	ResourceRealEstate    = "realestate"
)

// AllResources - порядок ресурсов в меню и на дашборде.
var AllResources = []string{
	ResourceRealEstate,
	ResourceBuildings,
	ResourceBuildingItems,
	ResourceUnits,
	ResourceCompanies,
	ResourceCities,
	ResourceNeighborhoods,
	ResourceMainTypes,
	ResourceSubTypes,
	ResourceFinalTypes,
}

// dependents - какие ресурсы показывают данные изменяемого ресурса.
var dependents = map[string][]string{
	ResourceCities:        {ResourceNeighborhoods, ResourceRealEstate},
	ResourceNeighborhoods: {ResourceRealEstate},
	ResourceMainTypes:     {ResourceSubTypes, ResourceFinalTypes, ResourceRealEstate},
	ResourceSubTypes:      {ResourceFinalTypes, ResourceRealEstate},
	ResourceFinalTypes:    {ResourceRealEstate},
	ResourceCompanies:     {ResourceBuildings},
	ResourceBuildings:     {ResourceUnits, ResourceBuildingItems},
	ResourceBuildingItems: {ResourceRealEstate},
}

// InvalidationScope возвращает ресурс и все ресурсы, зависящие от него
// напрямую или через цепочку (companies -> buildings -> building-items -> realestate).
func InvalidationScope(resource string) []string {
	scope := []string{resource}
	seen := map[string]bool{resource: true}
	for i := 0; i < len(scope); i++ {
		for _, dep := range dependents[scope[i]] {
			if !seen[dep] {
				seen[dep] = true
				scope = append(scope, dep)
			}
		}
	}
	return scope
}
