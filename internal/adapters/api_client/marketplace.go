package api_client

import (
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/constants"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

// NewMarketplaceAPI собирает клиенты всех ресурсов поверх одного http-клиента.
func NewMarketplaceAPI(client *Client) port.MarketplaceAPI {
	return port.MarketplaceAPI{
		Auth:          NewAuthClient(client),
		Cities:        NewResourceClient[domain.City](client, constants.ResourceCities),
		Neighborhoods: NewResourceClient[domain.Neighborhood](client, constants.ResourceNeighborhoods),
		MainTypes:     NewResourceClient[domain.MainType](client, constants.ResourceMainTypes),
		SubTypes:      NewResourceClient[domain.SubType](client, constants.ResourceSubTypes),
		FinalTypes:    NewResourceClient[domain.FinalType](client, constants.ResourceFinalTypes),
		Companies:     NewResourceClient[domain.Company](client, constants.ResourceCompanies),
		Buildings:     NewResourceClient[domain.Building](client, constants.ResourceBuildings),
		BuildingItems: NewResourceClient[domain.BuildingItem](client, constants.ResourceBuildingItems),
		Units:         NewResourceClient[domain.Unit](client, constants.ResourceUnits),
		RealEstate:    NewResourceClient[domain.RealEstate](client, constants.ResourceRealEstate),
	}
}
