package usecase

import (
	"context"
	"fmt"

	"github.com/mmcloughlin/geohash"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/contextkeys"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

const (
	nearbyGeohashPrecision = 5
	maxNearbyListings      = 4
)

type GetListingDetailsUseCase struct {
	api port.MarketplaceAPI
}

func NewGetListingDetailsUseCase(api port.MarketplaceAPI) *GetListingDetailsUseCase {
	return &GetListingDetailsUseCase{api: api}
}

func (uc *GetListingDetailsUseCase) Execute(ctx context.Context, id int64) (*domain.ListingDetails, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "GetListingDetails",
		"listing_id": id,
	})

	listing, err := uc.api.RealEstate.Get(ctx, id)
	if err != nil {
		ucLogger.Error("Failed to get listing", err, nil)
		return nil, fmt.Errorf("failed to get listing %d: %w", id, err)
	}

	details := &domain.ListingDetails{Listing: *listing}

	// Без справочников страница все равно показывается, просто без названий.
	if dicts, err := loadDictionaries(ctx, uc.api); err != nil {
		ucLogger.Warn("Dictionaries unavailable, names left empty", port.Fields{"error": err.Error()})
	} else {
		resolveNames(details, dicts)
	}

	if !listing.HasLocation() {
		return details, nil
	}
	lat, lng := listing.Coordinates()
	details.GeoCell = geohash.EncodeWithPrecision(lat, lng, nearbyGeohashPrecision)

	all, err := uc.api.RealEstate.List(ctx, nil)
	if err != nil {
		ucLogger.Warn("Nearby listings unavailable", port.Fields{"error": err.Error()})
		return details, nil
	}
	details.Nearby = nearby(all, listing.ID, details.GeoCell)
	return details, nil
}

func resolveNames(d *domain.ListingDetails, dicts *domain.Dictionaries) {
	l := d.Listing
	d.CityName = nameByID(dicts.Cities, l.CityID,
		func(c domain.City) int64 { return c.ID }, func(c domain.City) string { return c.Name })
	d.NeighborhoodName = nameByID(dicts.Neighborhoods, l.NeighborhoodID,
		func(n domain.Neighborhood) int64 { return n.ID }, func(n domain.Neighborhood) string { return n.Name })
	d.MainTypeName = nameByID(dicts.MainTypes, l.MainTypeID,
		func(t domain.MainType) int64 { return t.ID }, func(t domain.MainType) string { return t.Name })
	d.SubTypeName = nameByID(dicts.SubTypes, l.SubTypeID,
		func(t domain.SubType) int64 { return t.ID }, func(t domain.SubType) string { return t.Name })
	d.FinalTypeName = nameByID(dicts.FinalTypes, l.FinalTypeID,
		func(t domain.FinalType) int64 { return t.ID }, func(t domain.FinalType) string { return t.Name })
}

// nearby - объявления из той же ячейки geohash, новые первыми.
func nearby(all []domain.RealEstate, selfID int64, cell string) []domain.RealEstate {
	var result []domain.RealEstate
	for _, l := range all {
		if l.ID == selfID || !l.HasLocation() {
			continue
		}
		if lat, lng := l.Coordinates(); geohash.EncodeWithPrecision(lat, lng, nearbyGeohashPrecision) == cell {
			result = append(result, l)
		}
	}
	sortNewestFirst(result)
	if len(result) > maxNearbyListings {
		result = result[:maxNearbyListings]
	}
	return result
}
