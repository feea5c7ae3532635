package service

import (
	"context"
	"errors"

	"address-search/internal/models"
)

// AddressStringSource resolves a free-text address.
type AddressStringSource interface {
	GeocodeAddress(ctx context.Context, query string) ([]models.Placemark, error)
}

// PostalAddressSource resolves a structured postal address.
type PostalAddressSource interface {
	GeocodePostalAddress(ctx context.Context, address models.PostalAddress) ([]models.Placemark, error)
}

// RegionSearchSource runs a text search constrained to a region.
type RegionSearchSource interface {
	SearchPlacemarksInRegion(ctx context.Context, query string, region models.Region) ([]models.Placemark, error)
}

// LocationProvider supplies the most recent known device coordinate.
type LocationProvider interface {
	Latest() models.Coordinate
}

// Sources groups the collaborators a search pass calls out to.
type Sources struct {
	AddressString AddressStringSource
	PostalAddress PostalAddressSource
	RegionSearch  RegionSearchSource
	// Location may be nil, in which case the origin is used as the region center.
	Location LocationProvider
}

// ClassifyError maps a lookup error onto its ErrorKind.
func ClassifyError(err error) models.ErrorKind {
	switch {
	case err == nil:
		return models.ErrorKindNone
	case errors.Is(err, models.ErrRateLimited):
		return models.ErrorKindRateLimited
	default:
		return models.ErrorKindOther
	}
}
