package service

import (
	"context"
	"sync"

	"address-search/internal/models"
)

// fakeSources records every call and delegates to optional funcs.
type fakeSources struct {
	mu           sync.Mutex
	addressCalls []string
	postalCalls  []models.PostalAddress
	regionCalls  []string
	regions      []models.Region

	address func(ctx context.Context, query string) ([]models.Placemark, error)
	postal  func(ctx context.Context, address models.PostalAddress) ([]models.Placemark, error)
	region  func(ctx context.Context, query string, region models.Region) ([]models.Placemark, error)
}

func (f *fakeSources) GeocodeAddress(ctx context.Context, query string) ([]models.Placemark, error) {
	f.mu.Lock()
	f.addressCalls = append(f.addressCalls, query)
	fn := f.address
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, query)
}

func (f *fakeSources) GeocodePostalAddress(ctx context.Context, address models.PostalAddress) ([]models.Placemark, error) {
	f.mu.Lock()
	f.postalCalls = append(f.postalCalls, address)
	fn := f.postal
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, address)
}

func (f *fakeSources) SearchPlacemarksInRegion(ctx context.Context, query string, region models.Region) ([]models.Placemark, error) {
	f.mu.Lock()
	f.regionCalls = append(f.regionCalls, query)
	f.regions = append(f.regions, region)
	fn := f.region
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, query, region)
}

func (f *fakeSources) sources() Sources {
	return Sources{AddressString: f, PostalAddress: f, RegionSearch: f}
}

func (f *fakeSources) calls() (address []string, postal []models.PostalAddress, region []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.addressCalls...),
		append([]models.PostalAddress(nil), f.postalCalls...),
		append([]string(nil), f.regionCalls...)
}

// recorder is a Sink collecting results.
type recorder struct {
	mu      sync.Mutex
	results []SearchResult
}

func (r *recorder) sink(res SearchResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recorder) all() []SearchResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SearchResult(nil), r.results...)
}

func (r *recorder) queries() []string {
	var qs []string
	for _, res := range r.all() {
		qs = append(qs, res.Query)
	}
	return qs
}

type fixedLocation models.Coordinate

func (l fixedLocation) Latest() models.Coordinate { return models.Coordinate(l) }
