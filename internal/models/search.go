package models

import "errors"

var (
	// ErrRateLimited is returned by a lookup source when its backend quota is exhausted.
	ErrRateLimited = errors.New("rate limited")
	// ErrNoResults is returned when a lookup source matched nothing.
	ErrNoResults = errors.New("no results")
	// ErrEmptyQuery is returned when a lookup is asked to resolve an empty query.
	ErrEmptyQuery = errors.New("empty query")
)

// ErrorKind is the outcome class of one lookup call.
type ErrorKind int

const (
	ErrorKindNone ErrorKind = iota
	ErrorKindRateLimited
	ErrorKindOther
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNone:
		return "none"
	case ErrorKindRateLimited:
		return "rate_limited"
	default:
		return "other"
	}
}

// Source identifies one of the three lookup strategies.
type Source int

const (
	SourceAddressString Source = iota
	SourcePostalAddress
	SourceRegionSearch
)

// Sources lists every source in display order.
var Sources = []Source{SourceAddressString, SourcePostalAddress, SourceRegionSearch}

func (s Source) String() string {
	switch s {
	case SourceAddressString:
		return "address_string"
	case SourcePostalAddress:
		return "postal_address"
	default:
		return "region_search"
	}
}

// Buckets holds the records collected per source during one search pass.
type Buckets struct {
	AddressString []Placemark `json:"addressString"`
	PostalAddress []Placemark `json:"postalAddress"`
	RegionSearch  []Placemark `json:"regionSearch"`
}

// Get returns the bucket for the given source.
func (b Buckets) Get(s Source) []Placemark {
	switch s {
	case SourceAddressString:
		return b.AddressString
	case SourcePostalAddress:
		return b.PostalAddress
	default:
		return b.RegionSearch
	}
}
