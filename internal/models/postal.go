package models

import "fmt"

// PostalField names one field of a structured postal address.
type PostalField string

const (
	PostalFieldStreet                PostalField = "street"
	PostalFieldSubLocality           PostalField = "subLocality"
	PostalFieldCity                  PostalField = "city"
	PostalFieldSubAdministrativeArea PostalField = "subAdministrativeArea"
	PostalFieldState                 PostalField = "state"
	PostalFieldCountry               PostalField = "country"
)

// PostalFields lists every supported field in probe order.
var PostalFields = []PostalField{
	PostalFieldStreet,
	PostalFieldSubLocality,
	PostalFieldCity,
	PostalFieldSubAdministrativeArea,
	PostalFieldState,
	PostalFieldCountry,
}

// ParsePostalField validates a field name.
func ParsePostalField(name string) (PostalField, error) {
	for _, f := range PostalFields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown postal address field %q", name)
}

// PostalAddress is a structured address used by the postal lookup.
type PostalAddress struct {
	Street                string
	SubLocality           string
	City                  string
	SubAdministrativeArea string
	State                 string
	Country               string
}

// NewPostalAddress builds an address with value placed in exactly one field.
func NewPostalAddress(field PostalField, value string) PostalAddress {
	var a PostalAddress
	switch field {
	case PostalFieldStreet:
		a.Street = value
	case PostalFieldSubLocality:
		a.SubLocality = value
	case PostalFieldCity:
		a.City = value
	case PostalFieldSubAdministrativeArea:
		a.SubAdministrativeArea = value
	case PostalFieldState:
		a.State = value
	case PostalFieldCountry:
		a.Country = value
	}
	return a
}

// IsEmpty reports whether no field is set.
func (a PostalAddress) IsEmpty() bool {
	return a == PostalAddress{}
}
