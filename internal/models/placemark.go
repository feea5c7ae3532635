package models

import "strings"

// Placemark is one located address as returned by a lookup source. Every field is optional; an empty string means absent.
type Placemark struct {
	Name                  string  `json:"name,omitempty"`
	Country               string  `json:"country,omitempty"`
	AdministrativeArea    string  `json:"administrativeArea,omitempty"`
	SubAdministrativeArea string  `json:"subAdministrativeArea,omitempty"`
	Locality              string  `json:"locality,omitempty"`
	SubLocality           string  `json:"subLocality,omitempty"`
	Thoroughfare          string  `json:"thoroughfare,omitempty"`
	SubThoroughfare       string  `json:"subThoroughfare,omitempty"`
	Latitude              float64 `json:"latitude"`
	Longitude             float64 `json:"longitude"`
}

// Text renders the placemark as `name[..] country[..] ...`, skipping absent fields.
// The result is both the display label and the deduplication key. Brackets inside values are not escaped.
func (p Placemark) Text() string {
	fields := [...]struct {
		name  string
		value string
	}{
		{"name", p.Name},
		{"country", p.Country},
		{"administrativeArea", p.AdministrativeArea},
		{"subAdministrativeArea", p.SubAdministrativeArea},
		{"locality", p.Locality},
		{"subLocality", p.SubLocality},
		{"thoroughfare", p.Thoroughfare},
		{"subThoroughfare", p.SubThoroughfare},
	}

	var b strings.Builder
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f.name)
		b.WriteByte('[')
		b.WriteString(f.value)
		b.WriteByte(']')
	}
	return b.String()
}
