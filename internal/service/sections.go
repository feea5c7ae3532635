package service

import "address-search/internal/models"

const (
	placeholderNoPlacemarks = "No placemarks."
	placeholderRateLimited  = "Request limit occurred."
)

var sectionTitles = map[models.Source]string{
	models.SourceAddressString: "Address string lookup",
	models.SourcePostalAddress: "Postal address lookup",
	models.SourceRegionSearch:  "Regional search",
}

// Section is the display form of one bucket.
type Section struct {
	Source string   `json:"source"`
	Title  string   `json:"title"`
	Rows   []string `json:"rows"`
	Empty  bool     `json:"empty"`
}

// Sections renders a result as one section per source, in display order.
// An empty bucket gets a single placeholder row; the two geocoder-backed
// sections show the request limit message when the pass was rate limited.
func Sections(r SearchResult) []Section {
	sections := make([]Section, 0, len(models.Sources))
	for _, src := range models.Sources {
		records := r.Buckets.Get(src)
		s := Section{Source: src.String(), Title: sectionTitles[src]}

		if len(records) == 0 {
			s.Empty = true
			if r.RateLimited && src != models.SourceRegionSearch {
				s.Rows = []string{placeholderRateLimited}
			} else {
				s.Rows = []string{placeholderNoPlacemarks}
			}
			sections = append(sections, s)
			continue
		}

		s.Rows = make([]string, 0, len(records))
		for _, p := range records {
			s.Rows = append(s.Rows, p.Text())
		}
		sections = append(sections, s)
	}
	return sections
}
