package service

import "address-search/internal/models"

// Accumulator collects the placemarks of one source during a pass.
// Records keep discovery order; TryAppend drops records whose text duplicates one already held.
type Accumulator struct {
	items []models.Placemark
	keys  map[string]struct{}
}

// Clear empties the accumulator.
func (a *Accumulator) Clear() {
	a.items = nil
	a.keys = nil
}

// TryAppend appends p unless a record with the same text is already present.
// It reports whether p was appended.
func (a *Accumulator) TryAppend(p models.Placemark) bool {
	key := p.Text()
	if _, ok := a.keys[key]; ok {
		return false
	}
	if a.keys == nil {
		a.keys = make(map[string]struct{})
	}
	a.keys[key] = struct{}{}
	a.items = append(a.items, p)
	return true
}

// Assign replaces the contents with records as-is, without deduplication.
func (a *Accumulator) Assign(records []models.Placemark) {
	a.Clear()
	a.items = append(a.items, records...)
}

// Items returns a copy of the records in insertion order. It is never nil.
func (a *Accumulator) Items() []models.Placemark {
	out := make([]models.Placemark, len(a.items))
	copy(out, a.items)
	return out
}

// Len returns the number of records held.
func (a *Accumulator) Len() int {
	return len(a.items)
}
