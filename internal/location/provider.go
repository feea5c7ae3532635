package location

import (
	"sync"
	"time"

	"address-search/internal/models"
)

// Source supplies a coordinate.
type Source interface {
	Latest() models.Coordinate
}

// Provider holds the most recent known device coordinate. Until the first
// update it reports its fallback, or the origin when there is none.
type Provider struct {
	fallback  Source
	mu        sync.RWMutex
	latest    models.Coordinate
	updatedAt time.Time
}

// NewProvider creates a provider positioned at the origin.
func NewProvider() *Provider {
	return &Provider{}
}

// NewOverlay creates a provider that follows fallback until it is updated itself.
func NewOverlay(fallback Source) *Provider {
	return &Provider{fallback: fallback}
}

// Latest returns the most recent coordinate.
func (p *Provider) Latest() models.Coordinate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.updatedAt.IsZero() && p.fallback != nil {
		return p.fallback.Latest()
	}
	return p.latest
}

// UpdatedAt returns when the coordinate was last updated, zero if never.
func (p *Provider) UpdatedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updatedAt
}

// Update records a new coordinate.
func (p *Provider) Update(c models.Coordinate) error {
	if err := c.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.latest = c
	p.updatedAt = time.Now()
	return nil
}
