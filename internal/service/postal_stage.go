package service

import (
	"context"

	"address-search/internal/models"

	"github.com/rs/zerolog"
)

// DefaultPostalVariants is the probe list used when none is configured.
var DefaultPostalVariants = []models.PostalField{models.PostalFieldStreet}

// Appender receives records found by a stage.
type Appender interface {
	TryAppend(models.Placemark) bool
}

// PostalStage probes the postal source once per configured field variant,
// placing the whole query into that single field.
type PostalStage struct {
	source   PostalAddressSource
	variants []models.PostalField
	logger   zerolog.Logger
}

// NewPostalStage creates a postal stage. An empty variant list falls back to DefaultPostalVariants.
func NewPostalStage(source PostalAddressSource, variants []models.PostalField, logger zerolog.Logger) *PostalStage {
	if len(variants) == 0 {
		variants = DefaultPostalVariants
	}
	return &PostalStage{
		source:   source,
		variants: append([]models.PostalField(nil), variants...),
		logger:   logger,
	}
}

// Variants returns the configured probe order.
func (s *PostalStage) Variants() []models.PostalField {
	return append([]models.PostalField(nil), s.variants...)
}

// Run probes every variant in order, feeding results into acc. A failing probe
// is skipped and never stops the remaining ones.
func (s *PostalStage) Run(ctx context.Context, query string, acc Appender) {
	for _, field := range s.variants {
		records, err := s.source.GeocodePostalAddress(ctx, models.NewPostalAddress(field, query))
		if err != nil {
			s.logger.Debug().Err(err).Str("variant", string(field)).Str("kind", ClassifyError(err).String()).Msg("postal probe failed")
			continue
		}

		appended := 0
		for _, r := range records {
			if acc.TryAppend(r) {
				appended++
			}
		}
		s.logger.Debug().Str("variant", string(field)).Int("returned", len(records)).Int("appended", appended).Msg("postal probe done")
	}
}
