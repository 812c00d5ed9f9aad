package impact

import (
	"context"

	"bioatlas-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Impact is the species-damage footprint of one asset at a given allocation.
// The three damage fields are scaled by the allocation; PositiveScore is a
// property of the asset itself (not a flow quantity) and is passed through
// unscaled.
type Impact struct {
	DamageToMarineSpecies      float64 `json:"damage_to_marine_species"`
	DamageToFreshwaterSpecies  float64 `json:"damage_to_freshwater_species"`
	DamageToTerrestrialSpecies float64 `json:"damage_to_terrestrial_species"`
	PositiveScore              float64 `json:"positive_score"`
}

// PortfolioRow is one parsed row of an uploaded portfolio. Allocation is an
// opaque multiplier in the caller's unit (fraction or percentage); the
// calculator multiplies and the output inherits the caller's convention.
type PortfolioRow struct {
	InstrumentID string  `json:"instrumentid"`
	Name         string  `json:"name"`
	Allocation   float64 `json:"allocation"`
}

// PortfolioLine is the computed impact for one portfolio row.
type PortfolioLine struct {
	InstrumentID               string  `json:"instrumentid"`
	Name                       string  `json:"name"`
	Allocation                 float64 `json:"allocation"`
	DamageToMarineSpecies      float64 `json:"damage_to_marine_species"`
	DamageToFreshwaterSpecies  float64 `json:"damage_to_freshwater_species"`
	DamageToTerrestrialSpecies float64 `json:"damage_to_terrestrial_species"`
}

// Service computes asset and portfolio impacts from the reference tables.
type Service struct {
	DB *gorm.DB
}

// AssetImpact returns the endpoint damages of one asset scaled by
// allocation. ErrEndpointNotFound when the instrument has no endpoint row.
func (s *Service) AssetImpact(ctx context.Context, instrumentID string, allocation float64) (Impact, error) {
	var ep models.Endpoint
	if err := s.DB.WithContext(ctx).Where("instrumentid = ?", instrumentID).First(&ep).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return Impact{}, ErrEndpointNotFound
		}
		return Impact{}, err
	}
	return Impact{
		DamageToMarineSpecies:      ep.DamageToMarineSpecies * allocation,
		DamageToFreshwaterSpecies:  ep.DamageToFreshwaterSpecies * allocation,
		DamageToTerrestrialSpecies: ep.DamageToTerrestrialSpecies * allocation,
		PositiveScore:              ep.PositiveScore,
	}, nil
}

// AssetMidpoints returns the ten midpoint indicators of one asset keyed by
// display name, unscaled. ErrMidpointNotFound when absent.
func (s *Service) AssetMidpoints(ctx context.Context, instrumentID string) (map[string]float64, error) {
	var mp models.Midpoint
	if err := s.DB.WithContext(ctx).Where("instrumentid = ?", instrumentID).First(&mp).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrMidpointNotFound
		}
		return nil, err
	}
	return mp.Labels(), nil
}

// Aggregate computes one line per portfolio row. Best-effort bulk
// semantics: rows whose instrument has no endpoint are dropped without an
// error, duplicates are processed independently, and an empty input yields
// an empty (non-nil) result. Row-level store faults are also dropped, at
// warn level, so one bad row never fails a whole upload.
func (s *Service) Aggregate(ctx context.Context, rows []PortfolioRow) []PortfolioLine {
	lines := make([]PortfolioLine, 0, len(rows))
	for _, row := range rows {
		var ep models.Endpoint
		if err := s.DB.WithContext(ctx).Where("instrumentid = ?", row.InstrumentID).First(&ep).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				log.Warn().Err(err).Str("instrumentid", row.InstrumentID).Msg("portfolio row lookup failed, skipping")
			}
			continue
		}
		name := row.Name
		if name == "" {
			name = "Unknown"
		}
		lines = append(lines, PortfolioLine{
			InstrumentID:               row.InstrumentID,
			Name:                       name,
			Allocation:                 row.Allocation,
			DamageToMarineSpecies:      ep.DamageToMarineSpecies * row.Allocation,
			DamageToFreshwaterSpecies:  ep.DamageToFreshwaterSpecies * row.Allocation,
			DamageToTerrestrialSpecies: ep.DamageToTerrestrialSpecies * row.Allocation,
		})
	}
	return lines
}
