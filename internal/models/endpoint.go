package models

// Endpoint holds the normalized species-damage indicators for one
// instrument. AvgScore and PositiveScore are derived once by the loader
// (mean of the three damages, and 1 - mean) and never recomputed on read.
type Endpoint struct {
	InstrumentID               string  `gorm:"column:instrumentid;primaryKey" json:"instrumentid"`
	DamageToMarineSpecies      float64 `gorm:"column:damage_to_marine_species" json:"damage_to_marine_species"`
	DamageToFreshwaterSpecies  float64 `gorm:"column:damage_to_freshwater_species" json:"damage_to_freshwater_species"`
	DamageToTerrestrialSpecies float64 `gorm:"column:damage_to_terrestrial_species" json:"damage_to_terrestrial_species"`
	AvgScore                   float64 `gorm:"column:avg_score" json:"avg_score"`
	PositiveScore              float64 `gorm:"column:positive_score" json:"positive_score"`
}

func (Endpoint) TableName() string {
	return "endpoints"
}
