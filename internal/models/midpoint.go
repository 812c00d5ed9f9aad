package models

// Midpoint holds the ten environmental midpoint indicators for one
// instrument, each in its own unit (not normalized to damage). Immutable
// after loading.
type Midpoint struct {
	InstrumentID             string  `gorm:"column:instrumentid;primaryKey" json:"instrumentid"`
	WaterUse                 float64 `gorm:"column:water_use" json:"water_use"`
	ClimateChange            float64 `gorm:"column:climate_change" json:"climate_change"`
	LandUseTransformation    float64 `gorm:"column:land_use_transformation" json:"land_use_transformation"`
	TerrestrialEcotoxicity   float64 `gorm:"column:terrestrial_ecotoxicity" json:"terrestrial_ecotoxicity"`
	TropicalOzoneFormation   float64 `gorm:"column:tropical_ozone_formation" json:"tropical_ozone_formation"`
	FreshwaterEcotoxicity    float64 `gorm:"column:freshwater_ecotoxicity" json:"freshwater_ecotoxicity"`
	TerrestrialAcidification float64 `gorm:"column:terrestrial_acidification" json:"terrestrial_acidification"`
	MarineEcotoxicity        float64 `gorm:"column:marine_ecotoxicity" json:"marine_ecotoxicity"`
	FreshwaterEutrophication float64 `gorm:"column:freshwater_eutrophication" json:"freshwater_eutrophication"`
	MarineEutrophication     float64 `gorm:"column:marine_eutrophication" json:"marine_eutrophication"`
}

func (Midpoint) TableName() string {
	return "midpoints"
}

// Midpoint display names as served to the presentation layer. The source
// spreadsheet misspells the terrestrial ecotoxicity header ("Terrestial");
// the loader matches that raw header, the API serves the corrected name.
const (
	LabelWaterUse                 = "Water use"
	LabelClimateChange            = "Climate change"
	LabelLandUseTransformation    = "Land Use Transformation"
	LabelTerrestrialEcotoxicity   = "Terrestrial ecotoxicity"
	LabelTropicalOzoneFormation   = "Trop. Ozone Formation (eco)"
	LabelFreshwaterEcotoxicity    = "Freshwater ecotoxicity"
	LabelTerrestrialAcidification = "Terrestrial acidification"
	LabelMarineEcotoxicity        = "Marine ecotoxicity"
	LabelFreshwaterEutrophication = "Freshwater eutrophication"
	LabelMarineEutrophication     = "Marine eutrophication"
)

// Labels returns the midpoint indicators keyed by display name.
func (m Midpoint) Labels() map[string]float64 {
	return map[string]float64{
		LabelWaterUse:                 m.WaterUse,
		LabelClimateChange:            m.ClimateChange,
		LabelLandUseTransformation:    m.LandUseTransformation,
		LabelTerrestrialEcotoxicity:   m.TerrestrialEcotoxicity,
		LabelTropicalOzoneFormation:   m.TropicalOzoneFormation,
		LabelFreshwaterEcotoxicity:    m.FreshwaterEcotoxicity,
		LabelTerrestrialAcidification: m.TerrestrialAcidification,
		LabelMarineEcotoxicity:        m.MarineEcotoxicity,
		LabelFreshwaterEutrophication: m.FreshwaterEutrophication,
		LabelMarineEutrophication:     m.MarineEutrophication,
	}
}
