package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"bioatlas-backend/internal/database"
	"bioatlas-backend/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Source names the reference files: companies and midpoints as CSV, the
// species-damage pathways as a three-sheet workbook (marine, freshwater,
// terrestrial) with one "Relative Score" column per sheet.
type Source struct {
	CompaniesCSV string
	MidpointsCSV string
	PathwaysXLSX string
}

const relativeScoreColumn = "Relative Score"

var pathwaySheets = []string{"marine", "freshwater", "terrestrial"}

// midpointColumns maps the raw spreadsheet headers onto midpoint columns.
// Headers are matched as shipped in the source files, including the
// "Terrestial" misspelling, which the API-facing display labels correct.
var midpointColumns = map[string]string{
	"Water use":                   "water_use",
	"Climate change":              "climate_change",
	"Land Use Transformation":     "land_use_transformation",
	"Terrestial ecotoxicity":      "terrestrial_ecotoxicity",
	"Trop. Ozone Formation (eco)": "tropical_ozone_formation",
	"Freshwater ecotoxicity":      "freshwater_ecotoxicity",
	"Terrestrial acidification":   "terrestrial_acidification",
	"Marine ecotoxicity":          "marine_ecotoxicity",
	"Freshwater eutrophication":   "freshwater_eutrophication",
	"Marine eutrophication":       "marine_eutrophication",
}

// Run replaces the three reference tables in db from src. Each table is
// loaded independently; a failure in one aborts before touching the next.
func Run(db *gorm.DB, src Source) error {
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := loadCompanies(db, src.CompaniesCSV); err != nil {
		return fmt.Errorf("companies: %w", err)
	}
	if err := loadMidpoints(db, src.MidpointsCSV); err != nil {
		return fmt.Errorf("midpoints: %w", err)
	}
	if err := loadEndpoints(db, src.PathwaysXLSX); err != nil {
		return fmt.Errorf("endpoints: %w", err)
	}
	return nil
}

func loadCompanies(db *gorm.DB, path string) error {
	records, err := readCSV(path)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%s: empty file", path)
	}

	cols := headerIndex(records[0])
	idCol, ok := cols["instrumentid"]
	if !ok {
		return fmt.Errorf("%s: missing instrumentid column", path)
	}
	nameCol, ok := cols["name"]
	if !ok {
		return fmt.Errorf("%s: missing name column", path)
	}
	descCol, hasDesc := cols["description"]

	companies := make([]models.Company, 0, len(records)-1)
	for _, rec := range records[1:] {
		company := models.Company{
			InstrumentID: field(rec, idCol),
			Name:         field(rec, nameCol),
		}
		if hasDesc {
			company.Description = field(rec, descCol)
		}
		if company.InstrumentID == "" {
			continue
		}
		companies = append(companies, company)
	}
	if err := replaceTable(db, &models.Company{}, companies); err != nil {
		return err
	}
	log.Info().Int("rows", len(companies)).Msg("companies table loaded")
	return nil
}

func loadMidpoints(db *gorm.DB, path string) error {
	records, err := readCSV(path)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%s: empty file", path)
	}

	// Header uses display names; translate to column positions.
	position := map[string]int{}
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if strings.EqualFold(h, "instrumentid") {
			position["instrumentid"] = i
			continue
		}
		if col, ok := midpointColumns[h]; ok {
			position[col] = i
		}
	}
	idCol, ok := position["instrumentid"]
	if !ok {
		return fmt.Errorf("%s: missing instrumentid column", path)
	}

	midpoints := make([]models.Midpoint, 0, len(records)-1)
	for _, rec := range records[1:] {
		id := field(rec, idCol)
		if id == "" {
			continue
		}
		num := func(col string) float64 {
			i, ok := position[col]
			if !ok {
				return 0
			}
			v, err := strconv.ParseFloat(field(rec, i), 64)
			if err != nil {
				return 0
			}
			return v
		}
		midpoints = append(midpoints, models.Midpoint{
			InstrumentID:             id,
			WaterUse:                 num("water_use"),
			ClimateChange:            num("climate_change"),
			LandUseTransformation:    num("land_use_transformation"),
			TerrestrialEcotoxicity:   num("terrestrial_ecotoxicity"),
			TropicalOzoneFormation:   num("tropical_ozone_formation"),
			FreshwaterEcotoxicity:    num("freshwater_ecotoxicity"),
			TerrestrialAcidification: num("terrestrial_acidification"),
			MarineEcotoxicity:        num("marine_ecotoxicity"),
			FreshwaterEutrophication: num("freshwater_eutrophication"),
			MarineEutrophication:     num("marine_eutrophication"),
		})
	}
	if err := replaceTable(db, &models.Midpoint{}, midpoints); err != nil {
		return err
	}
	log.Info().Int("rows", len(midpoints)).Msg("midpoints table loaded")
	return nil
}

// loadEndpoints merges the three pathway sheets into one table and derives
// avg_score (mean of the three damages) and positive_score (1 - avg_score).
// Instruments missing from any sheet are dropped with a warning; the store
// never carries partially scored endpoints.
func loadEndpoints(db *gorm.DB, path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scores := make(map[string]map[string]float64, len(pathwaySheets))
	var order []string
	for _, sheet := range pathwaySheets {
		sheetScores, ids, err := readPathwaySheet(f, sheet)
		if err != nil {
			return err
		}
		scores[sheet] = sheetScores
		if sheet == pathwaySheets[0] {
			order = ids
		}
	}

	endpoints := make([]models.Endpoint, 0, len(order))
	for _, id := range order {
		marine, okM := scores["marine"][id]
		fresh, okF := scores["freshwater"][id]
		terr, okT := scores["terrestrial"][id]
		if !okM || !okF || !okT {
			log.Warn().Str("instrumentid", id).Msg("instrument missing from a pathway sheet, dropped")
			continue
		}
		avg := (marine + fresh + terr) / 3
		endpoints = append(endpoints, models.Endpoint{
			InstrumentID:               id,
			DamageToMarineSpecies:      marine,
			DamageToFreshwaterSpecies:  fresh,
			DamageToTerrestrialSpecies: terr,
			AvgScore:                   avg,
			PositiveScore:              1 - avg,
		})
	}
	if err := replaceTable(db, &models.Endpoint{}, endpoints); err != nil {
		return err
	}
	log.Info().Int("rows", len(endpoints)).Msg("endpoints table loaded")
	return nil
}

// readPathwaySheet reads one sheet: first column is the instrument id, the
// "Relative Score" column holds the damage value.
func readPathwaySheet(f *excelize.File, sheet string) (map[string]float64, []string, error) {
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("sheet %s: empty", sheet)
	}
	scoreCol := -1
	for i, h := range records[0] {
		if strings.TrimSpace(h) == relativeScoreColumn {
			scoreCol = i
		}
	}
	if scoreCol < 0 {
		return nil, nil, fmt.Errorf("sheet %s: missing %q column", sheet, relativeScoreColumn)
	}

	scores := make(map[string]float64, len(records)-1)
	ids := make([]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		id := field(rec, 0)
		if id == "" {
			continue
		}
		v, err := strconv.ParseFloat(field(rec, scoreCol), 64)
		if err != nil {
			log.Warn().Str("sheet", sheet).Str("instrumentid", id).Msg("unparseable score, dropped")
			continue
		}
		scores[id] = v
		ids = append(ids, id)
	}
	return scores, ids, nil
}

// replaceTable clears the table and bulk-inserts rows (pandas to_sql
// if_exists="replace" semantics, minus the schema drop).
func replaceTable[T any](db *gorm.DB, model *T, rows []T) error {
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return db.CreateInBatches(rows, 500).Error
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
