package companies

import (
	"context"
	"testing"

	"bioatlas-backend/internal/descriptions"
	"bioatlas-backend/internal/impact"
	"bioatlas-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type staticProvider struct{ text string }

func (p staticProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return p.text, nil
}

func setupCompaniesTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Company{}, &models.Midpoint{}, &models.Endpoint{}))
	svc := &Service{
		DB:           db,
		Impact:       &impact.Service{DB: db},
		Descriptions: &descriptions.Service{DB: db, Provider: staticProvider{text: "Generated text."}},
	}
	return svc, db
}

func seedCompany(t *testing.T, db *gorm.DB, id, name, description string) {
	require.NoError(t, db.Create(&models.Company{InstrumentID: id, Name: name, Description: description}).Error)
}

func seedScores(t *testing.T, db *gorm.DB, id string, damage float64) {
	require.NoError(t, db.Create(&models.Endpoint{
		InstrumentID:               id,
		DamageToMarineSpecies:      damage,
		DamageToFreshwaterSpecies:  damage,
		DamageToTerrestrialSpecies: damage,
		AvgScore:                   damage,
		PositiveScore:              1 - damage,
	}).Error)
	require.NoError(t, db.Create(&models.Midpoint{InstrumentID: id, WaterUse: 1}).Error)
}

func TestSearch_PartialMatchesNameOrID(t *testing.T) {
	svc, db := setupCompaniesTest(t)
	seedCompany(t, db, "ABC123", "Acme Mining", "")
	seedCompany(t, db, "XYZ555", "Fabcor Industries", "")
	seedCompany(t, db, "QQQ777", "Quiet Waters", "")

	// "abc" hits ABC123 by id and Fabcor by name, case-insensitively.
	results, err := svc.Search(context.Background(), "aBc", 10, false)
	require.NoError(t, err)
	require.Len(t, results, 2)

	results, err = svc.Search(context.Background(), "waters", 10, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "QQQ777", results[0].InstrumentID)
}

func TestSearch_ExactMatch(t *testing.T) {
	svc, db := setupCompaniesTest(t)
	seedCompany(t, db, "ABC123", "Acme Mining", "")
	seedCompany(t, db, "ABC1234", "Acme Mining Two", "")

	results, err := svc.Search(context.Background(), "ABC123", 10, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ABC123", results[0].InstrumentID)

	results, err = svc.Search(context.Background(), "acme mining", 10, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Acme Mining", results[0].Name)
}

func TestSearch_LimitCapsResults(t *testing.T) {
	svc, db := setupCompaniesTest(t)
	seedCompany(t, db, "AAA001", "Alpha", "")
	seedCompany(t, db, "AAA002", "Beta", "")
	seedCompany(t, db, "AAA003", "Gamma", "")

	results, err := svc.Search(context.Background(), "aaa", 2, false)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestDetail_AssemblesImpactMidpointsDescription(t *testing.T) {
	svc, db := setupCompaniesTest(t)
	seedCompany(t, db, "ABC123", "Acme Mining", "Stored description.")
	seedScores(t, db, "ABC123", 0.4)

	detail, err := svc.Detail(context.Background(), "ABC123")
	require.NoError(t, err)

	assert.Equal(t, "ABC123", detail.CompanyID)
	assert.Equal(t, "Acme Mining", detail.CompanyName)
	assert.Equal(t, "Stored description.", detail.Description)
	// Detail view is a 100%-weighted portfolio of one.
	assert.InDelta(t, 40.0, detail.Impact.DamageToMarineSpecies, 1e-9)
	assert.InDelta(t, 0.6, detail.Impact.PositiveScore, 1e-9)
	assert.InDelta(t, 60.0, detail.Score, 1e-9)
	assert.Len(t, detail.Midpoints, 10)
	assert.NotEmpty(t, detail.ScoreColor)
}

func TestDetail_GeneratesBlankDescription(t *testing.T) {
	svc, db := setupCompaniesTest(t)
	seedCompany(t, db, "ABC123", "Acme Mining", "")
	seedScores(t, db, "ABC123", 0.4)

	detail, err := svc.Detail(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "Generated text.", detail.Description)

	var stored models.Company
	require.NoError(t, db.First(&stored, "instrumentid = ?", "ABC123").Error)
	assert.Equal(t, "Generated text.", stored.Description)
}

func TestDetail_UnknownCompany(t *testing.T) {
	svc, _ := setupCompaniesTest(t)
	_, err := svc.Detail(context.Background(), "ZZZ999")
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

// A company with metadata but no scored data cannot produce a detail view.
func TestDetail_MissingScoresIsNotFound(t *testing.T) {
	svc, db := setupCompaniesTest(t)
	seedCompany(t, db, "ABC123", "Acme Mining", "Stored.")

	_, err := svc.Detail(context.Background(), "ABC123")
	assert.ErrorIs(t, err, impact.ErrEndpointNotFound)

	// Endpoint present but midpoints absent is equally not found.
	require.NoError(t, db.Create(&models.Endpoint{InstrumentID: "ABC123", PositiveScore: 0.5}).Error)
	_, err = svc.Detail(context.Background(), "ABC123")
	assert.ErrorIs(t, err, impact.ErrMidpointNotFound)
}

func TestRankings(t *testing.T) {
	svc, db := setupCompaniesTest(t)
	for _, c := range []struct {
		id    string
		score float64
	}{
		{"AAA001", 0.9}, {"AAA002", 0.5}, {"AAA003", 0.1},
	} {
		seedCompany(t, db, c.id, "Company "+c.id, "")
		require.NoError(t, db.Create(&models.Endpoint{InstrumentID: c.id, PositiveScore: c.score}).Error)
	}
	// Orphan endpoint without a company row must not appear.
	require.NoError(t, db.Create(&models.Endpoint{InstrumentID: "ORPHAN", PositiveScore: 0.99}).Error)

	top, worst, err := svc.Rankings(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Len(t, worst, 2)
	assert.Equal(t, "AAA001", top[0].InstrumentID)
	assert.InDelta(t, 90.0, top[0].Score, 1e-9)
	assert.Equal(t, "AAA003", worst[0].InstrumentID)
	assert.InDelta(t, 10.0, worst[0].Score, 1e-9)
}

func TestScoreColor(t *testing.T) {
	assert.Equal(t, "rgb(255,0,0)", ScoreColor(0))
	assert.Equal(t, "rgb(255,255,0)", ScoreColor(50))
	assert.Equal(t, "rgb(0,255,0)", ScoreColor(100))
	// Low scores stay in the red band, high scores in the green band.
	assert.Equal(t, "rgb(255,127,0)", ScoreColor(25))
	assert.Equal(t, "rgb(127,255,0)", ScoreColor(75))
}
