package app

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bioatlas-backend/internal/config"
	"bioatlas-backend/internal/database"
	"bioatlas-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End-to-end over a seeded sqlite store, default provider, no Redis.
func setupApp(t *testing.T) *fiber.App {
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := database.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, db.Create(&models.Company{
		InstrumentID: "ABC123", Name: "Acme Mining", Description: "Stored description.",
	}).Error)
	require.NoError(t, db.Create(&models.Endpoint{
		InstrumentID:               "ABC123",
		DamageToMarineSpecies:      0.2,
		DamageToFreshwaterSpecies:  0.4,
		DamageToTerrestrialSpecies: 0.6,
		AvgScore:                   0.4,
		PositiveScore:              0.6,
	}).Error)
	require.NoError(t, db.Create(&models.Midpoint{InstrumentID: "ABC123", WaterUse: 1.5}).Error)

	cfg := &config.Config{
		Env:                "test",
		Port:               "0",
		DatabaseURL:        dsn,
		DescriptionTimeout: time.Second,
		UploadMaxBytes:     1 << 20,
	}
	fiberApp, _, _, err := CreateApp(cfg)
	require.NoError(t, err)
	return fiberApp
}

func TestApp_HealthJSON(t *testing.T) {
	app := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestApp_CompanyRoutes(t *testing.T) {
	app := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/companies/search?query=acme", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/companies/ABC123", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var detail struct {
		Data struct {
			CompanyName string  `json:"company_name"`
			Score       float64 `json:"score"`
		} `json:"data"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &detail))
	assert.Equal(t, "Acme Mining", detail.Data.CompanyName)
	assert.InDelta(t, 60.0, detail.Data.Score, 1e-9)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/companies/ZZZ999", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/companies/rankings", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestApp_PortfolioUpload(t *testing.T) {
	app := setupApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("portfolio", "portfolio.csv")
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader("instrumentid,allocation,name\nABC123,0.5,Acme Mining\nZZZ999,0.5,Ghost\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/v1/portfolio/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data []struct {
			InstrumentID string `json:"instrumentid"`
		} `json:"data"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "ABC123", body.Data[0].InstrumentID)
}
