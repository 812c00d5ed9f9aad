package portfolio

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"bioatlas-backend/internal/impact"
	"bioatlas-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUploadTest(t *testing.T) *fiber.App {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Company{}, &models.Midpoint{}, &models.Endpoint{}))
	require.NoError(t, db.Create(&models.Endpoint{
		InstrumentID:               "ABC123",
		DamageToMarineSpecies:      0.2,
		DamageToFreshwaterSpecies:  0.4,
		DamageToTerrestrialSpecies: 0.6,
		PositiveScore:              0.6,
	}).Error)

	h := &Handlers{Impact: &impact.Service{DB: db}, MaxBytes: 1 << 20}
	app := fiber.New()
	app.Post("/api/v1/portfolio/upload", h.Upload)
	return app
}

func multipartCSV(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("portfolio", filename)
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUpload_MissingFile(t *testing.T) {
	app := setupUploadTest(t)

	req := httptest.NewRequest("POST", "/api/v1/portfolio/upload", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpload_UnsupportedType(t *testing.T) {
	app := setupUploadTest(t)

	body, contentType := multipartCSV(t, "portfolio.pdf", "junk")
	req := httptest.NewRequest("POST", "/api/v1/portfolio/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// Known rows come back scaled; unknown instruments are counted as skipped,
// not errors.
func TestUpload_BestEffortAggregation(t *testing.T) {
	app := setupUploadTest(t)

	csvData := strings.Join([]string{
		"instrumentid,allocation,name",
		"ABC123,0.5,Acme Mining",
		"ZZZ999,0.5,Ghost Corp",
	}, "\n")
	body, contentType := multipartCSV(t, "portfolio.csv", csvData)
	req := httptest.NewRequest("POST", "/api/v1/portfolio/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var parsed struct {
		Data     []impact.PortfolioLine `json:"data"`
		Metadata struct {
			Rows    int `json:"rows"`
			Skipped int `json:"skipped"`
		} `json:"metadata"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &parsed))

	require.Len(t, parsed.Data, 1)
	assert.Equal(t, "ABC123", parsed.Data[0].InstrumentID)
	assert.Equal(t, "Acme Mining", parsed.Data[0].Name)
	assert.InDelta(t, 0.1, parsed.Data[0].DamageToMarineSpecies, 1e-9)
	assert.Equal(t, 2, parsed.Metadata.Rows)
	assert.Equal(t, 1, parsed.Metadata.Skipped)
}
