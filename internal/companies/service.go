package companies

import (
	"context"
	"fmt"
	"strings"

	"bioatlas-backend/internal/descriptions"
	"bioatlas-backend/internal/impact"
	"bioatlas-backend/internal/models"

	"gorm.io/gorm"
)

// detailAllocation is the fixed weight for the single-company view: the
// detail page is a 100%-weighted portfolio of one, expressed in the
// percentage convention.
const detailAllocation = 100

// Summary is one search result.
type Summary struct {
	InstrumentID string `json:"instrumentid"`
	Name         string `json:"name"`
	Description  string `json:"description"`
}

// Detail is the assembled single-company view.
type Detail struct {
	CompanyID   string             `json:"company_id"`
	CompanyName string             `json:"company_name"`
	Description string             `json:"description"`
	Impact      impact.Impact      `json:"impact"`
	Midpoints   map[string]float64 `json:"midpoints"`
	Score       float64            `json:"score"`       // positive_score scaled to 0-100
	ScoreColor  string             `json:"score_color"` // gauge color for Score
}

// Ranked is one entry of the best/worst leaderboards.
type Ranked struct {
	InstrumentID string  `json:"instrumentid"`
	Name         string  `json:"name"`
	Score        float64 `json:"score"` // positive_score scaled to 0-100
}

// Service is the company directory: search, detail assembly, leaderboards.
type Service struct {
	DB           *gorm.DB
	Impact       *impact.Service
	Descriptions *descriptions.Service
}

// Search matches companies by name or instrumentid, case-insensitively.
// Partial mode matches a substring anywhere in either field; exact mode
// compares the whole lowered string. Results are capped at limit (default
// 10) in storage order; no ranking is applied.
func (s *Service) Search(ctx context.Context, query string, limit int, exact bool) ([]Summary, error) {
	if limit <= 0 {
		limit = 10
	}
	q := strings.ToLower(query)

	tx := s.DB.WithContext(ctx).Model(&models.Company{}).Limit(limit)
	if exact {
		tx = tx.Where("lower(name) = ? OR lower(instrumentid) = ?", q, q)
	} else {
		pattern := "%" + q + "%"
		tx = tx.Where("lower(name) LIKE ? OR lower(instrumentid) LIKE ?", pattern, pattern)
	}

	var matches []models.Company
	if err := tx.Find(&matches).Error; err != nil {
		return nil, err
	}

	results := make([]Summary, 0, len(matches))
	for _, m := range matches {
		results = append(results, Summary{
			InstrumentID: m.InstrumentID,
			Name:         m.Name,
			Description:  m.Description,
		})
	}
	return results, nil
}

// Detail assembles the single-company view: metadata, description
// (generated on first read), impact at 100% allocation, and midpoints. A
// company with metadata but no scored data is not found; no partial detail
// is returned.
func (s *Service) Detail(ctx context.Context, instrumentID string) (Detail, error) {
	var company models.Company
	if err := s.DB.WithContext(ctx).Where("instrumentid = ?", instrumentID).First(&company).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return Detail{}, ErrCompanyNotFound
		}
		return Detail{}, err
	}

	imp, err := s.Impact.AssetImpact(ctx, instrumentID, detailAllocation)
	if err != nil {
		return Detail{}, err
	}
	midpoints, err := s.Impact.AssetMidpoints(ctx, instrumentID)
	if err != nil {
		return Detail{}, err
	}

	description := s.Descriptions.Ensure(ctx, &company)
	score := imp.PositiveScore * 100

	return Detail{
		CompanyID:   company.InstrumentID,
		CompanyName: company.Name,
		Description: description,
		Impact:      imp,
		Midpoints:   midpoints,
		Score:       score,
		ScoreColor:  ScoreColor(score),
	}, nil
}

// Rankings returns the n best and n worst companies by positive score,
// scored 0-100. Companies without an endpoint row do not appear.
func (s *Service) Rankings(ctx context.Context, n int) (top, worst []Ranked, err error) {
	if n <= 0 {
		n = 5
	}
	top, err = s.ranked(ctx, n, "DESC")
	if err != nil {
		return nil, nil, err
	}
	worst, err = s.ranked(ctx, n, "ASC")
	if err != nil {
		return nil, nil, err
	}
	return top, worst, nil
}

func (s *Service) ranked(ctx context.Context, n int, order string) ([]Ranked, error) {
	type row struct {
		InstrumentID  string  `gorm:"column:instrumentid"`
		PositiveScore float64 `gorm:"column:positive_score"`
		Name          string  `gorm:"column:name"`
	}
	var rows []row
	err := s.DB.WithContext(ctx).Model(&models.Endpoint{}).
		Select("endpoints.instrumentid, endpoints.positive_score, companies.name").
		Joins("JOIN companies ON endpoints.instrumentid = companies.instrumentid").
		Order("endpoints.positive_score " + order).
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	ranked := make([]Ranked, 0, len(rows))
	for _, r := range rows {
		ranked = append(ranked, Ranked{
			InstrumentID: r.InstrumentID,
			Name:         r.Name,
			Score:        r.PositiveScore * 100,
		})
	}
	return ranked, nil
}

// ScoreColor maps a 0-100 score onto a red-orange-green gauge gradient.
func ScoreColor(score float64) string {
	var r, g int
	if score <= 50 {
		r = 255
		g = int(255 * (score / 50))
	} else {
		r = int(255 * ((100 - score) / 50))
		g = 255
	}
	return fmt.Sprintf("rgb(%d,%d,0)", r, g)
}
