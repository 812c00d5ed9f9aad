package descriptions

import (
	"context"
	"strings"
	"time"

	"bioatlas-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service fills blank company descriptions cache-aside: a stored
// description is returned as-is; a blank one is generated, persisted, then
// returned. Generation failures produce a fallback string that is NEVER
// persisted, so the next read retries the external call instead of serving
// a stored error message.
type Service struct {
	DB       *gorm.DB
	Provider Provider
	Timeout  time.Duration // bound on the external round-trip; 0 means no bound
}

// Ensure returns the company's description, generating and persisting one
// when the stored value is blank or whitespace-only. Concurrent fills for
// the same company are not mutually excluded; last write wins.
func (s *Service) Ensure(ctx context.Context, company *models.Company) string {
	if stored := strings.TrimSpace(company.Description); stored != "" {
		return company.Description
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	text, err := s.Provider.Generate(ctx, systemPrompt, userPrompt(company.Name))
	if err != nil {
		log.Warn().Err(err).Str("instrumentid", company.InstrumentID).Msg("description generation failed")
		return "An error occurred: " + err.Error()
	}

	if err := s.DB.WithContext(ctx).Model(&models.Company{}).
		Where("instrumentid = ?", company.InstrumentID).
		Update("description", text).Error; err != nil {
		// The generated text is still good for this response; only the
		// cache write failed.
		log.Warn().Err(err).Str("instrumentid", company.InstrumentID).Msg("description persist failed")
	} else {
		company.Description = text
	}
	return text
}
