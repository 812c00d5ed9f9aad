package portfolio

import (
	"errors"

	"bioatlas-backend/internal/impact"
	"bioatlas-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles the portfolio upload handler.
type Handlers struct {
	Impact   *impact.Service
	MaxBytes int64
}

// Upload POST /api/v1/portfolio/upload
// Multipart field "portfolio" holds an .xlsx or .csv file with
// instrumentid/allocation(/name) columns. Unknown instruments and
// malformed rows are dropped, not surfaced; the skipped count is returned
// in metadata.
func (h *Handlers) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("portfolio")
	if err != nil {
		return response.Error(c, "portfolio file is required", 400, nil)
	}
	if h.MaxBytes > 0 && fh.Size > h.MaxBytes {
		return response.Error(c, "Portfolio file too large", fiber.StatusRequestEntityTooLarge, nil)
	}

	file, err := fh.Open()
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	defer file.Close()

	rows, skipped, err := Parse(fh.Filename, file)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFile) || errors.Is(err, ErrMissingColumns) {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Could not read portfolio file", 400, nil)
	}

	lines := h.Impact.Aggregate(c.Context(), rows)
	skipped += len(rows) - len(lines)

	return response.Success(c, "Portfolio processed successfully", lines, fiber.Map{
		"rows":    len(rows),
		"skipped": skipped,
	})
}
