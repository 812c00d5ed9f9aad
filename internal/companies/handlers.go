package companies

import (
	"errors"

	"bioatlas-backend/internal/impact"
	"bioatlas-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles company directory handlers.
type Handlers struct {
	Service *Service
}

// Search GET /api/v1/companies/search?query=&limit=&exact=
func (h *Handlers) Search(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return response.Error(c, ErrEmptyQuery.Error(), 400, nil)
	}
	limit := c.QueryInt("limit", 10)
	exact := c.QueryBool("exact", false)

	results, err := h.Service.Search(c.Context(), query, limit, exact)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Companies fetched successfully", results, nil)
}

// Detail GET /api/v1/companies/:id
func (h *Handlers) Detail(c *fiber.Ctx) error {
	id := c.Params("id")

	detail, err := h.Service.Detail(c.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrCompanyNotFound),
			errors.Is(err, impact.ErrEndpointNotFound),
			errors.Is(err, impact.ErrMidpointNotFound):
			return response.Error(c, err.Error(), 404, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Company fetched successfully", detail, nil)
}

// Rankings GET /api/v1/companies/rankings?n=
func (h *Handlers) Rankings(c *fiber.Ctx) error {
	n := c.QueryInt("n", 5)

	top, worst, err := h.Service.Rankings(c.Context(), n)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Rankings fetched successfully", fiber.Map{
		"top_companies":   top,
		"worst_companies": worst,
	}, nil)
}
