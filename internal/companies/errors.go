package companies

import "errors"

var (
	ErrCompanyNotFound = errors.New("Company not found")
	ErrEmptyQuery      = errors.New("Query parameter is required")
)
