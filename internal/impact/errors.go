package impact

import "errors"

var (
	ErrEndpointNotFound = errors.New("Endpoints for asset not found")
	ErrMidpointNotFound = errors.New("Midpoints for asset not found")
)
