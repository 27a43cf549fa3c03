package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrMissingArgument   = fmt.Errorf("missing required argument")
	ErrUnsupportedFormat = fmt.Errorf("unsupported file format")
	ErrNothingToExport   = fmt.Errorf("no processed records to export")
)
