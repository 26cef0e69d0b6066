package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/parsing"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error. Wrapped
// errors are matched through their chain.
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		unsupported *ingestion.UnsupportedFormatError
		extraction  *ingestion.ExtractionError
		tooLarge    *http.MaxBytesError
		timeout     *parsing.TimeoutError
		apiCall     *parsing.APICallError
		parse       *parsing.ParseError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.As(err, &unsupported):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &extraction):
		return http.StatusUnprocessableEntity
	// A timeout may wrap the API error of the attempt it cut short.
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiCall), errors.As(err, &parse):
		return http.StatusBadGateway
	default:
		// Includes *rendering.TemplateNotFoundError: a missing template is a
		// deployment problem, not a client one.
		return http.StatusInternalServerError
	}
}
