package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/rendering"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", &ErrValidation{Field: "file", Message: "required"}, http.StatusBadRequest},
		{"unsupported format", &ingestion.UnsupportedFormatError{Ext: ".txt"}, http.StatusBadRequest},
		{"extraction", &ingestion.ExtractionError{Path: "a.pdf", Message: "failed to open PDF"}, http.StatusUnprocessableEntity},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"api call", &parsing.APICallError{Message: "503"}, http.StatusBadGateway},
		{"timeout", &parsing.TimeoutError{Cause: &parsing.APICallError{Message: "deadline"}}, http.StatusGatewayTimeout},
		{"parse", &parsing.ParseError{Message: "invalid JSON"}, http.StatusBadGateway},
		{"template not found", &rendering.TemplateNotFoundError{Path: "t.docx"}, http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("parse upload: %w", &ingestion.UnsupportedFormatError{Ext: ".png"}), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
