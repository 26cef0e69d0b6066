package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-parser/internal/logger"
	"github.com/jonathan/resume-parser/internal/rendering"
	"github.com/jonathan/resume-parser/internal/types"
)

// uploadForm describes the multipart upload of POST /parse_resume.
type uploadForm struct {
	Filename string `validate:"required,max=255"`
	Size     int64  `validate:"gt=0,lte=20971520"`
}

// formatQuery holds the query parameters of POST /format_resume.
type formatQuery struct {
	Format   string `validate:"omitempty,oneof=txt docx"`
	Filename string `validate:"omitempty,max=128,excludesall=/\\"`
}

// handleParseResume parses an uploaded PDF or DOCX into a resume record.
func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+(1<<20))
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorFrom(w, r, tooLarge)
			return
		}
		s.errorFrom(w, r, &ErrValidation{Field: "file", Message: "a multipart file field named \"file\" is required"})
		return
	}
	defer func() {
		_ = file.Close()
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	form := uploadForm{Filename: filepath.Base(header.Filename), Size: header.Size}
	if err := s.validateStruct(form); err != nil {
		s.errorFrom(w, r, err)
		return
	}

	ctx := logger.WithFields(r.Context(), "endpoint", "parse_resume")
	record, err := s.service.ParseUpload(ctx, form.Filename, file)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}

	s.jsonResponse(w, r, http.StatusOK, record)
}

// handleFormatResume renders a posted record and returns it as a download.
func (s *Server) handleFormatResume(w http.ResponseWriter, r *http.Request) {
	q := formatQuery{
		Format:   strings.ToLower(strings.TrimPrefix(r.URL.Query().Get("format"), ".")),
		Filename: r.URL.Query().Get("filename"),
	}
	if err := s.validateStruct(q); err != nil {
		s.errorFrom(w, r, err)
		return
	}
	format := rendering.ParseFormat(q.Format)

	var record types.ResumeRecord
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRecordBytes))
	if err := dec.Decode(&record); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorFrom(w, r, tooLarge)
			return
		}
		s.errorFrom(w, r, &ErrValidation{Field: "body", Message: "invalid resume record: " + err.Error()})
		return
	}

	// Render fully before writing headers so failures still get a JSON error.
	var buf bytes.Buffer
	if err := s.service.Render(&buf, &record, format); err != nil {
		s.errorFrom(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": downloadName(q.Filename, format),
	}))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("failed to write rendered resume")
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// downloadName returns the attachment name for a render, forcing the
// extension to match the format.
func downloadName(requested string, f rendering.Format) string {
	base := strings.TrimSpace(requested)
	if base == "" {
		base = "output_resume"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "." + string(f)
}

// validateStruct runs validator tags on v and reports the first failure as
// an ErrValidation.
func (s *Server) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ErrValidation{
			Field:   strings.ToLower(fe.Field()),
			Message: fmt.Sprintf("failed '%s' (value %v)", fe.Tag(), fe.Value()),
		}
	}
	return &ErrValidation{Field: "request", Message: err.Error()}
}
