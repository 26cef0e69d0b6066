package rendering

import (
	"errors"
	"io/fs"
	"os"

	"github.com/jonathan/resume-parser/internal/types"
)

// FormatText renders record into the plain-text template at templatePath.
// The template is read fresh on every call.
func FormatText(record *types.ResumeRecord, templatePath string) (string, error) {
	content, err := readTemplate(templatePath)
	if err != nil {
		return "", err
	}
	return SubstituteText(string(content), BuildReplacements(record)), nil
}

func readTemplate(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &TemplateNotFoundError{Path: path}
		}
		return nil, &TemplateError{Message: "failed to read template " + path, Cause: err}
	}
	return content, nil
}
