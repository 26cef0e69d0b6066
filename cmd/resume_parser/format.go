package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/rendering"
	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/types"
)

type formatOptions struct {
	output string
	logo   string
}

func newFormatCmd(a *app) *cobra.Command {
	opts := &formatOptions{}
	cmd := &cobra.Command{
		Use:   "format RECORD.json",
		Short: "Render an existing resume record",
		Long: `Renders a resume record previously written by "parse --record" (or by the
/parse_resume endpoint) without calling the model.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runFormat(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "output_resume.txt", "Output file; the extension selects TXT or DOCX")
	cmd.Flags().StringVar(&opts.logo, "logo", "", "Logo image for DOCX headers and footers (overrides config)")
	return cmd
}

func (a *app) runFormat(path string, opts *formatOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}

	var record types.ResumeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("failed to decode record %s: %w", path, err)
	}
	if err := validateRecord(&record); err != nil {
		return fmt.Errorf("invalid record %s: %w", path, err)
	}

	// Rendering needs no model client.
	svc := pipeline.NewService(nil, nil, pipeline.Options{
		Render:     pipeline.RenderOptions(a.cfg),
		OnProgress: a.progress(),
	})
	if err := svc.RenderFile(&record, opts.output, opts.logo); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(a.stdout, "%s output written to: %s\n", formatLabel(rendering.FormatFromPath(opts.output)), opts.output)
	return nil
}

// validateRecord checks the field types of a decoded record against the resume
// schema. Alias keys are already folded into canonical ones, and required keys
// that were missing encode as null, so only shape errors remain.
func validateRecord(record *types.ResumeRecord) error {
	if record.FaceImages == nil {
		record.FaceImages = []string{}
	}
	canonical, err := json.Marshal(record)
	if err != nil {
		return err
	}

	err = schemas.ValidateResumeJSON(canonical)
	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		return errors.New(validationErr.Summary())
	}
	return err
}
