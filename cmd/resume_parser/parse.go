package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/rendering"
	"github.com/jonathan/resume-parser/internal/types"
)

type parseOptions struct {
	output string
	logo   string
	record string
}

func newParseCmd(a *app) *cobra.Command {
	opts := &parseOptions{}
	cmd := &cobra.Command{
		Use:   "parse INPUT",
		Short: "Parse a PDF or DOCX resume and render it",
		Long: `Extracts the text of INPUT, asks the model for a structured resume record and
renders it to --output. A .docx output uses the DOCX template, anything else the
plain-text template. For PDFs the candidate photo is cropped into the face
output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "output_resume.txt", "Output file; the extension selects TXT or DOCX")
	cmd.Flags().StringVar(&opts.logo, "logo", "", "Logo image for DOCX headers and footers (overrides config)")
	cmd.Flags().StringVar(&opts.record, "record", "", "Also write the extracted record as JSON to this path (\"-\" for stdout)")
	return cmd
}

func (a *app) runParse(cmd *cobra.Command, input string, opts *parseOptions) error {
	if _, err := os.Stat(input); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("input file not found: %s", input)
		}
		return fmt.Errorf("failed to read input: %w", err)
	}

	ctx := cmd.Context()
	svc, closeFn, err := a.newService(ctx, a.cfg, a.progress())
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}
	defer func() { _ = closeFn() }()

	record, err := svc.ParseResume(ctx, input)
	if err != nil {
		return err
	}

	if opts.record != "" {
		if err := a.writeRecord(opts.record, record); err != nil {
			return err
		}
	}

	if err := svc.RenderFile(record, opts.output, opts.logo); err != nil {
		return err
	}

	format := rendering.FormatFromPath(opts.output)
	if a.cfg.Verbose {
		observability.NewPrinter(a.stdout).PrintRendered(opts.output, format)
	} else {
		_, _ = fmt.Fprintf(a.stdout, "%s output written to: %s\n", formatLabel(format), opts.output)
	}
	return nil
}

// writeRecord writes record as indented JSON to path, or stdout for "-".
func (a *app) writeRecord(path string, record *types.ResumeRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err := a.stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create record directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func formatLabel(f rendering.Format) string {
	if f == rendering.DOCX {
		return "DOCX"
	}
	return "TXT"
}
