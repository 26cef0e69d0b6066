package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/rendering"
)

func newTemplateCmd(a *app) *cobra.Command {
	var (
		output string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a starter DOCX template",
		Long: `Writes a DOCX template holding every placeholder, ready to be restyled in a
word processor. Defaults to the configured DOCX template path.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if output == "" {
				output = a.cfg.DocxTemplate
			}
			if _, err := os.Stat(output); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", output)
			}

			var buf bytes.Buffer
			if err := rendering.WriteDefaultDOCXTemplate(&buf); err != nil {
				return err
			}
			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create template directory: %w", err)
				}
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write template: %w", err)
			}

			_, _ = fmt.Fprintf(a.stdout, "Template written to: %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Template path (defaults to the configured DOCX template)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
