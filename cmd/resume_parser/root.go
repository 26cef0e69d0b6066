package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/logger"
	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/types"
)

// serviceFactory builds the pipeline for a command.
type serviceFactory func(ctx context.Context, cfg *config.Config, onProgress pipeline.ProgressCallback) (*pipeline.Service, func() error, error)

// app holds state shared by every command of one invocation.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	newService serviceFactory

	configPath string
	verbose    bool
	cfg        *config.Config
}

func defaultApp() *app {
	return &app{
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		newService: pipeline.New,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "resume_parser",
		Short: "Extract structured data from resumes and render them from templates",
		Long: `resume_parser reads a PDF or DOCX resume, asks a Gemini model for a structured
record, crops the candidate photo from PDFs and renders the record into a plain
text or DOCX template.

Configuration is read from --config (JSON or YAML), then RESUME_* environment
variables. The API key comes from GEMINI_API_KEY or GOOGLE_API_KEY.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfig,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a JSON or YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Print each pipeline step")

	root.AddCommand(
		newParseCmd(a),
		newFormatCmd(a),
		newServeCmd(a),
		newTemplateCmd(a),
	)
	return root
}

// loadConfig builds the effective configuration and the logger before any
// command runs.
func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = a.verbose
	}

	level := cfg.LogLevel
	if cfg.Verbose && level != "debug" {
		level = "debug"
	}
	logger.Init(logger.Config{
		Level:  level,
		Format: cfg.LogFormat,
		Output: a.stderr,
	})

	a.cfg = cfg
	return nil
}

// progress returns a callback that prints pipeline steps in verbose mode.
func (a *app) progress() pipeline.ProgressCallback {
	if !a.cfg.Verbose {
		return nil
	}
	printer := observability.NewPrinter(a.stdout)
	return func(e pipeline.ProgressEvent) {
		switch c := e.Content.(type) {
		case *ingestion.Metadata:
			printer.PrintDocument(c)
		case *types.ResumeRecord:
			printer.PrintResumeRecord(c)
		case []string:
			printer.PrintFaceImages(c)
		}
	}
}
