package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Serves POST /parse_resume (multipart "file"), POST /format_resume,
GET /images/ for cropped faces and GET /health.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, closeFn, err := a.newService(ctx, a.cfg, nil)
			if err != nil {
				return fmt.Errorf("failed to initialize pipeline: %w", err)
			}
			defer func() { _ = closeFn() }()

			return server.New(a.cfg, svc, server.Options{}).Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8000, "Port to listen on (overrides config)")
	return cmd
}
