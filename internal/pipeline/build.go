package pipeline

import (
	"context"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/faces"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/logger"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/rendering"
)

// New wires a Service from cfg. The returned close function releases the
// model client.
func New(ctx context.Context, cfg *config.Config, onProgress ProgressCallback) (*Service, func() error, error) {
	llmConfig := llm.DefaultConfig()
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(llm.TierStandard, cfg.Model)
	}

	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return nil, nil, err
	}

	parser := parsing.NewParser(client, parsing.Options{
		Tier:            llm.TierStandard,
		RequestTimeout:  cfg.RequestTimeout.Std(),
		MaxAttempts:     cfg.MaxAttempts,
		InitialInterval: cfg.RetryInitialInterval.Std(),
	})

	svc := NewService(parser, NewFaceExtractor(ctx, cfg), Options{
		UploadDir:  cfg.UploadDir,
		Render:     RenderOptions(cfg),
		OnProgress: onProgress,
	})
	return svc, client.Close, nil
}

// RenderOptions returns the template and logo settings of cfg.
func RenderOptions(cfg *config.Config) rendering.RenderOptions {
	return rendering.RenderOptions{
		TextTemplate: cfg.TextTemplate,
		DocxTemplate: cfg.DocxTemplate,
		Logo:         cfg.Logo,
	}
}

// NewFaceExtractor builds the face extractor described by cfg. When the
// cascade cannot be loaded, the extractor returns the placeholder image.
func NewFaceExtractor(ctx context.Context, cfg *config.Config) *faces.Extractor {
	var detector faces.Detector
	d, err := faces.NewPigoDetector(cfg.FaceCascade, faces.DefaultDetectorParams())
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("face detection disabled")
	} else {
		detector = d
	}

	return faces.NewExtractor(faces.NewFitzRasterizer(cfg.FaceDPI), detector, faces.Options{
		OutputDir: cfg.FaceOutputDir,
		Padding:   cfg.FacePadding,
	})
}
