// Package parsing turns extracted resume text into a validated ResumeRecord
// using the remote model.
package parsing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/logger"
	"github.com/jonathan/resume-parser/internal/prompts"
	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/types"
)

const (
	promptFile        = "extraction.json"
	promptExtract     = "extract-resume"
	promptReminder    = "strict-json-reminder"
	maxLoggedResponse = 512
)

// Options controls the remote call policy.
type Options struct {
	Tier llm.ModelTier
	// RequestTimeout bounds each attempt. Zero disables the per-attempt bound.
	RequestTimeout time.Duration
	// MaxAttempts is the total number of calls, including the first.
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultOptions returns the production retry policy: three attempts, one
// minute per attempt, exponential backoff starting at one second.
func DefaultOptions() Options {
	return Options{
		Tier:            llm.TierStandard,
		RequestTimeout:  60 * time.Second,
		MaxAttempts:     3,
		InitialInterval: time.Second,
		MaxInterval:     10 * time.Second,
	}
}

// Parser extracts resume records with an llm.Client.
type Parser struct {
	client llm.Client
	opts   Options
	schema string
}

// NewParser creates a parser. Zero option fields take their defaults.
func NewParser(client llm.Client, opts Options) *Parser {
	def := DefaultOptions()
	if opts.Tier == "" {
		opts.Tier = def.Tier
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = def.InitialInterval
	}
	if opts.MaxInterval < opts.InitialInterval {
		opts.MaxInterval = max(def.MaxInterval, opts.InitialInterval)
	}
	return &Parser{
		client: client,
		opts:   opts,
		schema: llm.BuildSchemaBlock(llm.ResumeSchema()),
	}
}

// BuildPrompt returns the extraction prompt for resume text.
func (p *Parser) BuildPrompt(resumeText string) (string, error) {
	return prompts.Render(promptFile, promptExtract, map[string]string{
		"Schema":     p.schema,
		"ResumeText": resumeText,
	})
}

// ParseResume sends the resume text to the model and returns the decoded
// record. Code fences and surrounding prose are stripped before parsing;
// anything else that is not schema-valid JSON is a *ParseError. Failed calls
// and malformed responses are retried up to MaxAttempts, with a stricter
// reminder appended after a malformed response. A per-attempt timeout is
// reported as *TimeoutError without retrying.
func (p *Parser) ParseResume(ctx context.Context, resumeText string) (*types.ResumeRecord, error) {
	basePrompt, err := p.BuildPrompt(resumeText)
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction prompt: %w", err)
	}

	log := logger.Ctx(ctx)
	prompt := basePrompt
	attempt := 0
	var record *types.ResumeRecord
	var lastErr error

	operation := func() error {
		attempt++
		rec, err := p.attempt(ctx, prompt)
		if err == nil {
			record = rec
			return nil
		}
		lastErr = err

		var parseErr *ParseError
		var timeoutErr *TimeoutError
		switch {
		case errors.As(err, &timeoutErr), ctx.Err() != nil:
			return backoff.Permanent(err)
		case errors.As(err, &parseErr):
			prompt = basePrompt + "\n\n" + prompts.Format(
				prompts.MustGet(promptFile, promptReminder),
				map[string]string{"Problem": parseErr.Message},
			)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", p.opts.MaxAttempts).
			Dur("retry_in", wait).
			Msg("resume extraction attempt failed")
	}

	if err := backoff.RetryNotify(operation, p.backoff(ctx), notify); err != nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, &APICallError{Message: "extraction aborted", Cause: err}
	}

	log.Debug().Int("attempts", attempt).Str("model", p.client.GetModel(p.opts.Tier)).Msg("resume extracted")
	return record, nil
}

func (p *Parser) backoff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.opts.InitialInterval
	exp.MaxInterval = p.opts.MaxInterval
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(p.opts.MaxAttempts-1)), ctx)
}

// attempt performs one model call and validates its response.
func (p *Parser) attempt(ctx context.Context, prompt string) (*types.ResumeRecord, error) {
	callCtx := ctx
	if p.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.opts.RequestTimeout)
		defer cancel()
	}

	response, err := p.client.GenerateJSON(callCtx, prompt, p.opts.Tier)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{Timeout: p.opts.RequestTimeout, Cause: err}
		}
		return nil, &APICallError{Message: "failed to generate content from LLM", Cause: err}
	}

	return DecodeResponse(response)
}

// DecodeResponse strips wrappers from a raw model response, validates it
// against the resume schema and decodes it.
func DecodeResponse(response string) (*types.ResumeRecord, error) {
	cleaned := llm.CleanJSONBlock(response)
	if !json.Valid([]byte(cleaned)) {
		return nil, &ParseError{
			Message:  "response is not valid JSON",
			Response: truncate(response, maxLoggedResponse),
		}
	}

	if err := schemas.ValidateResumeJSON([]byte(cleaned)); err != nil {
		msg := "response does not match the resume schema"
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			msg = fmt.Sprintf("%s (%s)", msg, validationErr.Summary())
		}
		return nil, &ParseError{
			Message:  msg,
			Response: truncate(cleaned, maxLoggedResponse),
			Cause:    err,
		}
	}

	var record types.ResumeRecord
	if err := json.Unmarshal([]byte(cleaned), &record); err != nil {
		return nil, &ParseError{
			Message:  "failed to decode resume record",
			Response: truncate(cleaned, maxLoggedResponse),
			Cause:    err,
		}
	}

	return &record, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
