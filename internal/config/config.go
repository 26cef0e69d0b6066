// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the single configuration struct handed to every component. It
// can be loaded from a JSON or YAML file; environment variables override it.
type Config struct {
	// Model
	APIKey               string   `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Model                string   `json:"model,omitempty" yaml:"model,omitempty"`
	RequestTimeout       Duration `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty" validate:"gte=0"`
	MaxAttempts          int      `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty" validate:"gte=0,lte=10"`
	RetryInitialInterval Duration `json:"retry_initial_interval,omitempty" yaml:"retry_initial_interval,omitempty" validate:"gte=0"`

	// Rendering
	TextTemplate string `json:"text_template,omitempty" yaml:"text_template,omitempty"`
	DocxTemplate string `json:"docx_template,omitempty" yaml:"docx_template,omitempty"`
	Logo         string `json:"logo,omitempty" yaml:"logo,omitempty"`

	// Face extraction
	FaceOutputDir string  `json:"face_output_dir,omitempty" yaml:"face_output_dir,omitempty"`
	// FaceCascade overrides the bundled pigo facefinder cascade.
	FaceCascade   string  `json:"face_cascade,omitempty" yaml:"face_cascade,omitempty"`
	FaceDPI       float64 `json:"face_dpi,omitempty" yaml:"face_dpi,omitempty" validate:"gte=0,lte=1200"`
	FacePadding   float64 `json:"face_padding,omitempty" yaml:"face_padding,omitempty" validate:"gte=0,lte=5"`

	// Server
	UploadDir     string `json:"upload_dir,omitempty" yaml:"upload_dir,omitempty"`
	Port          int    `json:"port,omitempty" yaml:"port,omitempty" validate:"gte=0,lte=65535"`
	AllowedOrigin string `json:"allowed_origin,omitempty" yaml:"allowed_origin,omitempty"`

	// Logging
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,oneof=json pretty"`
	Verbose   bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Model:                "gemini-2.5-flash",
		RequestTimeout:       Duration(60 * time.Second),
		MaxAttempts:          3,
		RetryInitialInterval: Duration(time.Second),
		TextTemplate:         filepath.Join("templates", "resume_builder_template.txt"),
		DocxTemplate:         filepath.Join("templates", "Resume_Template_With_Logo.docx"),
		FaceOutputDir:        filepath.Join("static", "face_images"),
		FaceDPI:              300,
		FacePadding:          0.5,
		UploadDir:            "temp_uploads",
		Port:                 8000,
		AllowedOrigin:        "http://localhost:3000",
		LogLevel:             "info",
		LogFormat:            "pretty",
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by
// extension (.yaml/.yml for YAML, anything else JSON).
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load builds the effective configuration: the file at path (optional),
// then defaults for unset fields, then environment overrides, then
// validation.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(Default())
	if err := merged.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Validate checks that the configuration has valid values.
// Note: the API key is not required here; only commands that call the model
// need it.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	mergeString(&result.APIKey, defaults.APIKey)
	mergeString(&result.Model, defaults.Model)
	mergeString(&result.TextTemplate, defaults.TextTemplate)
	mergeString(&result.DocxTemplate, defaults.DocxTemplate)
	mergeString(&result.Logo, defaults.Logo)
	mergeString(&result.FaceOutputDir, defaults.FaceOutputDir)
	mergeString(&result.FaceCascade, defaults.FaceCascade)
	mergeString(&result.UploadDir, defaults.UploadDir)
	mergeString(&result.AllowedOrigin, defaults.AllowedOrigin)
	mergeString(&result.LogLevel, defaults.LogLevel)
	mergeString(&result.LogFormat, defaults.LogFormat)

	// Numeric fields: use default if zero
	if result.RequestTimeout == 0 {
		result.RequestTimeout = defaults.RequestTimeout
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.RetryInitialInterval == 0 {
		result.RetryInitialInterval = defaults.RetryInitialInterval
	}
	if result.FaceDPI == 0 {
		result.FaceDPI = defaults.FaceDPI
	}
	if result.FacePadding == 0 {
		result.FacePadding = defaults.FacePadding
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func mergeString(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

// ApplyEnv overrides fields from the environment. GEMINI_API_KEY takes
// precedence over GOOGLE_API_KEY; every other field is read from RESUME_*
// (PORT is also honored for the server port).
func (c *Config) ApplyEnv() error {
	if v := firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"); v != "" {
		c.APIKey = v
	}

	strs := []struct {
		key   string
		field *string
	}{
		{"RESUME_MODEL", &c.Model},
		{"RESUME_TEXT_TEMPLATE", &c.TextTemplate},
		{"RESUME_DOCX_TEMPLATE", &c.DocxTemplate},
		{"RESUME_LOGO", &c.Logo},
		{"RESUME_FACE_OUTPUT_DIR", &c.FaceOutputDir},
		{"RESUME_FACE_CASCADE", &c.FaceCascade},
		{"RESUME_UPLOAD_DIR", &c.UploadDir},
		{"RESUME_ALLOWED_ORIGIN", &c.AllowedOrigin},
		{"RESUME_LOG_LEVEL", &c.LogLevel},
		{"RESUME_LOG_FORMAT", &c.LogFormat},
	}
	for _, s := range strs {
		if v := os.Getenv(s.key); v != "" {
			*s.field = v
		}
	}

	if v := os.Getenv("RESUME_REQUEST_TIMEOUT"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("config error: RESUME_REQUEST_TIMEOUT: %w", err)
		}
		c.RequestTimeout = d
	}
	if v := os.Getenv("RESUME_RETRY_INITIAL_INTERVAL"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("config error: RESUME_RETRY_INITIAL_INTERVAL: %w", err)
		}
		c.RetryInitialInterval = d
	}
	if err := envInt("RESUME_MAX_ATTEMPTS", &c.MaxAttempts); err != nil {
		return err
	}
	if err := envInt("PORT", &c.Port); err != nil {
		return err
	}
	if err := envInt("RESUME_PORT", &c.Port); err != nil {
		return err
	}
	if err := envFloat("RESUME_FACE_DPI", &c.FaceDPI); err != nil {
		return err
	}
	return envFloat("RESUME_FACE_PADDING", &c.FacePadding)
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envInt(key string, field *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config error: %s must be an integer: %w", key, err)
	}
	*field = n
	return nil
}

func envFloat(key string, field *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("config error: %s must be a number: %w", key, err)
	}
	*field = f
	return nil
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
