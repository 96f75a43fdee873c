package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvAPI overrides api.base_url when set.
const EnvAPI = "RESUMELENS_API"

const (
	defaultBaseURL     = "http://127.0.0.1:8000"
	defaultTimeout     = 60 * time.Second
	defaultHistoryPath = "history.db"
)

// Config is the root configuration for resumelens.
type Config struct {
	API        APIConfig
	Validation ValidationConfig
	Report     ReportConfig
	History    HistoryConfig
}

// APIConfig locates the analysis backend.
type APIConfig struct {
	BaseURL  string
	Timeout  time.Duration // per-request timeout
	Contract string        // "standard" or "legacy"
}

// ValidationConfig controls client-side checks before a request is sent.
type ValidationConfig struct {
	StrictPDF bool // analyze rejects resumes whose name does not end in .pdf
}

// ReportConfig controls where downloaded reports are written.
type ReportConfig struct {
	OutputDir string
}

// HistoryConfig controls the optional local result history.
type HistoryConfig struct {
	Enabled bool
	Path    string
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	API        rawAPIConfig        `yaml:"api"`
	Validation rawValidationConfig `yaml:"validation"`
	Report     ReportConfig        `yaml:"report"`
	History    rawHistoryConfig    `yaml:"history"`
}

type rawAPIConfig struct {
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
	Contract string `yaml:"contract"`
}

type rawValidationConfig struct {
	StrictPDF *bool `yaml:"strict_pdf"` // nil means default (strict)
}

type rawHistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:  defaultBaseURL,
			Timeout:  defaultTimeout,
			Contract: "standard",
		},
		Validation: ValidationConfig{StrictPDF: true},
		Report:     ReportConfig{OutputDir: "."},
		History:    HistoryConfig{Path: defaultHistoryPath},
	}
}

// Load reads and parses the YAML config file at path, applies environment
// overrides, and returns Config. Callers run Validate once flags are applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()

	if raw.API.BaseURL != "" {
		cfg.API.BaseURL = raw.API.BaseURL
	}
	if raw.API.Timeout != "" {
		cfg.API.Timeout, err = time.ParseDuration(raw.API.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse api.timeout %q: %w", raw.API.Timeout, err)
		}
	}
	if raw.API.Contract != "" {
		cfg.API.Contract = raw.API.Contract
	}
	if raw.Validation.StrictPDF != nil {
		cfg.Validation.StrictPDF = *raw.Validation.StrictPDF
	}
	if raw.Report.OutputDir != "" {
		cfg.Report.OutputDir = raw.Report.OutputDir
	}
	cfg.History.Enabled = raw.History.Enabled
	if raw.History.Path != "" {
		cfg.History.Path = raw.History.Path
	}

	ApplyEnv(cfg)

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from a .env file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv applies environment overrides to cfg.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPI); v != "" {
		cfg.API.BaseURL = v
	}
}

// Validate checks cfg after flags and environment have been applied.
func Validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url %q: %w", cfg.API.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", cfg.API.BaseURL)
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", cfg.API.Timeout)
	}

	switch cfg.API.Contract {
	case "standard", "legacy":
	default:
		return fmt.Errorf("api.contract must be \"standard\" or \"legacy\", got %q", cfg.API.Contract)
	}

	if cfg.History.Enabled && cfg.History.Path == "" {
		return fmt.Errorf("history.path is required when history.enabled is true")
	}

	return nil
}
