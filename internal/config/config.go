// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// AI holds language model settings.
	AI AIConfig `json:"ai"`

	// CVTemplatePath locates the base CV template, relative to DataDir
	// unless absolute.
	CVTemplatePath string `json:"cv_template_path,omitempty"`

	// DataDir is where application records and CV history are stored.
	DataDir string `json:"data_dir,omitempty"`

	// ListenAddr is the HTTP server bind address.
	ListenAddr string `json:"listen_addr,omitempty"`

	// HistoryLimit caps how many past CVs feed tailoring context.
	HistoryLimit int `json:"history_limit,omitempty"`

	// PDFTimeoutSeconds bounds a single PDF render.
	PDFTimeoutSeconds int `json:"pdf_timeout_seconds,omitempty"`

	// Verbose prints detailed debug information.
	Verbose bool `json:"verbose,omitempty"`
}

// AIConfig holds language model settings.
type AIConfig struct {
	// APIKey is the Gemini API key. The GEMINI_API_KEY environment
	// variable takes precedence.
	APIKey string `json:"api_key,omitempty"`
	// Models optionally overrides the model used per tier
	// (lite/standard/advanced).
	Models map[string]string `json:"models,omitempty"`
}

// Defaults used when neither the config file nor flags provide a value.
const (
	DefaultCVTemplatePath = "cv.html"
	DefaultDataDir        = "."
	DefaultListenAddr     = ":5000"
	DefaultHistoryLimit   = 3
	DefaultPDFTimeout     = 60
)

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.HistoryLimit < 0 {
		return fmt.Errorf("config error: 'history_limit' must be non-negative")
	}
	if c.PDFTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'pdf_timeout_seconds' must be non-negative")
	}

	if c.DataDir != "" {
		if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
			return fmt.Errorf("config error: 'data_dir' is not a directory: %s", c.DataDir)
		}
	}

	return nil
}

// ApplyDefaults returns a copy of the config with unset fields filled in.
func (c *Config) ApplyDefaults() Config {
	result := *c

	if result.CVTemplatePath == "" {
		result.CVTemplatePath = DefaultCVTemplatePath
	}
	if result.DataDir == "" {
		result.DataDir = DefaultDataDir
	}
	if result.ListenAddr == "" {
		result.ListenAddr = DefaultListenAddr
	}
	if result.HistoryLimit == 0 {
		result.HistoryLimit = DefaultHistoryLimit
	}
	if result.PDFTimeoutSeconds == 0 {
		result.PDFTimeoutSeconds = DefaultPDFTimeout
	}
	if result.AI.APIKey == "" {
		result.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	return result
}
