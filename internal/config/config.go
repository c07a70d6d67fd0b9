// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultRasterScale is the device scale factor used when capturing the PDF preview.
const DefaultRasterScale = 2.0

// Config represents the CLI configuration that can be loaded from a JSON or TOML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Document
	Template string `json:"template,omitempty" toml:"template,omitempty"` // "freshie" or "experienced"

	// Output
	OutputDir   string  `json:"output_dir,omitempty" toml:"output_dir,omitempty"`     // Directory for exported files
	ChromePath  string  `json:"chrome_path,omitempty" toml:"chrome_path,omitempty"`   // Chrome binary for PDF capture
	RasterScale float64 `json:"raster_scale,omitempty" toml:"raster_scale,omitempty"` // Device scale factor for PDF capture

	// Upload target for exported files
	StorageDir string `json:"storage_dir,omitempty" toml:"storage_dir,omitempty"`
	S3Bucket   string `json:"s3_bucket,omitempty" toml:"s3_bucket,omitempty"`
	S3Region   string `json:"s3_region,omitempty" toml:"s3_region,omitempty"`
	S3Endpoint string `json:"s3_endpoint,omitempty" toml:"s3_endpoint,omitempty"`
	S3Prefix   string `json:"s3_prefix,omitempty" toml:"s3_prefix,omitempty"`

	// Behavior
	APIKey      string `json:"api_key,omitempty" toml:"api_key,omitempty"`           // Gemini API key
	Model       string `json:"model,omitempty" toml:"model,omitempty"`               // Overrides the model of every tier
	UseBrowser  bool   `json:"use_browser,omitempty" toml:"use_browser,omitempty"`   // Use headless browser for SPA job pages
	Verbose     bool   `json:"verbose,omitempty" toml:"verbose,omitempty"`           // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty" toml:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON or TOML file, chosen by extension.
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
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Template != "" && !types.Template(strings.ToLower(c.Template)).Valid() {
		return fmt.Errorf("config error: unknown template %q (want %q or %q)",
			c.Template, types.TemplateFreshie, types.TemplateExperienced)
	}

	if c.RasterScale < 0 {
		return fmt.Errorf("config error: 'raster_scale' must be non-negative")
	}

	if c.StorageDir != "" && c.S3Bucket != "" {
		return fmt.Errorf("config error: 'storage_dir' and 's3_bucket' are mutually exclusive")
	}
	if c.S3Endpoint != "" && c.S3Bucket == "" {
		return fmt.Errorf("config error: 's3_endpoint' requires 's3_bucket'")
	}

	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome binary not found: %s", c.ChromePath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.Template, defaults.Template)
	fill(&result.OutputDir, defaults.OutputDir)
	fill(&result.ChromePath, defaults.ChromePath)
	fill(&result.StorageDir, defaults.StorageDir)
	fill(&result.S3Bucket, defaults.S3Bucket)
	fill(&result.S3Region, defaults.S3Region)
	fill(&result.S3Endpoint, defaults.S3Endpoint)
	fill(&result.S3Prefix, defaults.S3Prefix)
	fill(&result.APIKey, defaults.APIKey)
	fill(&result.Model, defaults.Model)
	fill(&result.DatabaseURL, defaults.DatabaseURL)

	if result.RasterScale == 0 {
		if defaults.RasterScale > 0 {
			result.RasterScale = defaults.RasterScale
		} else {
			result.RasterScale = DefaultRasterScale
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// TemplateOrDefault returns the configured template, or the default one.
func (c *Config) TemplateOrDefault() types.Template {
	return types.ParseTemplate(c.Template)
}
