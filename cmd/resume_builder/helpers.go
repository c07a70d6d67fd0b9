package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/rasterize"
	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// Replaced in tests.
var (
	newLLMClient = func(ctx context.Context, cfg *config.Config) (llm.Client, error) {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("API key is required (set GEMINI_API_KEY, --api-key or api_key in the config file)")
		}
		llmConfig := llm.DefaultConfig()
		if cfg.Model != "" {
			llmConfig = llmConfig.Pin(cfg.Model)
		}
		client, err := llm.NewClient(ctx, llmConfig, apiKey)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	newRasterizer = func(cfg *config.Config) rasterize.Rasterizer {
		return rasterize.Chrome{ExecPath: cfg.ChromePath}
	}
)

// loadConfig reads the --config file, if any, and fills defaults.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if configFile != "" {
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
		if err := loaded.Validate(); err != nil {
			return nil, err
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(config.Config{
		Template:  string(types.DefaultTemplate),
		OutputDir: ".",
	})
	merged.Verbose = merged.Verbose || verbose
	if apiKey != "" {
		merged.APIKey = apiKey
	}
	return &merged, nil
}

// templateFor returns the template named by a command flag, falling back to the config file.
func templateFor(flag string, cfg *config.Config) (types.Template, error) {
	if flag == "" {
		return cfg.TemplateOrDefault(), nil
	}
	t := types.Template(flag)
	if !t.Valid() {
		return "", fmt.Errorf("unknown template %q (want %q or %q)", flag, types.TemplateFreshie, types.TemplateExperienced)
	}
	return t, nil
}

// readDocument reads a resume document JSON file. A file that does not match the document
// structure is an error; field-level problems are reported in the result.
func readDocument(path string, tmpl types.Template) (validation.Result, *types.ResumeDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return validation.Result{}, nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	result, doc := validation.ValidateJSON(data, tmpl)
	if doc == nil {
		return result, nil, fmt.Errorf("%s is not a resume document: %v", path, result.FieldErrors)
	}
	return result, doc, nil
}

// writeJSON writes v as indented JSON, creating the parent directory.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// newStore returns the upload target named by the config, or nil.
func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch {
	case cfg.S3Bucket != "":
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: os.Getenv("S3_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			Prefix:    cfg.S3Prefix,
		})
	case cfg.StorageDir != "":
		return storage.NewFileStore(cfg.StorageDir), nil
	default:
		return nil, nil
	}
}
