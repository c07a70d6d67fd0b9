package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, ok := os.LookupEnv(key)
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() {
		if ok {
			_ = os.Setenv(key, prev)
		}
	})
}

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"RESUME_BUILDER_ADDR", "RESUME_BUILDER_SESSION_TTL", "RESUME_BUILDER_RATE_LIMIT",
		"RESUME_BUILDER_RATE_BURST", "RESUME_BUILDER_MAX_UPLOAD_BYTES", "S3_PREFIX",
		"S3_BUCKET", "RESUME_BUILDER_STORAGE_DIR",
	} {
		unsetEnv(t, key)
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5.0, cfg.RateLimit)
	assert.Equal(t, 10, cfg.RateBurst)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "exports", cfg.S3Prefix)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("RESUME_BUILDER_ADDR", ":9090")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("RESUME_BUILDER_SESSION_TTL", "30m")
	t.Setenv("RESUME_BUILDER_RATE_LIMIT", "0.5")
	t.Setenv("RESUME_BUILDER_RATE_WHITELIST", "10.0.0.1,10.0.0.2")
	t.Setenv("S3_BUCKET", "resumes")
	t.Setenv("RESUME_BUILDER_STORAGE_DIR", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 0.5, cfg.RateLimit)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.RateWhitelist)
	assert.Equal(t, "resumes", cfg.S3Bucket)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("RESUME_BUILDER_SESSION_TTL", "soon")
	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestServerConfig_Validate(t *testing.T) {
	base := ServerConfig{SessionTTL: time.Hour, MaxUploadBytes: 1}
	assert.NoError(t, base.Validate())

	bad := base
	bad.RateBurst = -1
	assert.Error(t, bad.Validate())

	bad = base
	bad.MaxUploadBytes = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.StorageDir, bad.S3Bucket = "out", "bucket"
	assert.Error(t, bad.Validate())
}

func TestServerConfig_ApplyFile(t *testing.T) {
	cfg := ServerConfig{APIKey: "env-key", S3Prefix: "exports"}
	merged := cfg.ApplyFile(&Config{APIKey: "file-key", DatabaseURL: "postgres://db", S3Prefix: "cv", UseBrowser: true})

	assert.Equal(t, "env-key", merged.APIKey)
	assert.Equal(t, "postgres://db", merged.DatabaseURL)
	assert.Equal(t, "cv", merged.S3Prefix)
	assert.True(t, merged.UseBrowser)
	assert.Equal(t, cfg, cfg.ApplyFile(nil))
}
