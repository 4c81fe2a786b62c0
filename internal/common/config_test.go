package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdocs/invoice-extractor/constants"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "SHUTDOWN_TIMEOUT", "MAX_UPLOAD_BYTES",
		"SESSION_TTL", "ACCUMULATE_RESULTS",
		"GEMINI_MODEL", "GEMINI_API_KEY", "GEMINI_BASE_URL", "GEMINI_TEMPERATURE", "GEMINI_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, int64(constants.MaxUploadBytes), cfg.Upload.MaxBytes)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Session.Accumulate)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, float32(0), cfg.LLM.Temperature)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("ACCUMULATE_RESULTS", "false")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-pro")
	t.Setenv("GEMINI_TEMPERATURE", "0.25")

	cfg := LoadConfig()
	assert.Equal(t, ":9090", cfg.Server.HTTPAddr)
	assert.Equal(t, int64(1024), cfg.Upload.MaxBytes)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.False(t, cfg.Session.Accumulate)
	assert.Equal(t, "gemini-2.0-pro", cfg.LLM.Model)
	assert.Equal(t, float32(0.25), cfg.LLM.Temperature)
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "a-lot")
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("ACCUMULATE_RESULTS", "yep")

	cfg := LoadConfig()
	assert.Equal(t, int64(constants.MaxUploadBytes), cfg.Upload.MaxBytes)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Session.Accumulate)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cfg := LoadConfig()
	cfg.Upload.MaxBytes = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInternal))

	cfg = LoadConfig()
	cfg.LLM.Model = ""
	require.Error(t, cfg.Validate())
}
