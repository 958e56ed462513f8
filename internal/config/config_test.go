package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"user_id": "550e8400-e29b-41d4-a716-446655440000",
		"style_id": 4,
		"provider": "openai",
		"secondary_provider": "anthropic",
		"requests_per_second": 1.5,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", cfg.UserID)
	assert.Equal(t, 4, cfg.StyleID)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "anthropic", cfg.SecondaryProvider)
	assert.Equal(t, 1.5, cfg.RequestsPerSecond)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", Defaults(), ""},
		{"empty", Config{}, ""},
		{"negative port", Config{Port: -1}, "'port'"},
		{"negative style", Config{StyleID: -2}, "'style_id'"},
		{"negative rate", Config{RequestsPerSecond: -1}, "'requests_per_second'"},
		{"negative timeout", Config{AttemptTimeoutSec: -5}, "timeouts"},
		{"unknown provider", Config{Provider: "watson"}, "unknown provider"},
		{"unknown secondary", Config{Provider: "gemini", SecondaryProvider: "watson"}, "unknown secondary provider"},
		{"same providers", Config{Provider: "openai", SecondaryProvider: "openai"}, "must differ"},
		{"missing templates", Config{TemplatesFile: "/nonexistent/styles.yaml"}, "templates file not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		UserID:   "jane",
		Provider: "openai",
	}

	merged := cfg.MergeWithDefaults(Defaults())

	// Explicit values win
	assert.Equal(t, "jane", merged.UserID)
	assert.Equal(t, "openai", merged.Provider)

	// Defaults filled in
	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, 1, merged.StyleID)
	assert.Equal(t, 30, merged.AttemptTimeoutSec)
	assert.Equal(t, "INFO", merged.LogLevel)

	// Original untouched
	assert.Zero(t, cfg.Port)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := &Config{StyleID: 3}
	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, 3, merged.StyleID)
	assert.Empty(t, merged.Provider)
	assert.Zero(t, merged.Port)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("SECONDARY_PROVIDER", "anthropic")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("ANTHROPIC_API_KEY", "ant-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/resume")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PORT", "9090")

	cfg := Defaults()
	cfg.APIKey = "from-file"
	cfg.ApplyEnv()

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "gem-key", cfg.APIKey)
	assert.Equal(t, "anthropic", cfg.SecondaryProvider)
	assert.Equal(t, "ant-key", cfg.SecondaryAPIKey)
	assert.Equal(t, "postgres://localhost/resume", cfg.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 9090, cfg.Port)
}

func TestApplyEnv_KeepsFileValues(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("PORT", "not-a-port")

	cfg := Config{Provider: "gemini", APIKey: "from-file", Port: 7000}
	cfg.ApplyEnv()

	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, 7000, cfg.Port)
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "oa")
	assert.Equal(t, "oa", APIKeyFromEnv("openai"))
	assert.Empty(t, APIKeyFromEnv("ollama"))
	assert.Empty(t, APIKeyFromEnv(""))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("verbose"))
}

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("turn processed", slog.String("section", "work"))

	assert.Contains(t, stderr.String(), "section=work")
	assert.Contains(t, file.String(), `"section":"work"`)
	assert.NotContains(t, stderr.String(), "hidden")
	assert.NotContains(t, file.String(), "hidden")
}

func TestSetupLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.log")
	logger, cleanup := SetupLogger(path, slog.LevelInfo)
	logger.Info("hello")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestSetupLogger_NoFile(t *testing.T) {
	logger, cleanup := SetupLogger("", slog.LevelInfo)
	require.NotNil(t, logger)
	assert.NoError(t, cleanup())
}
