package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "ENVIRONMENT", "PORT", "SHUTDOWN_TIMEOUT", "LOG_LEVEL",
		"ALLOWED_ORIGINS", "STATIC_DIR", "STRICT_SANITIZE", "MAX_MESSAGE_BYTES",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "static", cfg.StaticDir)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.False(t, cfg.StrictSanitize)
	assert.Equal(t, int64(8192), cfg.MaxMessageBytes)
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("STRICT_SANITIZE", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")
	t.Setenv("MAX_MESSAGE_BYTES", "1024")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.StrictSanitize)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(1024), cfg.MaxMessageBytes)
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "80")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("PORT", "abc")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadSanitizeFlag(t *testing.T) {
	clearEnv(t)
	t.Setenv("STRICT_SANITIZE", "maybe")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigFileWithEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "crewchat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 6000\nstatic_dir: /srv/www\n"), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("STATIC_DIR", "/override")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, "/override", cfg.StaticDir)
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()
	assert.Error(t, err)
}
