package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the loader at an empty directory so no stray config file
// or inherited variable leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for env := range envKeys {
		t.Setenv(strings.ToUpper(env), "")
		os.Unsetenv(strings.ToUpper(env))
	}
	t.Setenv(PathEnvVar, "")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "prod")
	t.Setenv("DATABASE_URL", "postgres://localhost/packaging")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("S3_BUCKET", "boxes")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("DECISION_LOG_SINKS", "file,Postgres")
	t.Setenv("DECISION_LOG_BUFFER", "32")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigin)
	assert.Equal(t, "s3", cfg.ObjectStoreType)
	assert.Equal(t, int64(1<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{SinkFile, SinkPostgres}, cfg.DecisionLog.Sinks)
	assert.Equal(t, 32, cfg.DecisionLog.Buffer)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.InDelta(t, 2.5, cfg.RateLimit.RPS, 1e-9)
	assert.True(t, cfg.HasSink(SinkPostgres))
	assert.False(t, cfg.HasSink(SinkSQS))
}

func TestLoadYAMLFileBelowEnvironment(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
local_store_dir: /srv/uploads
cors_allow_origins:
  - https://shop.example
decision_log:
  path: /var/log/decisions.jsonl
`), 0o600))
	t.Setenv(PathEnvVar, path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7001", cfg.Port)
	assert.Equal(t, "/srv/uploads", cfg.LocalStoreDir)
	assert.Equal(t, []string{"https://shop.example"}, cfg.CORSAllowOrigin)
	assert.Equal(t, "/var/log/decisions.jsonl", cfg.DecisionLog.Path)
	assert.Equal(t, 256, cfg.DecisionLog.Buffer)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("port: \"7000\"\n"), 0o600))
	t.Setenv(PathEnvVar, filepath.Join(dir, "typo.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "typo.yaml")
}

func TestLoadDefaultFileWithoutExplicitPath(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("port: \"7000\"\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"s3 without bucket", func(c *Config) { c.ObjectStoreType = "s3" }, "S3_BUCKET"},
		{"zero upload size", func(c *Config) { c.MaxUploadBytes = 0 }, "MAX_UPLOAD_BYTES"},
		{"bad origin pattern", func(c *Config) { c.CORSAllowOriginPattern = "(" }, "CORS_ALLOW_ORIGIN_PATTERN"},
		{"unknown sink", func(c *Config) { c.DecisionLog.Sinks = []string{"kafka"} }, `"kafka"`},
		{"postgres sink without db", func(c *Config) { c.DecisionLog.Sinks = []string{SinkPostgres} }, "DATABASE_URL"},
		{"sqs sink without queue", func(c *Config) { c.DecisionLog.Sinks = []string{SinkSQS} }, "DECISION_QUEUE_URL"},
		{"production without db", func(c *Config) { c.Env = "production" }, "production"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
	assert.NoError(t, Defaults().Validate())
}
