package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key LoadConfig reads so the host environment does not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "NODE_ENV", "CONFIG_FILE", "PORT", "GRPC_ADDR",
		"DB_DRIVER", "DB_URL", "DB_MAX_CONNS", "DB_DIAL_TIMEOUT",
		"OBJECT_STORE_ENDPOINT", "OBJECT_STORE_ACCESS_KEY", "OBJECT_STORE_SECRET_KEY",
		"OBJECT_STORE_BUCKET", "OBJECT_STORE_USE_SSL",
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_TIMEOUT",
		"RATE_LIMIT_WINDOW", "RATE_LIMIT_MAX_REQUESTS",
		"LOG_LEVEL", "LOG_FORMAT", "INGEST_WORKERS", "PDFTOTEXT_BIN", "PDF_MAX_PAGES",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "contracts", cfg.ObjectStore.Bucket)
	assert.True(t, cfg.ObjectStore.UseSSL)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Empty(t, cfg.Extract.Pdftotext)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DB_MAX_CONNS", "7")
	t.Setenv("OPENAI_TIMEOUT", "5s")
	t.Setenv("OBJECT_STORE_USE_SSL", "false")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int32(7), cfg.Database.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.False(t, cfg.ObjectStore.UseSSL)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
}

func TestLoadConfig_NodeEnvTestFillsDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("NODE_ENV", "test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsTest())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.NotEmpty(t, cfg.LLM.APIKey)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_YAMLOverlay(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 4000\nobject_store:\n  bucket: legal\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "legal", cfg.ObjectStore.Bucket)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
}

func TestLoadConfig_BadOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base, err := LoadConfig()
	require.NoError(t, err)
	base.Database.DSN = "postgres://localhost/contracts"
	base.ObjectStore.Endpoint = "localhost:9000"
	base.ObjectStore.AccessKey = "a"
	base.ObjectStore.SecretKey = "s"
	base.LLM.APIKey = "k"
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"missing api key": func(c *Config) { c.LLM.APIKey = " " },
		"bad driver":      func(c *Config) { c.Database.Driver = "mysql" },
		"bad port":        func(c *Config) { c.Server.Port = 70000 },
		"zero rate":       func(c *Config) { c.RateLimit.MaxRequests = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := *base
			mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}
