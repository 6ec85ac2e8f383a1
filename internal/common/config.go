package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Env         string            `yaml:"env"`
	Database    DatabaseConfig    `yaml:"database"`
	Server      ServerConfig      `yaml:"server"`
	ObjectStore ObjectStoreConfig `yaml:"object_store"`
	LLM         LLMConfig         `yaml:"llm"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Log         LogConfig         `yaml:"log"`
	Ingest      IngestConfig      `yaml:"ingest"`
	Extract     ExtractConfig     `yaml:"extract"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	DialTimeout     time.Duration `yaml:"dial_timeout"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           int           `yaml:"port"`
	GRPCAddr       string        `yaml:"grpc_addr"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

// ObjectStoreConfig holds the bucket store connection settings
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	VisionModel string        `yaml:"vision_model"`
	Timeout     time.Duration `yaml:"timeout"`
}

// RateLimitConfig allows MaxRequests per client IP per Window
type RateLimitConfig struct {
	Window      time.Duration `yaml:"window"`
	MaxRequests int           `yaml:"max_requests"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type IngestConfig struct {
	Workers int `yaml:"workers"`
}

// ExtractConfig tunes PDF text extraction. An empty Pdftotext disables the
// external fallback.
type ExtractConfig struct {
	Pdftotext string `yaml:"pdftotext"`
	MaxPages  int    `yaml:"max_pages"`
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// LoadConfig loads configuration from a .env file (if present), the process
// environment and, when CONFIG_FILE is set, a YAML overlay.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env: strings.ToLower(getEnv("APP_ENV", getEnv("NODE_ENV", EnvDevelopment))),
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("PORT", 3001),
			GRPCAddr:       getEnv("GRPC_ADDR", ":9090"),
			MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 10<<20)),
			ReadTimeout:    getEnvAsDuration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("HTTP_WRITE_TIMEOUT", 120*time.Second),
		},
		ObjectStore: ObjectStoreConfig{
			Endpoint:  getEnv("OBJECT_STORE_ENDPOINT", ""),
			AccessKey: getEnv("OBJECT_STORE_ACCESS_KEY", ""),
			SecretKey: getEnv("OBJECT_STORE_SECRET_KEY", ""),
			Bucket:    getEnv("OBJECT_STORE_BUCKET", "contracts"),
			UseSSL:    getEnvAsBool("OBJECT_STORE_USE_SSL", true),
		},
		LLM: LLMConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			VisionModel: getEnv("OPENAI_VISION_MODEL", "gpt-4-vision-preview"),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 60*time.Second),
		},
		RateLimit: RateLimitConfig{
			Window:      getEnvAsDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			MaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Ingest: IngestConfig{
			Workers: getEnvAsInt("INGEST_WORKERS", 4),
		},
		Extract: ExtractConfig{
			Pdftotext: getEnv("PDFTOTEXT_BIN", ""),
			MaxPages:  getEnvAsInt("PDF_MAX_PAGES", 0),
		},
	}

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}
	if cfg.IsTest() {
		cfg.applyTestDefaults()
	}
	return cfg, nil
}

// overlayFile merges non-zero values from a YAML file on top of the env config.
func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// IsTest reports whether the process runs in test mode.
func (c *Config) IsTest() bool {
	return c.Env == EnvTest
}

func (c *Config) applyTestDefaults() {
	if c.Database.DSN == "" {
		c.Database.Driver = "sqlite"
		c.Database.DSN = "file:contracts_test?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	}
	if c.ObjectStore.Endpoint == "" {
		c.ObjectStore.Endpoint = "localhost:9000"
		c.ObjectStore.UseSSL = false
	}
	if c.ObjectStore.AccessKey == "" {
		c.ObjectStore.AccessKey = "test-access-key"
	}
	if c.ObjectStore.SecretKey == "" {
		c.ObjectStore.SecretKey = "test-secret-key"
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = "test-openai-key"
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks required values. Test mode never fails here because
// applyTestDefaults has already filled every required field.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"DB_URL", c.Database.DSN},
		{"OBJECT_STORE_ENDPOINT", c.ObjectStore.Endpoint},
		{"OBJECT_STORE_ACCESS_KEY", c.ObjectStore.AccessKey},
		{"OBJECT_STORE_SECRET_KEY", c.ObjectStore.SecretKey},
		{"OPENAI_API_KEY", c.LLM.APIKey},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return NewConfigError(fmt.Sprintf("missing required environment variable: %s", r.key))
		}
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return NewConfigError(fmt.Sprintf("unsupported DB_DRIVER %q", c.Database.Driver))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return NewConfigError(fmt.Sprintf("invalid PORT %d", c.Server.Port))
	}
	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.Window <= 0 {
		return NewConfigError("rate limit window and max requests must be positive")
	}
	return nil
}
