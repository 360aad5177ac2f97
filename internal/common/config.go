package common

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	FileStore FileStoreConfig
	AI        AIConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string `mapstructure:"HTTP_ADDR"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"DB_URL"`
	MaxOpenConns    int           `mapstructure:"DB_MAX_CONNS"`
	MaxIdleConns    int           `mapstructure:"DB_IDLE_CONNS"`
	MaxConnLifetime time.Duration `mapstructure:"DB_MAX_CONN_LIFETIME"`
}

// FileStoreConfig holds upload storage configuration.
type FileStoreConfig struct {
	UploadDir    string `mapstructure:"UPLOAD_DIR"`
	MaxFileBytes int64  `mapstructure:"MAX_FILE_BYTES"`
}

// AIConfig holds extraction model configuration.
type AIConfig struct {
	BaseURL           string        `mapstructure:"OPENROUTER_API_URL"`
	APIKey            string        `mapstructure:"OPENROUTER_API_KEY"`
	Model             string        `mapstructure:"AI_MODEL"`
	Temperature       float32       `mapstructure:"AI_TEMPERATURE"`
	ClassifyMaxTokens int           `mapstructure:"AI_CLASSIFY_MAX_TOKENS"`
	ExtractMaxTokens  int           `mapstructure:"AI_EXTRACT_MAX_TOKENS"`
	ClassifyTimeout   time.Duration `mapstructure:"AI_CLASSIFY_TIMEOUT"`
	ExtractTimeout    time.Duration `mapstructure:"AI_EXTRACT_TIMEOUT"`
}

type flatConfig struct {
	ServerConfig    `mapstructure:",squash"`
	DatabaseConfig  `mapstructure:",squash"`
	FileStoreConfig `mapstructure:",squash"`
	AIConfig        `mapstructure:",squash"`
}

// LoadConfig loads configuration from environment variables, with an
// optional .env file for local development.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_IDLE_CONNS", 5)
	v.SetDefault("DB_MAX_CONN_LIFETIME", 30*time.Minute)
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("MAX_FILE_BYTES", int64(10*1024*1024))
	v.SetDefault("OPENROUTER_API_URL", "https://openrouter.ai/api/v1/chat/completions")
	v.SetDefault("AI_MODEL", "google/gemini-flash-1.5")
	v.SetDefault("AI_TEMPERATURE", 0.1)
	v.SetDefault("AI_CLASSIFY_MAX_TOKENS", 100)
	v.SetDefault("AI_EXTRACT_MAX_TOKENS", 4000)
	v.SetDefault("AI_CLASSIFY_TIMEOUT", 30*time.Second)
	v.SetDefault("AI_EXTRACT_TIMEOUT", 90*time.Second)

	// Bind env vars explicitly so Unmarshal picks them up.
	for _, key := range []string{
		"HTTP_ADDR",
		"DB_URL", "DB_MAX_CONNS", "DB_IDLE_CONNS", "DB_MAX_CONN_LIFETIME",
		"UPLOAD_DIR", "MAX_FILE_BYTES",
		"OPENROUTER_API_URL", "OPENROUTER_API_KEY", "AI_MODEL", "AI_TEMPERATURE",
		"AI_CLASSIFY_MAX_TOKENS", "AI_EXTRACT_MAX_TOKENS",
		"AI_CLASSIFY_TIMEOUT", "AI_EXTRACT_TIMEOUT",
	} {
		_ = v.BindEnv(key)
	}

	// Try reading .env, but don't fail if missing.
	_ = v.ReadInConfig()

	flat := &flatConfig{}
	if err := v.Unmarshal(flat); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &Config{
		Server:    flat.ServerConfig,
		Database:  flat.DatabaseConfig,
		FileStore: flat.FileStoreConfig,
		AI:        flat.AIConfig,
	}, nil
}

// Validate checks that the loaded configuration is safe to run.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.FileStore.UploadDir == "" {
		return NewAppError("CONFIG_ERROR", "UPLOAD_DIR is required", ErrInvalidInput)
	}
	// OPENROUTER_API_KEY is deliberately optional: uploads without a key are
	// stored unparsed.
	return nil
}
