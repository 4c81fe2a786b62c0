package common

import (
	"os"
	"strconv"
	"time"

	"github.com/freightdocs/invoice-extractor/constants"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Upload  UploadConfig
	Session SessionConfig
	LLM     LLMConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
}

// UploadConfig holds document upload limits.
type UploadConfig struct {
	MaxBytes int64
}

// SessionConfig holds session store behavior.
type SessionConfig struct {
	TTL time.Duration
	// Accumulate controls what a new upload does to a session's existing
	// rows: true appends, false replaces.
	Accumulate bool
}

// LLMConfig holds Gemini client configuration.
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Upload: UploadConfig{
			MaxBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", constants.MaxUploadBytes),
		},
		Session: SessionConfig{
			TTL:        getEnvAsDuration("SESSION_TTL", 2*time.Hour),
			Accumulate: getEnvAsBool("ACCUMULATE_RESULTS", true),
		},
		LLM: LLMConfig{
			Model:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			BaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", 90*time.Second),
		},
	}
}

// Validate validates the loaded configuration. The API key is deliberately
// not required here: callers may supply one per request instead.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError(KindInternal, "HTTP_ADDR is required", nil)
	}
	if c.Upload.MaxBytes <= 0 {
		return NewAppError(KindInternal, "MAX_UPLOAD_BYTES must be positive", nil)
	}
	if c.LLM.Model == "" {
		return NewAppError(KindInternal, "GEMINI_MODEL is required", nil)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
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
