package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	LLM      LLMConfig
	Upload   UploadConfig
	Queue    QueueConfig
	Export   ExportConfig
	Settings SettingsConfig
}

// LLMConfig holds extraction-model configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
}

// UploadConfig holds cloud-upload configuration
type UploadConfig struct {
	Timeout time.Duration
}

// QueueConfig holds queue-processor configuration
type QueueConfig struct {
	// LocalPreviewDelay is the artificial per-record pause applied in
	// local-only mode so the processing state is perceptible.
	LocalPreviewDelay time.Duration
}

// ExportConfig holds export configuration
type ExportConfig struct {
	Label string
}

// SettingsConfig holds local settings-store configuration
type SettingsConfig struct {
	DBPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.1),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", 60*time.Second),
		},
		Upload: UploadConfig{
			Timeout: getEnvAsDuration("UPLOAD_TIMEOUT", 45*time.Second),
		},
		Queue: QueueConfig{
			LocalPreviewDelay: getEnvAsDuration("LOCAL_PREVIEW_DELAY", 800*time.Millisecond),
		},
		Export: ExportConfig{
			Label: getEnv("EXPORT_LABEL", "履歷匯出"),
		},
		Settings: SettingsConfig{
			DBPath: getEnv("SETTINGS_DB_PATH", "./resume-intake.db"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrConfiguration)
	}
	if c.Settings.DBPath == "" {
		return NewAppError("CONFIG_ERROR", "SETTINGS_DB_PATH is required", ErrConfiguration)
	}
	return nil
}
