package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/submittal-review/constants"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	OCR       OCRConfig
	LLM       LLMConfig
	Telemetry TelemetryConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr       string
	GRPCHealthAddr string
	StaticDir      string
	UploadDir      string
	MaxUploadBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// OCRConfig holds text extraction configuration
type OCRConfig struct {
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	DPI           int
	MaxPages      int
}

// LLMConfig holds LLM-related configuration. There is no API key here:
// keys arrive with each request.
type LLMConfig struct {
	BaseURL            string
	DefaultModel       string
	LegacyDefaultModel string
	MaxTokens          int
	Temperature        float32
	Timeout            time.Duration
}

// TelemetryConfig holds tracing configuration
type TelemetryConfig struct {
	Disabled    bool
	ServiceName string
	Protocol    string
}

// LogConfig selects the slog handler
type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:       getEnv("HTTP_ADDR", ":3000"),
			GRPCHealthAddr: getEnv("GRPC_HEALTH_ADDR", ""),
			StaticDir:      getEnv("STATIC_DIR", "./public"),
			UploadDir:      getEnv("UPLOAD_DIR", os.TempDir()),
			MaxUploadBytes: getEnvAsInt("MAX_UPLOAD_BYTES", constants.DefaultMaxUploadBytes),
			ReadTimeout:    getEnvAsDuration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("HTTP_WRITE_TIMEOUT", 3*time.Minute),
		},
		OCR: OCRConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsInt("OCR_DPI", 72),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
		},
		LLM: LLMConfig{
			BaseURL:            getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			DefaultModel:       getEnv("DEFAULT_MODEL", constants.DefaultModel),
			LegacyDefaultModel: getEnv("LEGACY_DEFAULT_MODEL", constants.LegacyDefaultModel),
			MaxTokens:          getEnvAsInt("LLM_MAX_TOKENS", constants.DefaultMaxTokens),
			Temperature:        getEnvAsFloat32("LLM_TEMPERATURE", 0),
			Timeout:            getEnvAsDuration("LLM_TIMEOUT", 2*time.Minute),
		},
		Telemetry: TelemetryConfig{
			Disabled:    getEnvAsBool("OTEL_SDK_DISABLED", true),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "submittal-review"),
			Protocol:    getEnv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
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

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
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

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_UPLOAD_BYTES must be positive", ErrInvalidInput)
	}
	if c.LLM.DefaultModel == "" {
		return NewAppError("CONFIG_ERROR", "DEFAULT_MODEL is required", ErrInvalidInput)
	}
	if c.LLM.MaxTokens <= 0 {
		return NewAppError("CONFIG_ERROR", "LLM_MAX_TOKENS must be positive", ErrInvalidInput)
	}
	if c.LLM.Timeout <= 0 {
		return NewAppError("CONFIG_ERROR", "LLM_TIMEOUT must be positive", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be positive", ErrInvalidInput)
	}
	return nil
}
