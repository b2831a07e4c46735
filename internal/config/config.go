package config

import (
	"fmt"
	"net"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const defaultLLMAPIURL = "https://api.openai.com/v1/chat/completions"

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64

	// OCR stage
	OCREndpoint string
	OCREngine   string // "remote" or "tesseract"

	// LLM stage
	LLMAPIURL  string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	MaxConcurrentExtractions int

	// Optional Azure blob source for screenshot URLs
	AzureAccountName string
	AzureAccountKey  string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// HasLLMCredential reports whether the analysis stage is enabled.
// Without an API key the pipeline silently skips analysis.
func (c *Config) HasLLMCredential() bool {
	return c.LLMAPIKey != ""
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 20*1024*1024), // 20MB, screenshots are large

		OCREndpoint: getEnvOrDefault("DEEPSEEK_OCR_URL", "http://localhost:8000/ocr"),
		OCREngine:   getEnvOrDefault("OCR_ENGINE", "remote"),

		LLMAPIURL:  resolveLLMAPIURL(),
		LLMAPIKey:  os.Getenv("OPENAI_API_KEY"),
		LLMModel:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		LLMTimeout: parseDurationOrDefault("LLM_TIMEOUT", 30*time.Second),

		MaxConcurrentExtractions: int(parseIntOrDefault("MAX_CONCURRENT_EXTRACTIONS", int64(runtime.NumCPU()))),

		AzureAccountName: os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureAccountKey:  os.Getenv("AZURE_STORAGE_KEY"),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.LLMTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, llm=%s)",
			cfg.RequestTimeout, cfg.LLMTimeout)
	}
	if cfg.OCREngine != "remote" && cfg.OCREngine != "tesseract" {
		return nil, fmt.Errorf("invalid OCR_ENGINE: %q (want \"remote\" or \"tesseract\")", cfg.OCREngine)
	}
	if cfg.MaxConcurrentExtractions <= 0 {
		return nil, fmt.Errorf("MAX_CONCURRENT_EXTRACTIONS must be > 0 (got %d)", cfg.MaxConcurrentExtractions)
	}
	return cfg, nil
}

// resolveLLMAPIURL builds the chat-completion URL from OPENAI_API_BASE or
// OPENAI_BASE_URL, appending /chat/completions unless already present.
func resolveLLMAPIURL() string {
	base := os.Getenv("OPENAI_API_BASE")
	if base == "" {
		base = os.Getenv("OPENAI_BASE_URL")
	}
	return buildChatCompletionsURL(base)
}

func buildChatCompletionsURL(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return defaultLLMAPIURL
	}
	base = strings.TrimRight(base, "/")
	if strings.HasSuffix(base, "/chat/completions") {
		return base
	}
	return base + "/chat/completions"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
