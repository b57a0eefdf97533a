package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Storage     StorageConfig    `toml:"storage"`
	Logging     LoggingConfig    `toml:"logging"`
	Gemini      GeminiConfig     `toml:"gemini"`
	Claude      ClaudeConfig     `toml:"claude"`
	LLM         LLMConfig        `toml:"llm"`
	Extraction  ExtractionConfig `toml:"extraction"`
	PDF         PDFConfig        `toml:"pdf"`
	Document    DocumentConfig   `toml:"document"`
	Retention   RetentionConfig  `toml:"retention"`
}

type ServerConfig struct {
	Port          int    `toml:"port"`
	Host          string `toml:"host"`
	MaxUploadSize int64  `toml:"max_upload_size"` // Bytes accepted per multipart upload
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey     string `toml:"api_key"`
	Model      string `toml:"model"`       // Model for recognition, extraction and merging
	ImageModel string `toml:"image_model"` // Model for visual generation
	Timeout    string `toml:"timeout"`     // Per-call timeout as duration string
	RateLimit  string `toml:"rate_limit"`  // Minimum interval between requests
	MaxRetries int    `toml:"max_retries"` // Retries on rate limit errors
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey     string `toml:"api_key"`
	Model      string `toml:"model"`
	MaxTokens  int    `toml:"max_tokens"`
	Timeout    string `toml:"timeout"`
	RateLimit  string `toml:"rate_limit"`
	MaxRetries int    `toml:"max_retries"`
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig selects a provider per capability. Visual generation always uses Gemini.
type LLMConfig struct {
	Recognition   LLMProvider `toml:"recognition"`
	PDFExtraction LLMProvider `toml:"pdf_extraction"`
	Merge         LLMProvider `toml:"merge"`
}

// ExtractionConfig controls the per-note fan-out
type ExtractionConfig struct {
	MaxConcurrency int `toml:"max_concurrency"` // 0 = one goroutine per note
}

// PDFConfig selects the PDF text extraction backend
type PDFConfig struct {
	Backend string `toml:"backend"` // "llm" or "local"
}

// DocumentConfig contains page geometry and text style for the merged PDF
type DocumentConfig struct {
	PageWidth     float64 `toml:"page_width"` // Points
	PageHeight    float64 `toml:"page_height"`
	Margin        float64 `toml:"margin"`
	FontFamily    string  `toml:"font_family"`
	FontSize      float64 `toml:"font_size"`
	LineHeight    float64 `toml:"line_height"`
	ImageScale    float64 `toml:"image_scale"`
	ImageGap      float64 `toml:"image_gap"`
	Title         string  `toml:"title"` // PDF metadata title
	StripMarkdown bool    `toml:"strip_markdown"`
	Visual        bool    `toml:"visual"` // Generate an illustration for the first page
}

// RetentionConfig controls cleanup of stored merged documents
type RetentionConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule with seconds field
	MaxAge   string `toml:"max_age"`  // Duration string, e.g. "168h"
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:          8085,
			Host:          "localhost",
			MaxUploadSize: 32 << 20,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Gemini: GeminiConfig{
			Model:      "gemini-2.0-flash",
			ImageModel: "gemini-2.0-flash-preview-image-generation",
			Timeout:    "2m",
			RateLimit:  "4s", // 15 RPM free tier
			MaxRetries: 3,
		},
		Claude: ClaudeConfig{
			Model:      "claude-haiku-4-5",
			MaxTokens:  8192,
			Timeout:    "2m",
			RateLimit:  "1s",
			MaxRetries: 3,
		},
		LLM: LLMConfig{
			Recognition:   LLMProviderGemini,
			PDFExtraction: LLMProviderGemini,
			Merge:         LLMProviderGemini,
		},
		PDF: PDFConfig{
			Backend: "llm",
		},
		Document: DocumentConfig{
			PageWidth:     595.28, // A4
			PageHeight:    841.89,
			Margin:        50,
			FontFamily:    "Helvetica",
			FontSize:      12,
			LineHeight:    14.4,
			ImageScale:    0.5,
			ImageGap:      20,
			Title:         "Merged Class Notes",
			StripMarkdown: true,
			Visual:        true,
		},
		Retention: RetentionConfig{
			Enabled:  true,
			Schedule: "0 0 3 * * *", // Daily at 03:00
			MaxAge:   "168h",
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
// kvStorage can be nil (key reference replacement will be skipped)
func LoadFromFile(kvStorage interfaces.KeyValueStorage, path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles(kvStorage)
	}
	return LoadFromFiles(kvStorage, path)
}

// LoadFromFiles loads and merges configuration files in order, later files
// overriding earlier ones, then applies environment overrides.
func LoadFromFiles(kvStorage interfaces.KeyValueStorage, paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if kvStorage != nil {
		ApplyKeyReferences(context.Background(), config, kvStorage)
	}

	applyEnvOverrides(config)

	return config, nil
}

// ApplyKeyReferences replaces {key-name} references in config string fields
// with values from the KV store. Failures are logged and leave config unchanged.
func ApplyKeyReferences(ctx context.Context, config *Config, kvStorage interfaces.KeyValueStorage) {
	logger := GetLogger()
	kvMap, err := kvMapFrom(ctx, kvStorage)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to fetch KV map for config replacement, skipping replacement")
		return
	}
	if len(kvMap) == 0 {
		return
	}
	if err := ReplaceInStruct(config, kvMap, logger); err != nil {
		logger.Warn().Err(err).Msg("Failed to replace key references in config")
	}
}

func kvMapFrom(ctx context.Context, kvStorage interfaces.KeyValueStorage) (map[string]string, error) {
	pairs, err := kvStorage.List(ctx)
	if err != nil {
		return nil, err
	}
	kvMap := make(map[string]string, len(pairs))
	for _, p := range pairs {
		kvMap[p.Key] = p.Value
	}
	return kvMap, nil
}

func applyEnvOverrides(config *Config) {
	if env := os.Getenv("CLASSSYNC_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("CLASSSYNC_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("CLASSSYNC_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("CLASSSYNC_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("CLASSSYNC_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("CLASSSYNC_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Gemini configuration
	if apiKey := os.Getenv("CLASSSYNC_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("CLASSSYNC_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if imageModel := os.Getenv("CLASSSYNC_GEMINI_IMAGE_MODEL"); imageModel != "" {
		config.Gemini.ImageModel = imageModel
	}

	// Claude configuration
	if apiKey := os.Getenv("CLASSSYNC_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if model := os.Getenv("CLASSSYNC_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}

	// Provider selection
	if provider := os.Getenv("CLASSSYNC_LLM_PROVIDER"); provider != "" {
		p := LLMProvider(strings.ToLower(provider))
		config.LLM.Recognition = p
		config.LLM.PDFExtraction = p
		config.LLM.Merge = p
	}

	// PDF and document configuration
	if backend := os.Getenv("CLASSSYNC_PDF_BACKEND"); backend != "" {
		config.PDF.Backend = backend
	}
	if visual := os.Getenv("CLASSSYNC_DOCUMENT_VISUAL"); visual != "" {
		if v, err := strconv.ParseBool(visual); err == nil {
			config.Document.Visual = v
		}
	}

	// Retention configuration
	if maxAge := os.Getenv("CLASSSYNC_RETENTION_MAX_AGE"); maxAge != "" {
		config.Retention.MaxAge = maxAge
	}
}

// ApplyFlagOverrides applies command-line flags (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ResolveAPIKey resolves an API key with priority: environment -> KV store -> config.
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key":    {"CLASSSYNC_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"anthropic_api_key": {"CLASSSYNC_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	// An unresolved {key-name} reference is not a key
	if configFallback != "" && !keyRefPattern.MatchString(configFallback) {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment, KV store, or config", name)
}

// ValidateSchedule validates a six-field cron expression (seconds first)
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// MaxAgeDuration parses the retention max age
func (r RetentionConfig) MaxAgeDuration() (time.Duration, error) {
	d, err := time.ParseDuration(r.MaxAge)
	if err != nil {
		return 0, fmt.Errorf("invalid retention max_age %q: %w", r.MaxAge, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("retention max_age must be positive, got %s", r.MaxAge)
	}
	return d, nil
}

// ParseDurationOr parses s, returning fallback when s is empty or invalid.
func ParseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}

// DeepCloneConfig creates a deep copy of the configuration
func DeepCloneConfig(c *Config) *Config {
	if c == nil {
		return nil
	}

	clone := *c

	if len(c.Logging.Output) > 0 {
		clone.Logging.Output = make([]string, len(c.Logging.Output))
		copy(clone.Logging.Output, c.Logging.Output)
	}

	return &clone
}

