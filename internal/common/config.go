package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Logging     LoggingConfig    `toml:"logging"`
	Storage     StorageConfig    `toml:"storage"`
	PlacesAPI   PlacesAPIConfig  `toml:"places_api"`
	OpenAI      OpenAIConfig     `toml:"openai"`
	Gemini      GeminiConfig     `toml:"gemini"`
	Claude      ClaudeConfig     `toml:"claude"`
	LLM         LLMConfig        `toml:"llm"`
	Enrichment  EnrichmentConfig `toml:"enrichment"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// PlacesAPIConfig contains Google Places API configuration
type PlacesAPIConfig struct {
	APIKey         string        `toml:"api_key"`         // Google Places API key
	BaseURL        string        `toml:"base_url"`        // Override for tests; default is the production endpoint
	RateLimit      int           `toml:"rate_limit"`      // Max requests per second against the provider
	RequestTimeout time.Duration `toml:"request_timeout"` // HTTP request timeout
	DefaultRadius  float64       `toml:"default_radius"`  // Search radius in meters when the caller omits one
}

// OpenAIConfig contains OpenAI Responses API configuration for vision analysis
type OpenAIConfig struct {
	APIKey  string `toml:"api_key"` // OpenAI API key
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`   // Vision model id (default: "gpt-4o-2024-11-20")
	Timeout string `toml:"timeout"` // Operation timeout as duration string (default: "60s")
}

// GeminiConfig contains Google Gemini API configuration for vision analysis
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`   // default: "gemini-2.0-flash"
	Timeout     string  `toml:"timeout"` // default: "60s"
	Temperature float32 `toml:"temperature"`
}

// ClaudeConfig contains Anthropic Claude API configuration for vision analysis
type ClaudeConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"` // default: "claude-sonnet-4-20250514"
	MaxTokens int    `toml:"max_tokens"`
	Timeout   string `toml:"timeout"` // default: "60s"
}

// VisionProvider represents the AI provider type
type VisionProvider string

const (
	VisionProviderOpenAI VisionProvider = "openai"
	VisionProviderGemini VisionProvider = "gemini"
	VisionProviderClaude VisionProvider = "claude"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider VisionProvider `toml:"default_provider"` // "openai", "gemini" or "claude" (default: "openai")
}

// EnrichmentConfig controls the photo analysis pipeline
type EnrichmentConfig struct {
	MaxPhotos       int    `toml:"max_photos"`       // Photos sent to the vision model per place (default: 6)
	PhotoMaxWidth   int    `toml:"photo_max_width"`  // maxWidthPx for resolved photo URLs (default: 800)
	SystemPromptURL string `toml:"system_prompt_url"`
	CacheMaxAge     string `toml:"cache_max_age"` // Freshness window for cached records (default: "24h")
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		PlacesAPI: PlacesAPIConfig{
			APIKey:         "", // User must provide API key in config file
			BaseURL:        "https://places.googleapis.com/v1",
			RateLimit:      10,
			RequestTimeout: 10 * time.Second,
			DefaultRadius:  3000, // 3km, keeps results near the user
		},
		OpenAI: OpenAIConfig{
			APIKey:  "",
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-2024-11-20",
			Timeout: "60s",
		},
		Gemini: GeminiConfig{
			APIKey:      "",
			Model:       "gemini-2.0-flash",
			Timeout:     "60s",
			Temperature: 0.2,
		},
		Claude: ClaudeConfig{
			APIKey:    "",
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 2048,
			Timeout:   "60s",
		},
		LLM: LLMConfig{
			DefaultProvider: VisionProviderOpenAI,
		},
		Enrichment: EnrichmentConfig{
			MaxPhotos:       6,
			PhotoMaxWidth:   800,
			SystemPromptURL: "./prompts/system_prompt.txt",
			CacheMaxAge:     "24h",
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files. Later files override
// earlier files. Priority: CLI flags > Environment variables > Last config
// file > ... > First config file > Defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
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

	applyEnvOverrides(config)

	return config, nil
}

// ApplyFlagOverrides applies command-line flag values (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("REPERIO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("REPERIO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("REPERIO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("REPERIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("REPERIO_LOG_OUTPUT"); output != "" {
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

	// Storage configuration
	if badgerPath := os.Getenv("REPERIO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Provider credentials
	if key := os.Getenv("REPERIO_PLACES_API_KEY"); key != "" {
		config.PlacesAPI.APIKey = key
	} else if key := os.Getenv("GOOGLE_PLACES_KEY"); key != "" {
		config.PlacesAPI.APIKey = key
	}
	if key := os.Getenv("REPERIO_OPENAI_API_KEY"); key != "" {
		config.OpenAI.APIKey = key
	} else if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.OpenAI.APIKey = key
	}
	if key := os.Getenv("REPERIO_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("REPERIO_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}

	// Provider selection
	if provider := os.Getenv("REPERIO_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = VisionProvider(provider)
	}
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime failures.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.PlacesAPI.DefaultRadius <= 0 {
		return fmt.Errorf("places_api.default_radius must be greater than 0, got %f", c.PlacesAPI.DefaultRadius)
	}
	if c.Enrichment.MaxPhotos <= 0 {
		return fmt.Errorf("enrichment.max_photos must be greater than 0, got %d", c.Enrichment.MaxPhotos)
	}
	switch c.LLM.DefaultProvider {
	case VisionProviderOpenAI, VisionProviderGemini, VisionProviderClaude:
	default:
		return fmt.Errorf("invalid llm.default_provider '%s': must be 'openai', 'gemini' or 'claude'", c.LLM.DefaultProvider)
	}
	return nil
}
