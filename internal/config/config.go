package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the poshan service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Cache     CacheConfig     `yaml:"cache"`
	Learning  LearningConfig  `yaml:"learning"`
	Index     IndexConfig     `yaml:"index"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int    `yaml:"port"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
	StaticDir       string `yaml:"static_dir"`
}

// CorpusConfig names the knowledge base sources. A missing file yields an
// empty or partial corpus, not a startup failure.
type CorpusConfig struct {
	KnowledgeBasePath string `yaml:"knowledge_base_path"`
	ExtraPath         string `yaml:"extra_path"`
	EmbeddingsPath    string `yaml:"embeddings_path"` // optional doc id -> vector snapshot
}

// EmbeddingConfig holds the OpenAI-compatible provider settings.
// An empty api_key disables the vector path entirely.
type EmbeddingConfig struct {
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	Model           string `yaml:"model"`
	Dimensions      int    `yaml:"dimensions"`
	CompletionModel string `yaml:"completion_model"`
	MaxAttempts     int    `yaml:"max_attempts"`
	RetryDelayMs    int    `yaml:"retry_delay_ms"`
}

// RateLimitConfig holds admission control settings.
type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
}

// CacheConfig holds per-table TTLs in seconds.
type CacheConfig struct {
	SearchTTLSec   int `yaml:"search_ttl_sec"`
	ResponseTTLSec int `yaml:"response_ttl_sec"`
	ResearchTTLSec int `yaml:"research_ttl_sec"`
}

// LearningConfig holds the learned-boost snapshot location.
type LearningConfig struct {
	Path string `yaml:"path"`
}

// IndexConfig holds offline index builder settings.
type IndexConfig struct {
	OutputPath string  `yaml:"output_path"`
	K1         float64 `yaml:"k1"`
	B          float64 `yaml:"b"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR} / ${VAR:-default}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 3000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.StaticDir == "" {
		c.HTTP.StaticDir = "public"
	}
	if c.Corpus.KnowledgeBasePath == "" {
		c.Corpus.KnowledgeBasePath = "knowledge_base.csv"
	}
	if c.Embedding.MaxAttempts <= 0 {
		c.Embedding.MaxAttempts = 3
	}
	if c.Embedding.RetryDelayMs <= 0 {
		c.Embedding.RetryDelayMs = 200
	}
	if c.RateLimit.PerMinute <= 0 {
		c.RateLimit.PerMinute = 10
	}
	if c.Cache.SearchTTLSec <= 0 {
		c.Cache.SearchTTLSec = 300
	}
	if c.Cache.ResponseTTLSec <= 0 {
		c.Cache.ResponseTTLSec = 600
	}
	if c.Cache.ResearchTTLSec <= 0 {
		c.Cache.ResearchTTLSec = 1800
	}
	if c.Learning.Path == "" {
		c.Learning.Path = "learned.json"
	}
	if c.Index.OutputPath == "" {
		c.Index.OutputPath = "trained_model.json"
	}
	if c.Index.K1 <= 0 {
		c.Index.K1 = 1.5
	}
	if c.Index.B <= 0 {
		c.Index.B = 0.75
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Embedding.APIKey != "" && c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required when embedding.api_key is set")
	}
	if c.Index.B < 0 || c.Index.B > 1 {
		return fmt.Errorf("index.b must be within [0, 1], got %v", c.Index.B)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
