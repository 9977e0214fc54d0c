package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"gopkg.in/yaml.v3"
)

// Storage drivers accepted by faq.storage.driver.
const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageValkey   = "valkey"
	StorageObject   = "object"
)

// Encoder providers accepted by encoder.provider.
const (
	EncoderHashing = "hashing"
	EncoderChatGPT = "chatgpt"
	EncoderOpenAI  = "openai"
	EncoderGemini  = "gemini"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Auth    AuthConfig    `yaml:"auth"`
	Encoder EncoderConfig `yaml:"encoder"`
	FAQ     FAQConfig     `yaml:"faq"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// LogConfig selects the slog level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// AuthConfig holds the admin token settings.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwtSecret"`
	Issuer    string        `yaml:"issuer"`
	TokenTTL  time.Duration `yaml:"tokenTtl"`
}

// EncoderConfig selects and tunes the text encoder.
type EncoderConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseUrl"`
	Dimensions  int           `yaml:"dimensions"`
	BatchTokens int           `yaml:"batchTokens"`
	Timeout     time.Duration `yaml:"timeout"`
	Gemini      GeminiConfig  `yaml:"gemini"`
}

// GeminiConfig carries the genai client backend settings.
type GeminiConfig struct {
	Backend  string `yaml:"backend"`
	Project  string `yaml:"project"`
	Location string `yaml:"location"`
}

// FAQConfig controls the semantic FAQ service behavior.
type FAQConfig struct {
	SimilarityThreshold float64       `yaml:"similarityThreshold"`
	MaxMessageLength    int           `yaml:"maxMessageLength"`
	IgnorePatterns      []string      `yaml:"ignorePatterns"`
	Storage             StorageConfig `yaml:"storage"`
	Rewrite             RewriteConfig `yaml:"rewrite"`
}

// StorageConfig selects where question/answer pairs are persisted.
type StorageConfig struct {
	Driver   string         `yaml:"driver"`
	Path     string         `yaml:"path"`
	Postgres PostgresConfig `yaml:"postgres"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Object   ObjectConfig   `yaml:"object"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the KV backend.
type ValkeyConfig struct {
	Addr string `yaml:"addr"`
	Key  string `yaml:"key"`
}

// ObjectConfig points at an S3 compatible bucket (R2, MinIO, S3).
type ObjectConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Key       string `yaml:"key"`
}

// RewriteConfig drives the answer replacement map.
type RewriteConfig struct {
	Enabled      bool          `yaml:"enabled"`
	MappingURL   string        `yaml:"mappingUrl"`
	TTL          time.Duration `yaml:"ttl"`
	MaxDepth     int           `yaml:"maxDepth"`
	RetryBackoff time.Duration `yaml:"retryBackoff"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = parsed
		}
	}
	if v := os.Getenv("ENCODER_PROVIDER"); v != "" {
		cfg.Encoder.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("ENCODER_MODEL"); v != "" {
		cfg.Encoder.Model = v
	}
	if v := os.Getenv("ENCODER_API_KEY"); v != "" {
		cfg.Encoder.APIKey = v
	}
	if v := os.Getenv("ENCODER_BASE_URL"); v != "" {
		cfg.Encoder.BaseURL = v
	}
	if v := os.Getenv("ENCODER_DIMENSIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Encoder.Dimensions = parsed
		}
	}
	if v := os.Getenv("ENCODER_BATCH_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Encoder.BatchTokens = parsed
		}
	}
	if v := os.Getenv("GEMINI_BACKEND"); v != "" {
		cfg.Encoder.Gemini.Backend = v
	}
	if v := os.Getenv("GOOGLE_PROJECT_ID"); v != "" {
		cfg.Encoder.Gemini.Project = v
	}
	if v := os.Getenv("GOOGLE_REGION"); v != "" {
		cfg.Encoder.Gemini.Location = v
	}
	if v := os.Getenv("FAQ_SIMILARITY_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.SimilarityThreshold = parsed
		}
	}
	if v := os.Getenv("FAQ_MAX_MESSAGE_LENGTH"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.MaxMessageLength = parsed
		}
	}
	if v := os.Getenv("FAQ_IGNORE_PATTERNS"); v != "" {
		cfg.FAQ.IgnorePatterns = splitList(v)
	}
	if v := os.Getenv("FAQ_STORAGE_DRIVER"); v != "" {
		cfg.FAQ.Storage.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("FAQ_STORAGE_PATH"); v != "" {
		cfg.FAQ.Storage.Path = v
	}
	if v := os.Getenv("FAQ_POSTGRES_DSN"); v != "" {
		cfg.FAQ.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("FAQ_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.Storage.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("FAQ_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.Storage.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("FAQ_VALKEY_ADDR"); v != "" {
		cfg.FAQ.Storage.Valkey.Addr = v
	}
	if v := os.Getenv("FAQ_OBJECT_ENDPOINT"); v != "" {
		cfg.FAQ.Storage.Object.Endpoint = v
	}
	if v := os.Getenv("FAQ_OBJECT_ACCESS_KEY"); v != "" {
		cfg.FAQ.Storage.Object.AccessKey = v
	}
	if v := os.Getenv("FAQ_OBJECT_SECRET_KEY"); v != "" {
		cfg.FAQ.Storage.Object.SecretKey = v
	}
	if v := os.Getenv("FAQ_OBJECT_BUCKET"); v != "" {
		cfg.FAQ.Storage.Object.Bucket = v
	}
	if v := os.Getenv("FAQ_REWRITE_ENABLED"); v != "" {
		cfg.FAQ.Rewrite.Enabled = parseBool(v)
	}
	if v := os.Getenv("FAQ_REWRITE_MAPPING_URL"); v != "" {
		cfg.FAQ.Rewrite.MappingURL = v
	}
	if v := os.Getenv("FAQ_REWRITE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.FAQ.Rewrite.TTL = parsed
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Default returns the baseline configuration before file and env overrides.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/faq/entries",
				},
			},
		},
		Log: LogConfig{Level: "info"},
		Auth: AuthConfig{
			Issuer:   "semantic-faq",
			TokenTTL: 24 * time.Hour,
		},
		Encoder: EncoderConfig{
			Provider:    EncoderHashing,
			Model:       "text-embedding-ada-002",
			Dimensions:  256,
			BatchTokens: 200_000,
			Timeout:     60 * time.Second,
			Gemini: GeminiConfig{
				Backend: "gemini",
			},
		},
		FAQ: FAQConfig{
			SimilarityThreshold: 0.75,
			MaxMessageLength:    1000,
			Storage: StorageConfig{
				Driver: StorageFile,
				Path:   "storage/faq_entries.json",
				Postgres: PostgresConfig{
					MaxConns: 4,
				},
				Valkey: ValkeyConfig{
					Key: "faq:entries",
				},
				Object: ObjectConfig{
					Key: "faq_entries.json",
				},
			},
			Rewrite: RewriteConfig{
				Enabled:      false,
				MappingURL:   "https://raw.githubusercontent.com/fedeericodl/discord-update-classnames/refs/heads/data/classNamesMap.json",
				TTL:          15 * time.Minute,
				MaxDepth:     10,
				RetryBackoff: 30 * time.Second,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.tokenTtl must be positive")
	}
	switch c.Encoder.Provider {
	case EncoderHashing:
		if c.Encoder.Dimensions <= 0 {
			return errors.New("encoder.dimensions must be positive for the hashing encoder")
		}
	case EncoderChatGPT, EncoderOpenAI:
		if strings.TrimSpace(c.Encoder.APIKey) == "" {
			return fmt.Errorf("encoder.apiKey cannot be empty for provider %q", c.Encoder.Provider)
		}
		if strings.TrimSpace(c.Encoder.Model) == "" {
			return errors.New("encoder.model cannot be empty")
		}
		if c.Encoder.Provider == EncoderOpenAI {
			var model openai.EmbeddingModel
			if err := model.UnmarshalText([]byte(strings.TrimSpace(c.Encoder.Model))); err != nil || model == openai.Unknown {
				return fmt.Errorf("encoder.model %q is not a known openai embedding model", c.Encoder.Model)
			}
		}
	case EncoderGemini:
		if strings.TrimSpace(c.Encoder.Model) == "" {
			return errors.New("encoder.model cannot be empty")
		}
	default:
		return fmt.Errorf("encoder.provider %q is not supported", c.Encoder.Provider)
	}
	if c.FAQ.SimilarityThreshold < 0 || c.FAQ.SimilarityThreshold >= 1 {
		return errors.New("faq.similarityThreshold must be in [0, 1)")
	}
	if c.FAQ.MaxMessageLength <= 0 {
		return errors.New("faq.maxMessageLength must be positive")
	}
	if err := c.FAQ.Storage.validate(); err != nil {
		return err
	}
	if c.FAQ.Rewrite.Enabled {
		if strings.TrimSpace(c.FAQ.Rewrite.MappingURL) == "" {
			return errors.New("faq.rewrite.mappingUrl cannot be empty when rewriting is enabled")
		}
		if c.FAQ.Rewrite.MaxDepth <= 0 {
			return errors.New("faq.rewrite.maxDepth must be positive")
		}
	}
	return nil
}

func (s StorageConfig) validate() error {
	switch s.Driver {
	case StorageMemory:
	case StorageFile, StorageSQLite:
		if strings.TrimSpace(s.Path) == "" {
			return fmt.Errorf("faq.storage.path cannot be empty for driver %q", s.Driver)
		}
	case StoragePostgres:
		if strings.TrimSpace(s.Postgres.DSN) == "" {
			return errors.New("faq.storage.postgres.dsn cannot be empty")
		}
	case StorageValkey:
		if strings.TrimSpace(s.Valkey.Addr) == "" {
			return errors.New("faq.storage.valkey.addr cannot be empty")
		}
	case StorageObject:
		if strings.TrimSpace(s.Object.Endpoint) == "" || strings.TrimSpace(s.Object.Bucket) == "" {
			return errors.New("faq.storage.object endpoint and bucket are required")
		}
	default:
		return fmt.Errorf("faq.storage.driver %q is not supported", s.Driver)
	}
	return nil
}
