package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"booklog-backend/domain/core/entities"
	"booklog-backend/domain/layout"

	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	StoreSupabase = "supabase"
	StoreSQLite   = "sqlite"
)

const devJWTSecret = "booklog-development-secret"

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`
	LogLevel      string `yaml:"log_level"`

	// Path of the YAML file the config was layered from, empty when none
	File string `yaml:"-"`

	Store       StoreConfig       `yaml:"store"`
	Supabase    SupabaseConfig    `yaml:"supabase"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	GoogleBooks GoogleBooksConfig `yaml:"google_books"`
	Auth        AuthConfig        `yaml:"auth"`
	Tracing     TracingConfig     `yaml:"tracing"`

	// Family fixes the profiles and their display order
	Family       []string          `yaml:"family"`
	MemberColors map[string]string `yaml:"member_colors"`

	Layout layout.Params `yaml:"layout"`
	// StopWords replaces the built-in keyword stop-word list when set
	StopWords []string `yaml:"stop_words"`

	// Lambda configuration
	IsLambda bool `yaml:"is_lambda"`

	// Feature flags
	EnableMetrics  bool     `yaml:"enable_metrics"`
	EnableCORS     bool     `yaml:"enable_cors"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StoreConfig selects the persistence adapter
type StoreConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
}

// SupabaseConfig points at the hosted database and edge functions
type SupabaseConfig struct {
	URL                 string `yaml:"url"`
	AnonKey             string `yaml:"anon_key"`
	ProcessBookFunction string `yaml:"process_book_function"`
}

// GeminiConfig configures keyword extraction. The key never leaves the server.
type GeminiConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// GoogleBooksConfig configures cover search
type GoogleBooksConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// AuthConfig configures session tokens
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	JWTIssuer string        `yaml:"jwt_issuer"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// TracingConfig configures the OTLP exporter
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	ServiceName string  `yaml:"service_name"`
	SampleRate  float64 `yaml:"sample_rate"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		ServerAddress: ":8080",
		Environment:   "development",
		LogLevel:      "info",
		Store: StoreConfig{
			Driver:     StoreSQLite,
			SQLitePath: "booklog.db",
		},
		Supabase: SupabaseConfig{
			ProcessBookFunction: "process-book",
		},
		Gemini: GeminiConfig{
			Model:   "gemini-1.5-flash",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Timeout: 15 * time.Second,
		},
		GoogleBooks: GoogleBooksConfig{
			BaseURL: "https://www.googleapis.com/books/v1",
			Timeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			JWTIssuer: "booklog",
			TokenTTL:  7 * 24 * time.Hour,
		},
		Tracing: TracingConfig{
			Endpoint:    "localhost:4317",
			ServiceName: "booklog-backend",
			SampleRate:  1,
		},
		Family: append([]string(nil), entities.DefaultFamily...),
		MemberColors: map[string]string{
			"아빠": "#4a90e2",
			"엄마": "#e91e63",
			"찬민": "#2ecc71",
			"재민": "#f39c12",
		},
		Layout:        layout.DefaultParams(),
		EnableMetrics: true,
		EnableCORS:    true,
	}
}

// LoadConfig layers defaults, the YAML file named by BOOKLOG_CONFIG and environment variables
func LoadConfig() (*Config, error) {
	return LoadFile(os.Getenv("BOOKLOG_CONFIG"))
}

// LoadFile is LoadConfig with an explicit file path. An empty path skips the file layer.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
		cfg.File = path
	}
	cfg.applyEnv()
	cfg.Layout = cfg.Layout.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Store.SQLitePath = getEnv("SQLITE_PATH", c.Store.SQLitePath)

	c.Supabase.URL = getEnv("SUPABASE_URL", c.Supabase.URL)
	c.Supabase.AnonKey = getEnv("SUPABASE_ANON_KEY", c.Supabase.AnonKey)

	c.Gemini.APIKey = getEnv("GEMINI_API_KEY", c.Gemini.APIKey)
	c.Gemini.Model = getEnv("GEMINI_MODEL", c.Gemini.Model)
	c.GoogleBooks.APIKey = getEnv("GOOGLE_BOOKS_API_KEY", c.GoogleBooks.APIKey)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.JWTIssuer = getEnv("JWT_ISSUER", c.Auth.JWTIssuer)
	c.Auth.TokenTTL = getEnvDuration("TOKEN_TTL", c.Auth.TokenTTL)

	c.Tracing.Enabled = getEnvBool("ENABLE_TRACING", c.Tracing.Enabled)
	c.Tracing.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Tracing.Endpoint)

	c.IsLambda = getEnvBool("IS_LAMBDA", c.IsLambda || os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "")
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
	if family := os.Getenv("FAMILY"); family != "" {
		c.Family = splitList(family)
	}

	if c.Auth.JWTSecret == "" && !c.IsProduction() {
		c.Auth.JWTSecret = devJWTSecret
	}
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case StoreSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite store"))
		}
	case StoreSupabase:
		if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
			errs = append(errs, errors.New("SUPABASE_URL and SUPABASE_ANON_KEY are required for the supabase store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}

	if c.IsProduction() && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == devJWTSecret) {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}
	if len(c.Family) == 0 {
		errs = append(errs, errors.New("at least one family member is required"))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, errors.New("tracing sample rate must be between 0 and 1"))
	}

	return errors.Join(errs...)
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
