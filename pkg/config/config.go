package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/tinyland-inc/clawreply/pkg/logger"
)

const (
	EnvSupabaseURL        = "SUPABASE_URL"
	EnvSupabaseServiceKey = "SUPABASE_SERVICE_KEY"
	EnvOpenClawHome       = "OPENCLAW_HOME"
)

const (
	DefaultSender          = "Beast"
	DefaultSessionKey      = "default"
	DefaultCreatedAt       = "now()"
	DefaultTable           = "messages"
	DefaultMaxContentChars = 10000
	DefaultTimeoutSeconds  = 10
)

// Source records where a credential value was resolved from.
type Source string

const (
	SourceUnset    Source = "unset"
	SourceEnv      Source = "env"
	SourceEnvFile  Source = "env-file"
	SourceFallback Source = "fallback"
)

type Config struct {
	Supabase SupabaseConfig `json:"supabase"`
	Reply    ReplyConfig    `json:"reply"`
	Log      LogConfig      `json:"log"`

	// Sources is filled by Load and is never read from the environment.
	Sources Sources `json:"-"`
}

type SupabaseConfig struct {
	URL        string `env:"SUPABASE_URL"         json:"url"`
	ServiceKey string `env:"SUPABASE_SERVICE_KEY" json:"-"`
}

// Complete reports whether both credentials are present.
func (s SupabaseConfig) Complete() bool {
	return s.URL != "" && s.ServiceKey != ""
}

type ReplyConfig struct {
	Sender          string `env:"CLAWREPLY_SENDER"            json:"sender"`
	SessionKey      string `env:"CLAWREPLY_SESSION_KEY"       json:"session_key"`
	CreatedAt       string `env:"CLAWREPLY_CREATED_AT"        json:"created_at"` // sent verbatim; empty omits the field
	Table           string `env:"CLAWREPLY_TABLE"             json:"table"`
	MaxContentChars int    `env:"CLAWREPLY_MAX_CONTENT_CHARS" json:"max_content_chars"`
	TimeoutSeconds  int    `env:"CLAWREPLY_TIMEOUT_SECONDS"   json:"timeout_seconds"`
}

// Timeout returns the per-request timeout.
func (r ReplyConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

type LogConfig struct {
	Level string `env:"CLAWREPLY_LOG_LEVEL" json:"level"`
}

type Sources struct {
	URL        Source
	ServiceKey Source
}

// LoadOptions controls where Load looks for credentials beyond the environment.
type LoadOptions struct {
	// EnvFile is an optional dotenv file named explicitly by the user.
	EnvFile string
	// FallbackPath overrides FallbackEnvPath.
	FallbackPath string
}

func DefaultConfig() *Config {
	return &Config{
		Reply: ReplyConfig{
			Sender:          DefaultSender,
			SessionKey:      DefaultSessionKey,
			CreatedAt:       DefaultCreatedAt,
			Table:           DefaultTable,
			MaxContentChars: DefaultMaxContentChars,
			TimeoutSeconds:  DefaultTimeoutSeconds,
		},
		Log: LogConfig{Level: "info"},
		Sources: Sources{
			URL:        SourceUnset,
			ServiceKey: SourceUnset,
		},
	}
}

// FallbackEnvPath returns the per-user KEY=VALUE file consulted when the
// environment does not carry the Supabase credentials.
func FallbackEnvPath() string {
	dir := os.Getenv(EnvOpenClawHome)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".openclaw")
	}
	return filepath.Join(dir, ".env")
}

// Load builds the process configuration. Environment values win; an
// explicit env file and then the fallback file only fill credentials that
// are still empty.
func Load(opts LoadOptions) (*Config, error) {
	cfg := DefaultConfig()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.Supabase.URL != "" {
		cfg.Sources.URL = SourceEnv
	}
	if cfg.Supabase.ServiceKey != "" {
		cfg.Sources.ServiceKey = SourceEnv
	}

	if opts.EnvFile != "" && !cfg.Supabase.Complete() {
		values, err := godotenv.Read(opts.EnvFile)
		if err != nil {
			return nil, fmt.Errorf("reading env file %s: %w", opts.EnvFile, err)
		}
		cfg.applyCredentials(values, SourceEnvFile)
	}

	if !cfg.Supabase.Complete() {
		path := opts.FallbackPath
		if path == "" {
			path = FallbackEnvPath()
		}
		values, err := ReadEnvFile(path)
		if err != nil {
			return nil, err
		}
		cfg.applyCredentials(values, SourceFallback)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.DebugCF("config", "Configuration loaded", map[string]any{
		"url_source": cfg.Sources.URL,
		"key_source": cfg.Sources.ServiceKey,
		"table":      cfg.Reply.Table,
	})

	return cfg, nil
}

func (c *Config) applyCredentials(values map[string]string, src Source) {
	if c.Supabase.URL == "" {
		if v := values[EnvSupabaseURL]; v != "" {
			c.Supabase.URL = v
			c.Sources.URL = src
		}
	}
	if c.Supabase.ServiceKey == "" {
		if v := values[EnvSupabaseServiceKey]; v != "" {
			c.Supabase.ServiceKey = v
			c.Sources.ServiceKey = src
		}
	}
}

// Validate checks the reply settings. Missing credentials are not a
// validation error; the poster reports them at submit time.
func (c *Config) Validate() error {
	if c.Reply.Table == "" {
		return errors.New("reply table is required")
	}
	if c.Reply.MaxContentChars <= 0 {
		return fmt.Errorf("max content chars must be positive, got %d", c.Reply.MaxContentChars)
	}
	if c.Reply.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout seconds must be positive, got %d", c.Reply.TimeoutSeconds)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// MaskKey hides all but the edges of a secret for display.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 12 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}
