// Package config defines the application configuration structures.
//
// Settings live in ~/.paischema/config.yaml. A .env file in the working
// directory is loaded first, and environment variables override values
// from the file (OLLAMA_HOST, OPENAI_API_KEY, MONGODB_URI, PG*, ...).
//
// Separated from cmd so the ai, store and db packages can depend on
// config without importing Cobra.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppDirName is the per-user directory holding config, logs and transcripts.
const AppDirName = ".paischema"

// LookupFunc resolves an environment variable.
type LookupFunc func(string) (string, bool)

// AppConfig is the top-level config file structure (~/.paischema/config.yaml).
type AppConfig struct {
	AI       AIConfig       `yaml:"ai"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Postgres PostgresConfig `yaml:"postgres"`
	Log      LogConfig      `yaml:"log"`
}

// AIConfig holds the inference provider selection.
type AIConfig struct {
	Provider string       `yaml:"provider"` // "ollama", "openai", "placeholder"
	Ollama   OllamaConfig `yaml:"ollama"`
	OpenAI   OpenAIConfig `yaml:"openai"`
	// CacheSize keeps that many answers per prompt in memory; 0 disables.
	CacheSize int `yaml:"cache_size"`
}

// OllamaConfig holds settings for the /api/generate endpoint.
type OllamaConfig struct {
	Host    string        `yaml:"host"`
	Model   string        `yaml:"model"`
	Stream  bool          `yaml:"stream"`
	Timeout time.Duration `yaml:"timeout"`
}

// OpenAIConfig holds settings for an OpenAI-compatible chat endpoint.
type OpenAIConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key,omitempty"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// MongoConfig identifies the document store used for materialization.
type MongoConfig struct {
	URI      string        `yaml:"uri"`
	Database string        `yaml:"database"`
	Timeout  time.Duration `yaml:"timeout"`
}

// PostgresConfig describes the scratch database used for DDL dry runs.
// Enabled is false by default; the check operation reports an error
// until a database is configured.
type PostgresConfig struct {
	Enabled  bool      `yaml:"enabled"`
	Host     string    `yaml:"host"`
	Port     int       `yaml:"port"`
	User     string    `yaml:"user"`
	Password string    `yaml:"password,omitempty"`
	Database string    `yaml:"database"`
	SSLMode  string    `yaml:"ssl_mode"`
	SSH      SSHConfig `yaml:"ssh"`
}

// SSHConfig holds SSH tunnel settings for the dry-run database.
type SSHConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	KeyPath        string `yaml:"key_path"`
	KeyPassphrase  string `yaml:"key_passphrase,omitempty"`
	Password       string `yaml:"password,omitempty"`
	KnownHostsPath string `yaml:"known_hosts"`
}

// LogConfig controls the application log.
type LogConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error
	File       string `yaml:"file"`  // empty = stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DSN builds a pgx-compatible connection URL.
// When an SSH tunnel is active, the caller overrides Host/Port
// with the local tunnel endpoint first.
func (c PostgresConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}
	if c.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(c.SSLMode)
	}
	return u.String()
}

// Default returns sensible defaults.
func Default() *AppConfig {
	logFile := ""
	if dir, err := AppDir(); err == nil {
		logFile = filepath.Join(dir, "logs", "app.log")
	}
	return &AppConfig{
		AI: AIConfig{
			Provider: "ollama",
			Ollama: OllamaConfig{
				Host:    "http://localhost:11434",
				Model:   "mistral",
				Stream:  true,
				Timeout: 10 * time.Minute,
			},
			OpenAI: OpenAIConfig{
				BaseURL: "https://api.openai.com",
				Model:   "gpt-4o",
				Timeout: 2 * time.Minute,
			},
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "paischema",
			Timeout:  10 * time.Second,
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Database: "postgres",
			SSLMode:  "disable",
			SSH:      SSHConfig{Port: 22},
		},
		Log: LogConfig{
			Level:      "info",
			File:       logFile,
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// AppDir returns ~/.paischema.
func AppDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, AppDirName), nil
}

// DefaultPath returns ~/.paischema/config.yaml.
func DefaultPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file at path (the default path when empty),
// loads .env and applies environment overrides. A missing file yields
// defaults.
func Load(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			cfg := Default()
			return cfg, ApplyEnv(cfg, os.LookupEnv)
		}
		path = p
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return cfg, ApplyEnv(cfg, os.LookupEnv)
}

// LoadFile reads a YAML config file on top of the defaults.
func LoadFile(path string) (*AppConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with values found through lookup.
func ApplyEnv(cfg *AppConfig, lookup LookupFunc) error {
	if lookup == nil {
		return fmt.Errorf("lookup function is required")
	}
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("PAISCHEMA_PROVIDER", &cfg.AI.Provider)
	str("OLLAMA_HOST", &cfg.AI.Ollama.Host)
	str("PAISCHEMA_MODEL", &cfg.AI.Ollama.Model)
	str("OPENAI_BASE_URL", &cfg.AI.OpenAI.BaseURL)
	str("OPENAI_API_KEY", &cfg.AI.OpenAI.APIKey)
	str("OPENAI_MODEL", &cfg.AI.OpenAI.Model)
	str("MONGODB_URI", &cfg.Mongo.URI)
	str("PAISCHEMA_MONGO_DB", &cfg.Mongo.Database)
	str("PGHOST", &cfg.Postgres.Host)
	str("PGUSER", &cfg.Postgres.User)
	str("PGPASSWORD", &cfg.Postgres.Password)
	str("PGDATABASE", &cfg.Postgres.Database)
	str("PGSSLMODE", &cfg.Postgres.SSLMode)
	str("PAISCHEMA_LOG_LEVEL", &cfg.Log.Level)
	str("PAISCHEMA_LOG_FILE", &cfg.Log.File)

	if v, ok := lookup("PAISCHEMA_STREAM"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("PAISCHEMA_STREAM: %w", err)
		}
		cfg.AI.Ollama.Stream = b
	}
	if v, ok := lookup("PAISCHEMA_CACHE_SIZE"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("PAISCHEMA_CACHE_SIZE: %w", err)
		}
		cfg.AI.CacheSize = n
	}
	if v, ok := lookup("PGPORT"); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("PGPORT: %w", err)
		}
		cfg.Postgres.Port = port
		cfg.Postgres.Enabled = true
	}
	if _, ok := lookup("PGHOST"); ok {
		cfg.Postgres.Enabled = true
	}
	return nil
}

// Save writes the config to path, creating the directory when needed.
func Save(cfg *AppConfig, path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
