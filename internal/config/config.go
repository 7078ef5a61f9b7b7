package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Server struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		Env         string   `yaml:"env"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Database DatabaseConfig `yaml:"database"`

	Storage struct {
		Type     string `yaml:"type"`      // postgres, memory
		// SeedPath is a YAML fixture. The memory store is built from it; with
		// postgres it is loaded only into empty tables.
		SeedPath string `yaml:"seed_path"`
	} `yaml:"storage"`

	Search struct {
		DefaultLimit     int           `yaml:"default_limit"`
		MaxLimit         int           `yaml:"max_limit"`
		Timeout          time.Duration `yaml:"timeout"`
		LiveDefaultLimit int           `yaml:"live_default_limit"`
		LiveMaxLimit     int           `yaml:"live_max_limit"`
	} `yaml:"search"`
}

type DatabaseConfig struct {
	DSN          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	AutoMigrate  bool   `yaml:"auto_migrate"`
}

var AppConfig *Config

// LoadConfig reads CONFIG_PATH (default config/config.yaml) when present,
// applies environment overrides and defaults, and stores the result in
// AppConfig.
func LoadConfig() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

// Load builds a Config from the YAML file at path. A missing file is not an
// error; the environment and defaults still apply.
func Load(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("open config file %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SERVER_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("SEED_PATH"); v != "" {
		cfg.Storage.SeedPath = v
	}
	if v := os.Getenv("SEARCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SEARCH_TIMEOUT: %w", err)
		}
		cfg.Search.Timeout = d
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 20
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = StoragePostgres
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.Timeout == 0 {
		cfg.Search.Timeout = 5 * time.Second
	}
	if cfg.Search.LiveDefaultLimit == 0 {
		cfg.Search.LiveDefaultLimit = 8
	}
	if cfg.Search.LiveMaxLimit == 0 {
		cfg.Search.LiveMaxLimit = 20
	}
}

// Validate checks that the configuration can start a server.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StoragePostgres:
		if c.Database.DSN == "" {
			return errors.New("database url is required for postgres storage (set DATABASE_URL)")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("storage type must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage.Type)
	}

	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search default_limit (%d) exceeds max_limit (%d)", c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	if c.Search.LiveDefaultLimit > c.Search.LiveMaxLimit {
		return fmt.Errorf("search live_default_limit (%d) exceeds live_max_limit (%d)", c.Search.LiveDefaultLimit, c.Search.LiveMaxLimit)
	}
	if c.Search.Timeout < 0 {
		return errors.New("search timeout must not be negative")
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Server.Env == "development"
}

// GetConfig returns AppConfig, loading it on first use.
func GetConfig() (*Config, error) {
	if AppConfig == nil {
		if err := LoadConfig(); err != nil {
			return nil, err
		}
	}
	return AppConfig, nil
}
