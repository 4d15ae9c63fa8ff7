// Package config loads the daemon configuration from a YAML file with
// environment-variable overrides on top.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Decay  DecayConfig  `yaml:"decay"`
	Games  GamesConfig  `yaml:"games"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type StoreConfig struct {
	Engine string `yaml:"engine"` // "sqlite" or "json"
	Path   string `yaml:"path"`
}

type DecayConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type GamesConfig struct {
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// Load reads path if it exists, layers env vars over it, and validates.
// A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if env := os.Getenv("BOOKPETD_ADDR"); env != "" {
		cfg.Server.Addr = env
	}
	if env := os.Getenv("BOOKPETD_STORE_ENGINE"); env != "" {
		cfg.Store.Engine = env
	}
	if env := os.Getenv("BOOKPETD_STORE_PATH"); env != "" {
		cfg.Store.Path = env
	}
	if env := os.Getenv("BOOKPETD_DECAY_INTERVAL"); env != "" {
		d, err := time.ParseDuration(env)
		if err != nil {
			return nil, fmt.Errorf("parsing BOOKPETD_DECAY_INTERVAL: %w", err)
		}
		cfg.Decay.Interval = d
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Store: StoreConfig{
			Engine: "sqlite",
			Path:   "bookpet.db",
		},
		Decay: DecayConfig{
			Interval: 15 * time.Minute,
		},
		Games: GamesConfig{
			SweepInterval: time.Hour,
		},
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if cfg.Store.Engine != "sqlite" && cfg.Store.Engine != "json" {
		return fmt.Errorf("store.engine must be %q or %q, got %q", "sqlite", "json", cfg.Store.Engine)
	}
	if cfg.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if cfg.Decay.Interval <= 0 {
		return fmt.Errorf("decay.interval must be positive")
	}
	if cfg.Games.SweepInterval <= 0 {
		return fmt.Errorf("games.sweep_interval must be positive")
	}
	return nil
}
