package config

import (
	"fmt"
	"time"

	baseconfig "taskmanager/pkg/config"
	"taskmanager/pkg/db"
)

type Config struct {
	Server  baseconfig.ServerConfig  `yaml:"server"`
	DB      baseconfig.DBConfig      `yaml:"db"`
	Log     baseconfig.LogConfig     `yaml:"log"`
	Tracing baseconfig.TracingConfig `yaml:"tracing"`
}

// Load reads config/base.yaml plus the CONFIG_ENV overlay, then applies DB_* and
// SERVER_* environment overrides.
func Load(configDir string) (*Config, error) {
	raw, err := baseconfig.LoadConfig(baseconfig.GetConfigEnv(), configDir)
	if err != nil {
		return nil, err
	}

	cfg := defaults()
	if err := baseconfig.Decode(raw, cfg); err != nil {
		return nil, err
	}

	baseconfig.OverrideDBFromEnv(&cfg.DB)
	baseconfig.OverrideServerFromEnv(&cfg.Server)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: baseconfig.ServerConfig{
			Port:            ":8080",
			BasePath:        "/TaskManager",
			ShutdownTimeout: 30 * time.Second,
		},
		DB: baseconfig.DBConfig{
			Driver: db.DriverSQLite,
			Path:   db.MemoryPath,
		},
		Log: baseconfig.LogConfig{Level: "info"},
	}
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case db.DriverPostgres, db.DriverMySQL, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	return nil
}
