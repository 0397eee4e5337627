package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all neverforget configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Tasks  TasksConfig  `yaml:"tasks"`
}

type ServerConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

type TasksConfig struct {
	TopCount int `yaml:"top_count"` // default size of the top-priority view
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 38444,
		},
		Log: LogConfig{
			Level: "info",
		},
		Tasks: TasksConfig{
			TopCount: 3,
		},
	}
}

// Load reads YAML config from path (skipped when path is empty or the file
// does not exist) and applies environment overrides on top of defaults.
// Recognized env vars: NEVERFORGET_BIND, NEVERFORGET_PORT, NEVERFORGET_LOG_LEVEL.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if bind := os.Getenv("NEVERFORGET_BIND"); bind != "" {
		cfg.Server.Bind = bind
	}
	if port := os.Getenv("NEVERFORGET_PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return cfg, fmt.Errorf("parse NEVERFORGET_PORT %q: %w", port, err)
		}
		cfg.Server.Port = n
	}
	if level := os.Getenv("NEVERFORGET_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if cfg.Tasks.TopCount <= 0 {
		cfg.Tasks.TopCount = 3
	}
	return cfg, nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
