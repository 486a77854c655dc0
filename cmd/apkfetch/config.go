package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/apkfetch/apkfetch/fetch"
)

// Config defines configuration for the apkfetch CLI.
type Config struct {
	URL          string        `validate:"required"`
	Timeout      time.Duration `validate:"gte=0"`
	MaxRedirects int           `validate:"gte=0"`
	UserAgent    string
	Progress     bool
	Throttle     ThrottleConfig
	Archive      ArchiveConfig
}

// ThrottleConfig defines outbound rate limiting. Zero disables it.
type ThrottleConfig struct {
	RPS   int `validate:"gte=0"`
	Burst int `validate:"gte=0"`
}

// ArchiveConfig defines the optional post-fetch archive step.
// Bucket is a gocloud.dev bucket URL; Key defaults to the artifact
// file name when empty.
type ArchiveConfig struct {
	Bucket string
	Key    string
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Timeout:      30 * time.Second,
		MaxRedirects: fetch.DefaultMaxRedirects,
	}
}

// yamlConfig is used for YAML unmarshaling with string durations.
type yamlConfig struct {
	URL          string `yaml:"url"`
	Timeout      string `yaml:"timeout"`
	MaxRedirects *int   `yaml:"max_redirects"`
	UserAgent    string `yaml:"user_agent"`
	Progress     bool   `yaml:"progress"`
	Throttle     struct {
		RPS   int `yaml:"rps"`
		Burst int `yaml:"burst"`
	} `yaml:"throttle"`
	Archive struct {
		Bucket string `yaml:"bucket"`
		Key    string `yaml:"key"`
	} `yaml:"archive"`
}

// LoadFromFile loads configuration from a YAML file over defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.URL != "" {
		cfg.URL = yc.URL
	}
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if yc.MaxRedirects != nil {
		cfg.MaxRedirects = *yc.MaxRedirects
	}
	cfg.UserAgent = yc.UserAgent
	cfg.Progress = yc.Progress
	cfg.Throttle.RPS = yc.Throttle.RPS
	cfg.Throttle.Burst = yc.Throttle.Burst
	cfg.Archive.Bucket = yc.Archive.Bucket
	cfg.Archive.Key = yc.Archive.Key

	return cfg, nil
}

// Options translates the config into fetcher options.
func (c Config) Options() []fetch.Option {
	opts := []fetch.Option{
		fetch.WithTimeout(c.Timeout),
		fetch.WithMaxRedirects(c.MaxRedirects),
	}

	if c.UserAgent != "" {
		opts = append(opts, fetch.WithUserAgent(c.UserAgent))
	}
	if c.Progress {
		opts = append(opts, fetch.WithProgress())
	}
	if c.Throttle.RPS > 0 && c.Throttle.Burst > 0 {
		opts = append(opts, fetch.WithThrottle(c.Throttle.RPS, c.Throttle.Burst))
	}

	return opts
}
