package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Host string `yaml:"host" json:"host"`
		Port int    `yaml:"port" json:"port"`
	} `yaml:"app" json:"app"`

	Listing struct {
		PageSize       int    `yaml:"page_size" json:"page_size"`
		DefaultSort    string `yaml:"default_sort" json:"default_sort"`
		ViewTTLSeconds int    `yaml:"view_ttl_seconds" json:"view_ttl_seconds"`
		SweepSeconds   int    `yaml:"sweep_seconds" json:"sweep_seconds"`
	} `yaml:"listing" json:"listing"`

	Security struct {
		KeyringAccount string  `yaml:"keyring_account" json:"keyring_account"`
		RatePerSecond  float64 `yaml:"rate_per_second" json:"rate_per_second"`
		RateBurst      int     `yaml:"rate_burst" json:"rate_burst"`
	} `yaml:"security" json:"security"`

	Seed struct {
		File string `yaml:"file" json:"file"`
	} `yaml:"seed" json:"seed"`

	Log struct {
		Level string `yaml:"level" json:"level"`
	} `yaml:"log" json:"log"`
}

// Defaults is the configuration written on first start when no default
// file ships alongside the binary.
func Defaults() Config {
	var c Config
	c.App.Host = "127.0.0.1"
	c.App.Port = 38471
	c.Listing.PageSize = 12
	c.Listing.DefaultSort = "posted_desc"
	c.Listing.ViewTTLSeconds = 1800
	c.Listing.SweepSeconds = 60
	c.Security.KeyringAccount = "recruit:csrf"
	c.Security.RatePerSecond = 5
	c.Security.RateBurst = 10
	c.Log.Level = "info"
	return c
}

// Load reads path over Defaults, so keys missing from the file keep their default.
func Load(path string) (Config, error) {
	cfg := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c Config) ViewTTL() time.Duration {
	return time.Duration(c.Listing.ViewTTLSeconds) * time.Second
}

func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.Listing.SweepSeconds) * time.Second
}
