package config

import (
	"encoding/json"
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Config represents the configuration for the peerscope dashboard. Durations
// are expressed in whole seconds (milliseconds for jitter) to keep the JSON
// plain.
type Config struct {
	// Default config file location
	configFile string

	// Source is the rendezvous node publishing the peer list
	Source struct {
		URL            string `json:"url"`
		TimeoutSeconds int    `json:"timeout_seconds"`
	} `json:"source"`

	// Geo is the external geolocation service
	Geo struct {
		URL            string `json:"url"`
		TimeoutSeconds int    `json:"timeout_seconds"`
	} `json:"geo"`

	Poll struct {
		IntervalSeconds int `json:"interval_seconds"`
		JitterMillis    int `json:"jitter_millis"`
	} `json:"poll"`

	Web struct {
		ListenAddress string `json:"listen"`
		StaticDir     string `json:"static"`
	} `json:"web"`

	Log struct {
		Level string `json:"level"`
	} `json:"log"`
}

// NewEmptyConfig generates a new configuration with default settings
func NewEmptyConfig(configFile string) *Config {
	cfg := &Config{}

	cfg.configFile = configFile

	cfg.Source.URL = "http://127.0.0.1:8080"
	cfg.Source.TimeoutSeconds = 5
	cfg.Geo.URL = "https://ipapi.co"
	cfg.Geo.TimeoutSeconds = 10
	cfg.Poll.IntervalSeconds = 5
	cfg.Poll.JitterMillis = 0
	cfg.Web.ListenAddress = "127.0.0.1:9090"
	cfg.Web.StaticDir = "dist"
	cfg.Log.Level = "info"

	return cfg
}

func NewConfigFromFile(configFile string) (*Config, error) {
	cfg := NewEmptyConfig(configFile)
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file this configuration was loaded from.
func (c *Config) Path() string {
	return c.configFile
}

// Save saves the configuration to a file
func (c *Config) Save() error {
	log.Infof("Saving config to %s", c.configFile)

	// We'll marshall our structure to JSON and write it into a file
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.configFile, data, 0644)
}

func (c *Config) Load() error {
	log.Infof("Loading config from %s", c.configFile)
	data, err := os.ReadFile(c.configFile)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, c); err != nil {
		return err
	}

	return nil
}
