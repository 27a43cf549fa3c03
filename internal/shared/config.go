package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// APIKeyEnvVars lists the environment variables consulted for the classifier credential, in priority order.
var APIKeyEnvVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Classifier ClassifierConfig `toml:"classifier"`
	Queue      QueueConfig      `toml:"queue"`
	Export     ExportConfig     `toml:"export"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
}

// ClassifierConfig contains settings for the generative AI classifier.
type ClassifierConfig struct {
	APIKey            string  `toml:"api_key"`
	Model             string  `toml:"model"`
	BaseURL           string  `toml:"base_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

// QueueConfig contains queue processor settings.
type QueueConfig struct {
	IntervalMS int `toml:"interval_ms"`
}

// ExportConfig contains spreadsheet export settings.
type ExportConfig struct {
	Path  string `toml:"path"`
	Sheet string `toml:"sheet"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Interval returns the pacing interval between classifications.
func (q QueueConfig) Interval() time.Duration {
	return time.Duration(q.IntervalMS) * time.Millisecond
}

// Timeout returns the per-request timeout, zero meaning the transport default.
func (c ClassifierConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides the classifier credential from the first non-empty variable in [APIKeyEnvVars].
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, name := range APIKeyEnvVars {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			c.Classifier.APIKey = v
			return
		}
	}
}

// Validate checks values that would make the queue or classifier misbehave.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Classifier.Model) == "":
		return fmt.Errorf("%w: classifier.model is empty", ErrInvalidConfig)
	case c.Classifier.RequestsPerSecond < 0:
		return fmt.Errorf("%w: classifier.requests_per_second must not be negative", ErrInvalidConfig)
	case c.Classifier.TimeoutSeconds < 0:
		return fmt.Errorf("%w: classifier.timeout_seconds must not be negative", ErrInvalidConfig)
	case c.Queue.IntervalMS < 0:
		return fmt.Errorf("%w: queue.interval_ms must not be negative", ErrInvalidConfig)
	case c.Server.Port < 0 || c.Server.Port > 65535:
		return fmt.Errorf("%w: server.port out of range", ErrInvalidConfig)
	}
	return nil
}
