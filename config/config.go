// Package config loads the service settings from a JSON or YAML file and
// the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file tried when -config is not given.
const DefaultPath = "config/config.json"

// APIKeyEnv holds the completion API key. It is read for every provider,
// including openai and custom endpoints.
const APIKeyEnv = "GROQ_API_KEY"

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderCustom = "custom"
	ProviderMock   = "mock"

	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config is the full service configuration.
type Config struct {
	ServerAddr  string        `json:"server_addr" yaml:"server_addr"`
	LogLevel    string        `json:"log_level" yaml:"log_level"`
	CORSOrigins []string      `json:"cors_origins" yaml:"cors_origins"`
	LLM         LLMConfig     `json:"llm" yaml:"llm"`
	History     HistoryConfig `json:"history" yaml:"history"`

	// APIKey comes from GROQ_API_KEY only.
	APIKey string `json:"-" yaml:"-"`
}

// LLMConfig selects the completion provider and models.
type LLMConfig struct {
	Provider     string `json:"provider" yaml:"provider"`
	BaseURL      string `json:"base_url" yaml:"base_url"`
	QualityModel string `json:"quality_model" yaml:"quality_model"`
	FastModel    string `json:"fast_model" yaml:"fast_model"`
	MaxTokens    int    `json:"max_tokens" yaml:"max_tokens"`
}

// HistoryConfig selects where session history lives.
type HistoryConfig struct {
	Backend       string `json:"backend" yaml:"backend"`
	RedisAddr     string `json:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `json:"redis_password" yaml:"redis_password"`
	RedisDB       int    `json:"redis_db" yaml:"redis_db"`
	SessionTTL    string `json:"session_ttl" yaml:"session_ttl"`
	Shown         int    `json:"shown" yaml:"shown"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		ServerAddr: ":8080",
		LogLevel:   "info",
		LLM: LLMConfig{
			Provider:     ProviderGroq,
			QualityModel: "llama-3.3-70b-versatile",
			FastModel:    "llama-3.1-8b-instant",
			MaxTokens:    800,
		},
		History: HistoryConfig{
			Backend:    BackendMemory,
			RedisAddr:  "localhost:6379",
			SessionTTL: "24h",
			Shown:      5,
		},
	}
}

// Load reads .env (if any), then the config file at path. A missing file
// is only tolerated at DefaultPath. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := decode(path, data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.APIKey = os.Getenv(APIKeyEnv)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.ServerAddr == "" {
		c.ServerAddr = d.ServerAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = d.LLM.Provider
	}
	if c.LLM.QualityModel == "" {
		c.LLM.QualityModel = d.LLM.QualityModel
	}
	if c.LLM.FastModel == "" {
		c.LLM.FastModel = d.LLM.FastModel
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = d.LLM.MaxTokens
	}
	if c.History.Backend == "" {
		c.History.Backend = d.History.Backend
	}
	if c.History.SessionTTL == "" {
		c.History.SessionTTL = d.History.SessionTTL
	}
	if c.History.Shown <= 0 {
		c.History.Shown = d.History.Shown
	}
}

// Validate checks enum fields and the session TTL.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderMock:
	case ProviderCustom:
		if c.LLM.BaseURL == "" {
			return errors.New("llm provider custom requires base_url (OpenAI-compatible endpoint)")
		}
	default:
		return fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}
	switch c.History.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("history backend %s not supported", c.History.Backend)
	}
	if _, err := c.SessionTTL(); err != nil {
		return err
	}
	return nil
}

// SessionTTL parses history.session_ttl.
func (c Config) SessionTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.History.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("history.session_ttl: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("history.session_ttl must not be negative")
	}
	return d, nil
}

// Models lists the selectable model ids, quality first.
func (c Config) Models() []string {
	if c.LLM.FastModel == c.LLM.QualityModel {
		return []string{c.LLM.QualityModel}
	}
	return []string{c.LLM.QualityModel, c.LLM.FastModel}
}
