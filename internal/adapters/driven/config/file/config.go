// Package file provides file-based configuration using TOML.
// Configuration lives in ~/.paperchat/config.toml; API keys may come
// from the environment instead, which takes precedence over the file.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override the config file.
const (
	EnvOpenAIAPIKey   = "OPENAI_API_KEY"
	EnvPineconeAPIKey = "PINECONE_API_KEY"
)

// Default configuration values.
const (
	DefaultTopK       = 5
	DefaultServerAddr = ":8080"
)

// Config is the application configuration.
type Config struct {
	OpenAI   OpenAIConfig   `toml:"openai"`
	Pinecone PineconeConfig `toml:"pinecone"`
	Corpora  CorporaConfig  `toml:"corpora"`
	Data     DataConfig     `toml:"data"`
	Chat     ChatConfig     `toml:"chat"`
	Server   ServerConfig   `toml:"server"`
}

// OpenAIConfig configures the embedding and chat providers.
type OpenAIConfig struct {
	APIKey         string `toml:"api_key" validate:"required"`
	BaseURL        string `toml:"base_url" validate:"omitempty,url"`
	EmbeddingModel string `toml:"embedding_model"`
	ChatModel      string `toml:"chat_model"`
}

// PineconeConfig configures the vector index provider.
type PineconeConfig struct {
	APIKey          string `toml:"api_key" validate:"required"`
	ControlPlaneURL string `toml:"control_plane_url" validate:"omitempty,url"`
	Cloud           string `toml:"cloud"`
	Region          string `toml:"region"`
}

// CorporaConfig locates the corpus directories on disk.
type CorporaConfig struct {
	Dir string `toml:"dir"`
}

// DataConfig locates the registry database.
type DataConfig struct {
	Dir string `toml:"dir"`
}

// ChatConfig tunes retrieval.
type ChatConfig struct {
	TopK int `toml:"top_k" validate:"min=1,max=100"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr" validate:"required"`
}

// DefaultConfigDir returns ~/.paperchat.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".paperchat"), nil
}

// Load reads config.toml from configDir, applies defaults and
// environment overrides, and validates the result. A missing file is
// fine as long as the environment supplies the API keys. If configDir
// is empty, defaults to ~/.paperchat.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	cfg := &Config{}

	path := filepath.Join(configDir, "config.toml")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// No config file yet, rely on defaults and the environment.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyDefaults fills zero values with the built-in defaults.
func (c *Config) applyDefaults() {
	if c.Chat.TopK == 0 {
		c.Chat.TopK = DefaultTopK
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	if key := os.Getenv(EnvOpenAIAPIKey); key != "" {
		c.OpenAI.APIKey = key
	}
	if key := os.Getenv(EnvPineconeAPIKey); key != "" {
		c.Pinecone.APIKey = key
	}
}

// Save writes the configuration to config.toml in configDir with
// restricted permissions.
func (c *Config) Save(configDir string) error {
	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
