package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/CTAG07/wordchain/pkg/markov"
)

// ServerConfig holds the configuration for the HTTP server and storage.
type ServerConfig struct {
	ApiAddr            string   `json:"api_addr"`
	LogLevel           string   `json:"log_level"`
	DataDir            string   `json:"data_dir"`
	CorpusDatabasePath string   `json:"corpus_database_path"`
	SeedFiles          []string `json:"seed_files"` // imported into the corpus on startup
}

// GeneratorConfig holds settings for training and text generation.
type GeneratorConfig struct {
	DefaultLength int    `json:"default_length"`
	MaxLength     int    `json:"max_length"`
	RandomSeed    uint64 `json:"random_seed"` // 0 picks a new seed on every start
	TrainOnChange bool   `json:"train_on_change"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Server    *ServerConfig    `json:"server_config"`
	Generator *GeneratorConfig `json:"generator_config"`
}

// DefaultServerConfig creates a server configuration with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ApiAddr:            ":7280",
		LogLevel:           "info",
		DataDir:            "./data",
		CorpusDatabasePath: "./data/wordchain_corpus.db?_journal_mode=WAL&_busy_timeout=5000",
		SeedFiles:          []string{},
	}
}

// DefaultGeneratorConfig creates a generator configuration with default values.
func DefaultGeneratorConfig() *GeneratorConfig {
	return &GeneratorConfig{
		DefaultLength: markov.DefaultLength,
		MaxLength:     1000,
		RandomSeed:    0,
		TrainOnChange: true,
	}
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	if c.Server == nil || c.Generator == nil {
		return errors.New("server_config and generator_config are required")
	}
	if c.Server.ApiAddr == "" {
		return errors.New("api_addr must not be empty")
	}
	if c.Generator.MaxLength <= 0 {
		return fmt.Errorf("max_length must be positive, got %d", c.Generator.MaxLength)
	}
	if c.Generator.DefaultLength < 0 || c.Generator.DefaultLength > c.Generator.MaxLength {
		return fmt.Errorf("default_length must be between 0 and max_length (%d), got %d", c.Generator.MaxLength, c.Generator.DefaultLength)
	}
	return nil
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := &Config{
		Server:    DefaultServerConfig(),
		Generator: DefaultGeneratorConfig(),
	}

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The server can still run with defaults.
				fmt.Printf("warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// ConfigManager handles thread-safe access to the configuration.
type ConfigManager struct {
	config     *Config
	mu         sync.RWMutex
	configPath string
}

// NewConfigManager loads the config and initializes the manager.
func NewConfigManager(path string) (*ConfigManager, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return &ConfigManager{config: cfg, configPath: path}, nil
}

// Get returns a copy of the current configuration.
func (cm *ConfigManager) Get() Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	server := *cm.config.Server
	server.SeedFiles = append([]string(nil), cm.config.Server.SeedFiles...)
	generator := *cm.config.Generator
	return Config{Server: &server, Generator: &generator}
}

// Update validates the configuration, saves it to disk and makes it current.
// An invalid configuration is rejected and the current one is kept.
func (cm *ConfigManager) Update(newConfig Config) error {
	if err := newConfig.Validate(); err != nil {
		return err
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	data, err := json.MarshalIndent(newConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err = atomic.WriteFile(cm.configPath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	cm.config = &newConfig
	return nil
}
