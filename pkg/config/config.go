package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"chat_cli/api"
)

// Config represents the application configuration
type Config struct {
	BaseURL           string `json:"base_url"`
	APIKey            string `json:"api_key"`
	Model             string `json:"model"`
	SystemPrompt      string `json:"system_prompt"`
	APITimeoutSeconds int    `json:"api_timeout_seconds"`
	LogLevel          string `json:"log_level"`
	LogFile           string `json:"log_file"`
	LogFormat         string `json:"log_format"`
}

// Default returns a configuration with default values. The base URL points
// at a local proxy; model stays empty so the server picks its default.
func Default() Config {
	return Config{
		BaseURL:           api.DefaultBaseURL,
		APIKey:            "",
		Model:             "",
		APITimeoutSeconds: 120,
		LogLevel:          "info",
		LogFormat:         "json",
	}
}

// GetConfigPath returns the path to the configuration file
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".chat_cli", "config.json")
	}
	return filepath.Join(homeDir, ".chat_cli", "config.json")
}

// Load loads configuration from the specified path, creating a default file
// when none exists, then applies environment overrides.
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	var cfg Config
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
		cfg = Default()
		if err := Save(configPath, cfg); err != nil {
			return Config{}, fmt.Errorf("failed to create default config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if baseURL := os.Getenv("CHAT_CLI_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if apiKey := os.Getenv("CHAT_CLI_API_KEY"); apiKey != "" {
		cfg.APIKey = apiKey
	}
	if model := os.Getenv("CHAT_CLI_MODEL"); model != "" {
		cfg.Model = model
	}
	if prompt := os.Getenv("CHAT_CLI_SYSTEM_PROMPT"); prompt != "" {
		cfg.SystemPrompt = prompt
	}
	if logLevel := os.Getenv("CHAT_CLI_LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if timeoutStr := os.Getenv("CHAT_CLI_API_TIMEOUT"); timeoutStr != "" {
		if timeout, err := strconv.Atoi(timeoutStr); err == nil {
			cfg.APITimeoutSeconds = timeout
		}
	}
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required (set in config file or CHAT_CLI_BASE_URL)")
	}
	if c.APITimeoutSeconds <= 0 {
		return fmt.Errorf("api_timeout_seconds must be positive, got: %d", c.APITimeoutSeconds)
	}
	return nil
}
