package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the persistent application configuration
type Config struct {
	API  APIConfig  `json:"api"`
	User UserConfig `json:"user"`
	UI   UIConfig   `json:"ui"`
}

// APIConfig holds backend connection settings
type APIConfig struct {
	BaseURL        string `json:"base_url"`
	Token          string `json:"token,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// UserConfig identifies the signed-in account. The backend is the authority
// on identity; these fields drive the client-side owner gates only.
type UserConfig struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	ShowSeenRings bool `json:"show_seen_rings"`
	TrayLimit     int  `json:"tray_limit"`
	Prefetch      bool `json:"prefetch"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:4000/api",
			TimeoutSeconds: 15,
		},
		UI: UIConfig{
			ShowSeenRings: true,
			TrayLimit:     50,
			Prefetch:      true,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".glimpse", "config.json")
}

// DataDir returns the directory holding the config, cache db, and logs.
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".glimpse")
}

// Load reads config from disk, or returns defaults. Environment variables
// override either way, so a missing file still yields a usable client.
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		cfg = DefaultConfig()
	}
	cfg.applyEnv()
	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for the token
}

// applyEnv overrides file values from the environment
func (c *Config) applyEnv() {
	if v := os.Getenv("GLIMPSE_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("GLIMPSE_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv("GLIMPSE_USER_ID"); v != "" {
		c.User.ID = v
	}
	if v := os.Getenv("GLIMPSE_USER_NAME"); v != "" {
		c.User.Name = v
	}
}
