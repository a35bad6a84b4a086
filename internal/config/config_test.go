package config

import (
	"testing"
)

func TestDefaultsWithEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // no config file on disk
	t.Setenv("GLIMPSE_API_URL", "https://api.example.test")
	t.Setenv("GLIMPSE_USER_ID", "u42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.test" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.User.ID != "u42" {
		t.Errorf("user id = %q", cfg.User.ID)
	}
	if cfg.API.TimeoutSeconds != 15 || !cfg.UI.ShowSeenRings {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.User.ID = "me"
	cfg.API.Token = "secret"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.User.ID != "me" || loaded.API.Token != "secret" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}
