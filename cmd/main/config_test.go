package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.Generator.DefaultLength != 50 {
		t.Errorf("expected default_length 50, got %d", cfg.Generator.DefaultLength)
	}
	if _, err = os.Stat(path); err != nil {
		t.Fatalf("expected a default config file to be written: %v", err)
	}

	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() of the written defaults failed: %v", err)
	}
	if reloaded.Server.ApiAddr != cfg.Server.ApiAddr || *reloaded.Generator != *cfg.Generator {
		t.Errorf("reloaded config differs: %+v", reloaded.Server)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"server_config":`},
		{"negative max length", `{"generator_config": {"max_length": -1}}`},
		{"default above max", `{"generator_config": {"default_length": 100, "max_length": 10}}`},
		{"empty address", `{"server_config": {"api_addr": ""}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}

func TestConfigManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cm, err := NewConfigManager(path)
	if err != nil {
		t.Fatalf("NewConfigManager() failed: %v", err)
	}

	t.Run("Get returns a copy", func(t *testing.T) {
		cfg := cm.Get()
		cfg.Generator.MaxLength = 1
		cfg.Server.SeedFiles = append(cfg.Server.SeedFiles, "x")
		if cm.Get().Generator.MaxLength == 1 || len(cm.Get().Server.SeedFiles) != 0 {
			t.Error("modifying the returned config changed the manager")
		}
	})

	t.Run("Update persists", func(t *testing.T) {
		cfg := cm.Get()
		cfg.Generator.RandomSeed = 42
		if err := cm.Update(cfg); err != nil {
			t.Fatalf("Update() failed: %v", err)
		}
		reloaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() failed: %v", err)
		}
		if reloaded.Generator.RandomSeed != 42 {
			t.Errorf("expected random_seed 42 on disk, got %d", reloaded.Generator.RandomSeed)
		}
	})

	t.Run("Update rejects invalid", func(t *testing.T) {
		cfg := cm.Get()
		cfg.Generator.MaxLength = 0
		if err := cm.Update(cfg); err == nil {
			t.Error("expected an error, got nil")
		}
		if cm.Get().Generator.MaxLength == 0 {
			t.Error("invalid config was applied")
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "DEBUG",
		"WARN":    "WARN",
		"error":   "ERROR",
		"info":    "INFO",
		"unknown": "INFO",
	}
	for in, want := range tests {
		if got := parseLogLevel(in).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
