package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	def := Default()
	if cfg.ListenAddr != def.ListenAddr {
		t.Errorf("listen addr = %q, want %q", cfg.ListenAddr, def.ListenAddr)
	}
	if cfg.RoomTTLSeconds != def.RoomTTLSeconds {
		t.Errorf("room ttl = %d, want %d", cfg.RoomTTLSeconds, def.RoomTTLSeconds)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Errorf("log settings = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roomd.yaml")
	content := []byte("listen_addr: \":9999\"\nroom_ttl_seconds: 60\nlog_level: debug\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("listen addr = %q, want :9999", cfg.ListenAddr)
	}
	if cfg.RoomTTLSeconds != 60 {
		t.Errorf("room ttl = %d, want 60", cfg.RoomTTLSeconds)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
	// untouched keys keep their defaults
	if cfg.SessionTTLSeconds != Default().SessionTTLSeconds {
		t.Errorf("session ttl = %d, want default", cfg.SessionTTLSeconds)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ROOMD_LISTEN_ADDR", ":7777")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":7777" {
		t.Errorf("listen addr = %q, want :7777", cfg.ListenAddr)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"zero room ttl", func(c *Config) { c.RoomTTLSeconds = 0 }, true},
		{"negative session ttl", func(c *Config) { c.SessionTTLSeconds = -1 }, true},
		{"empty db path", func(c *Config) { c.DBPath = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
