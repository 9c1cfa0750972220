package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromApplyDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	content := `version: 1
cache:
  ttl: 1h
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.Cache.TTL != "1h" {
		t.Errorf("Cache.TTL = %q, want %q", cfg.Cache.TTL, "1h")
	}
	if cfg.Cache.MaxSizeBytes != DefaultMaxSizeBytes {
		t.Errorf("Cache.MaxSizeBytes = %d, want default %d", cfg.Cache.MaxSizeBytes, DefaultMaxSizeBytes)
	}
	if cfg.Cache.MaxRepos != DefaultMaxRepos {
		t.Errorf("Cache.MaxRepos = %d, want default %d", cfg.Cache.MaxRepos, DefaultMaxRepos)
	}
	if cfg.Git.Binary != "git" {
		t.Errorf("Git.Binary = %q, want %q", cfg.Git.Binary, "git")
	}
	if cfg.Git.OutputLimit != DefaultOutputLimit {
		t.Errorf("Git.OutputLimit = %d, want default %d", cfg.Git.OutputLimit, DefaultOutputLimit)
	}
}

func TestLoadFromMissing(t *testing.T) {
	tempDir := t.TempDir()

	_, err := LoadFrom(filepath.Join(tempDir, "nope.yaml"))
	if err == nil {
		t.Fatal("LoadFrom() should fail for missing file")
	}
}

func TestLoadFromInvalidTTL(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	content := `version: 1
cache:
  ttl: not-a-duration
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("LoadFrom() should fail for invalid ttl")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nested", "config.yaml")

	cfg := &Config{
		Cache: CacheConfig{TTL: "2h", MaxRepos: 3},
		Git:   GitConfig{Timeout: "30s"},
	}

	if err := SaveTo(cfg, configPath); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if loaded.Cache.TTL != "2h" {
		t.Errorf("Cache.TTL = %q, want %q", loaded.Cache.TTL, "2h")
	}
	if loaded.Cache.MaxRepos != 3 {
		t.Errorf("Cache.MaxRepos = %d, want 3", loaded.Cache.MaxRepos)
	}
	if loaded.Git.TimeoutDuration() != 30*time.Second {
		t.Errorf("Git.TimeoutDuration() = %v, want 30s", loaded.Git.TimeoutDuration())
	}
}

func TestDurationFallbacks(t *testing.T) {
	cache := CacheConfig{TTL: "garbage", SweepInterval: "garbage"}
	if cache.TTLDuration() != 24*time.Hour {
		t.Errorf("TTLDuration() fallback = %v, want 24h", cache.TTLDuration())
	}
	if cache.SweepIntervalDuration() != 5*time.Minute {
		t.Errorf("SweepIntervalDuration() fallback = %v, want 5m", cache.SweepIntervalDuration())
	}

	git := GitConfig{Timeout: "garbage"}
	if git.TimeoutDuration() != 5*time.Minute {
		t.Errorf("TimeoutDuration() fallback = %v, want 5m", git.TimeoutDuration())
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Version != DefaultVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, DefaultVersion)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}
