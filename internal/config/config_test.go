package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeEnvFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "rml.env"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if config.Environment != "development" {
		t.Errorf("Environment = %q, want %q", config.Environment, "development")
	}
	if config.DevAddress != "localhost:8080" {
		t.Errorf("DevAddress = %q, want %q", config.DevAddress, "localhost:8080")
	}
	if config.PollInterval != 300*time.Millisecond {
		t.Errorf("PollInterval = %v, want %v", config.PollInterval, 300*time.Millisecond)
	}
	if config.OutDir != "" {
		t.Errorf("OutDir = %q, want empty", config.OutDir)
	}
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, "RML_DEV_ADDRESS=0.0.0.0:3000\nRML_DEV_POLL_INTERVAL=1s\n")

	config, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if config.DevAddress != "0.0.0.0:3000" {
		t.Errorf("DevAddress = %q, want %q", config.DevAddress, "0.0.0.0:3000")
	}
	if config.PollInterval != time.Second {
		t.Errorf("PollInterval = %v, want %v", config.PollInterval, time.Second)
	}
	if config.Environment != "development" {
		t.Errorf("Environment = %q, want default %q", config.Environment, "development")
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, "RML_OUT_DIR=from-file\n")
	t.Setenv("RML_OUT_DIR", "from-env")

	config, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if config.OutDir != "from-env" {
		t.Errorf("OutDir = %q, want %q", config.OutDir, "from-env")
	}
}

func TestLoadConfig_BadInterval(t *testing.T) {
	dir := t.TempDir()
	writeEnvFile(t, dir, "RML_DEV_POLL_INTERVAL=soon\n")

	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("LoadConfig() succeeded, want duration parse error")
	}
}
