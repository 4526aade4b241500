package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

var allKeys = []string{
	EnvWidth, EnvHeight, EnvSamples, EnvBounces, EnvWorkers, EnvOutput,
	EnvS3AccessKey, EnvS3SecretKey, EnvS3Endpoint, EnvS3Region, EnvS3Bucket,
}

// clearEnv unsets every variable Load reads and restores them after the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Render != renderer.DefaultConfig() {
		t.Errorf("Expected default render config, got %+v", cfg.Render)
	}
	if cfg.Output != DefaultOutput {
		t.Errorf("Expected output %q, got %q", DefaultOutput, cfg.Output)
	}
	if cfg.UploadEnabled() {
		t.Error("Upload should be disabled without a bucket")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	env := "PATHTRACER_WIDTH=320\nPATHTRACER_SAMPLES=8\nPATHTRACER_OUTPUT=out.ppm\nS3_BUCKET=renders\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	// The process environment wins over the file
	t.Setenv(EnvSamples, "32")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Render.Width != 320 {
		t.Errorf("Expected width 320, got %d", cfg.Render.Width)
	}
	if cfg.Render.Samples != 32 {
		t.Errorf("Expected 32 samples, got %d", cfg.Render.Samples)
	}
	if cfg.Output != "out.ppm" {
		t.Errorf("Expected output out.ppm, got %q", cfg.Output)
	}
	if !cfg.UploadEnabled() || cfg.S3.Bucket != "renders" {
		t.Errorf("Expected bucket renders, got %+v", cfg.S3)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		expected error
	}{
		{"not a number", EnvWidth, "wide", ErrInvalidValue},
		{"zero samples", EnvSamples, "0", renderer.ErrInvalidConfig},
		{"negative workers", EnvWorkers, "-2", renderer.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(t.TempDir()); !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}
