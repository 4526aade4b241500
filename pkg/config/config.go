package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/export"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/joho/godotenv"
)

var logger = log.New("config")

var ErrInvalidValue = errors.New("config: invalid value")

// Environment variables read by Load
const (
	EnvWidth   = "PATHTRACER_WIDTH"
	EnvHeight  = "PATHTRACER_HEIGHT"
	EnvSamples = "PATHTRACER_SAMPLES"
	EnvBounces = "PATHTRACER_BOUNCES"
	EnvWorkers = "PATHTRACER_WORKERS"
	EnvOutput  = "PATHTRACER_OUTPUT"

	EnvS3AccessKey = "S3_ACCESS_KEY"
	EnvS3SecretKey = "S3_SECRET_KEY"
	EnvS3Endpoint  = "S3_ENDPOINT"
	EnvS3Region    = "S3_REGION"
	EnvS3Bucket    = "S3_BUCKET"
)

// DefaultOutput is where the CLI writes the final image
const DefaultOutput = "output/render.png"

// Config is the environment backed configuration shared by the CLI and the web server
type Config struct {
	Render renderer.Config
	Output string
	S3     export.S3Config
}

// Load reads rootDir/.env when present, then the process environment.
// Variables already set in the environment win over the file.
func Load(rootDir string) (*Config, error) {
	envFile := filepath.Join(rootDir, ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	cfg := &Config{
		Render: renderer.DefaultConfig(),
		Output: getEnv(EnvOutput, DefaultOutput),
		S3: export.S3Config{
			AccessKey: os.Getenv(EnvS3AccessKey),
			SecretKey: os.Getenv(EnvS3SecretKey),
			Endpoint:  os.Getenv(EnvS3Endpoint),
			Region:    getEnv(EnvS3Region, "us-east-1"),
			Bucket:    os.Getenv(EnvS3Bucket),
		},
	}

	ints := []struct {
		key    string
		target *int
	}{
		{EnvWidth, &cfg.Render.Width},
		{EnvHeight, &cfg.Render.Height},
		{EnvSamples, &cfg.Render.Samples},
		{EnvBounces, &cfg.Render.Bounces},
		{EnvWorkers, &cfg.Render.Workers},
	}
	for _, entry := range ints {
		if err := readInt(entry.key, entry.target); err != nil {
			return nil, err
		}
	}

	if err := cfg.Render.Validate(); err != nil {
		return nil, err
	}

	logger.Debugf("Configuration: %dx%d, %d samples, %d bounces, %d workers",
		cfg.Render.Width, cfg.Render.Height, cfg.Render.Samples, cfg.Render.Bounces, cfg.Render.Workers)
	return cfg, nil
}

// UploadEnabled reports whether an S3 bucket is configured
func (c *Config) UploadEnabled() bool {
	return c.S3.Bucket != ""
}

// getEnv returns the environment variable or fallback when unset
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func readInt(key string, target *int) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, value)
	}
	*target = parsed
	return nil
}
