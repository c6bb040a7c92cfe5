package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string

	// UploadDir is the staging area for uploaded source files.
	UploadDir string
	// OutputDir holds generated artifacts until the sweeper reaps them.
	OutputDir string

	MaxFilesPerBatch int
	MaxFileSizeMB    int

	// ArtifactTTL is the maximum age after which staged uploads and
	// generated artifacts become eligible for deletion.
	ArtifactTTL   time.Duration
	SweepInterval time.Duration
}

func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "dev"),
		CORSOrigins:      getEnv("CORS_ORIGINS", "http://localhost:3000"),
		UploadDir:        getEnv("UPLOAD_DIR", "./data/uploads"),
		OutputDir:        getEnv("OUTPUT_DIR", "./data/outputs"),
		MaxFilesPerBatch: getEnvInt("MAX_FILES_PER_BATCH", 10),
		MaxFileSizeMB:    getEnvInt("MAX_FILE_SIZE_MB", 25),
		ArtifactTTL:      time.Duration(getEnvInt("ARTIFACT_TTL_MINUTES", 30)) * time.Minute,
		SweepInterval:    time.Duration(getEnvInt("SWEEP_INTERVAL_MINUTES", 10)) * time.Minute,
	}
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.Environment, validation.Required, validation.In("dev", "prod")),
		validation.Field(&c.UploadDir, validation.Required),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.MaxFilesPerBatch, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxFileSizeMB, validation.Required, validation.Min(1)),
		validation.Field(&c.ArtifactTTL, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.SweepInterval, validation.Required, validation.Min(time.Minute)),
	)
}

// MaxFileSizeBytes returns the per-file upload limit in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) << 20
}

// EnsureDirs creates the staging and output directories if missing.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.UploadDir, c.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
