package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Brownie44l1/medict-api/internal/domain"
	"github.com/Brownie44l1/medict-api/internal/model"
	"github.com/Brownie44l1/medict-api/internal/preprocess"
)

type Config struct {
	Port             string
	ModelsDir        string
	ONNXRuntimeLib   string
	CatalogPath      string
	LogLevel         string
	LogFormat        string
	ImageSize        int
	MaxUploadMB      int
	MaxImagePixels   int
	InferenceTimeout time.Duration
}

func Default() *Config {
	return &Config{
		Port:             "8080",
		ModelsDir:        "models",
		LogLevel:         "info",
		LogFormat:        "json",
		ImageSize:        preprocess.DefaultSize,
		MaxUploadMB:      10,
		MaxImagePixels:   preprocess.DefaultMaxPixels,
		InferenceTimeout: 30 * time.Second,
	}
}

// Load reads an optional .env file, then the environment, over the defaults.
func Load() (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	cfg := Default()
	cfg.Port = envString("PORT", cfg.Port)
	cfg.ModelsDir = envString("MODELS_DIR", cfg.ModelsDir)
	cfg.ONNXRuntimeLib = envString("ONNXRUNTIME_LIB", cfg.ONNXRuntimeLib)
	cfg.CatalogPath = envString("CATALOG_PATH", cfg.CatalogPath)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envString("LOG_FORMAT", cfg.LogFormat)

	var err error
	if cfg.ImageSize, err = envInt("IMAGE_SIZE", cfg.ImageSize); err != nil {
		return nil, err
	}
	if cfg.MaxUploadMB, err = envInt("MAX_UPLOAD_MB", cfg.MaxUploadMB); err != nil {
		return nil, err
	}
	if cfg.MaxImagePixels, err = envInt("MAX_IMAGE_PIXELS", cfg.MaxImagePixels); err != nil {
		return nil, err
	}
	if v := os.Getenv("INFERENCE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("INFERENCE_TIMEOUT: %w", err)
		}
		cfg.InferenceTimeout = d
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.ImageSize <= 0 {
		return fmt.Errorf("image size must be positive, got %d", c.ImageSize)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d MB", c.MaxUploadMB)
	}
	if c.MaxImagePixels <= 0 {
		return fmt.Errorf("max image pixels must be positive, got %d", c.MaxImagePixels)
	}
	if c.InferenceTimeout <= 0 {
		return fmt.Errorf("inference timeout must be positive, got %s", c.InferenceTimeout)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("log format must be json or console, got %q", c.LogFormat)
	}
	if c.ModelsDir == "" {
		return fmt.Errorf("models directory is required")
	}
	return nil
}

// Artifact returns where the model for kind is expected on disk.
func (c *Config) Artifact(kind domain.Kind) model.Artifact {
	return model.Artifact{
		ModelPath:    filepath.Join(c.ModelsDir, kind.String()+".onnx"),
		MetadataPath: filepath.Join(c.ModelsDir, kind.String()+"_metadata.json"),
	}
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
