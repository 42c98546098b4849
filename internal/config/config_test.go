package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/medict-api/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "MODELS_DIR", "IMAGE_SIZE", "MAX_UPLOAD_MB", "MAX_IMAGE_PIXELS", "INFERENCE_TIMEOUT", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 350, cfg.ImageSize)
	require.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	require.Equal(t, 89_478_485, cfg.MaxImagePixels)
	require.Equal(t, 30*time.Second, cfg.InferenceTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("MODELS_DIR", "/srv/models")
	t.Setenv("IMAGE_SIZE", "224")
	t.Setenv("INFERENCE_TIMEOUT", "5s")
	t.Setenv("MAX_IMAGE_PIXELS", "4000000")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, 224, cfg.ImageSize)
	require.Equal(t, 5*time.Second, cfg.InferenceTimeout)
	require.Equal(t, 4_000_000, cfg.MaxImagePixels)
	require.Equal(t, "console", cfg.LogFormat)

	a := cfg.Artifact(domain.Brain)
	require.Equal(t, filepath.Join("/srv/models", "brain.onnx"), a.ModelPath)
	require.Equal(t, filepath.Join("/srv/models", "brain_metadata.json"), a.MetadataPath)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for key, value := range map[string]string{
		"IMAGE_SIZE":        "big",
		"MAX_UPLOAD_MB":     "0",
		"MAX_IMAGE_PIXELS":  "-1",
		"INFERENCE_TIMEOUT": "soon",
		"LOG_FORMAT":        "xml",
	} {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
