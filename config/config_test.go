package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "results", cfg.Classify.Out)
	assert.Equal(t, []string{"rus", "eng"}, cfg.Text.OCRLanguages)
	assert.Equal(t, 3, cfg.Text.OCRPageSegMode)
	assert.False(t, cfg.Text.AnswerTables)
}

// clearLevelEnv keeps the caller's LOG_LEVEL out of Load.
func clearLevelEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DOCXTRACT_LOG_LEVEL", "")
}

func TestLoad(t *testing.T) {
	clearLevelEnv(t)
	path := filepath.Join(t.TempDir(), "docxtract.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
extract:
  src: /mnt/tests/ToBeResized
  dst: /mnt/tests/new
  convert_images: true
classify:
  root: /mnt/tests/ready
  strict: true
`), 0o644))

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/mnt/tests/ToBeResized", cfg.Extract.Src)
	assert.True(t, cfg.Extract.ConvertImages)
	assert.False(t, cfg.Extract.SkipExisting)
	assert.True(t, cfg.Classify.Strict)
	assert.Equal(t, "results", cfg.Classify.Out, "unset keys keep their defaults")
}

func TestLoad_Errors(t *testing.T) {
	clearLevelEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("extract: [unclosed"), 0o644))
	_, err = Load(bad, "")
	assert.Error(t, err)

	level := filepath.Join(t.TempDir(), "level.yaml")
	require.NoError(t, os.WriteFile(level, []byte("log_level: loud\n"), 0o644))
	_, err = Load(level, "")
	assert.ErrorContains(t, err, "log_level")
}

func TestLoad_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DOCXTRACT_SKIP_EXISTING=true\nDOCXTRACT_OCR_LANG=kir+rus\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("DOCXTRACT_SKIP_EXISTING")
		os.Unsetenv("DOCXTRACT_OCR_LANG")
	})

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.True(t, cfg.Extract.SkipExisting)
	assert.Equal(t, []string{"kir", "rus"}, cfg.Text.OCRLanguages)
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"LOG_LEVEL":                "warn",
		"DOCXTRACT_LOG_LEVEL":      "error",
		"DOCXTRACT_SRC":            "/src",
		"DOCXTRACT_CONVERT_IMAGES": "1",
		"DOCXTRACT_STRICT":         "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	require.NoError(t, cfg.applyEnv(lookup))
	assert.Equal(t, "error", cfg.LogLevel, "DOCXTRACT_LOG_LEVEL wins over LOG_LEVEL")
	assert.Equal(t, "/src", cfg.Extract.Src)
	assert.True(t, cfg.Extract.ConvertImages)
	assert.False(t, cfg.Classify.Strict)

	env["DOCXTRACT_OCR"] = "maybe"
	assert.ErrorContains(t, DefaultConfig().applyEnv(lookup), "DOCXTRACT_OCR")
}

func TestValidate_OCRLanguages(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Text.OCR = true
	cfg.Text.OCRLanguages = nil
	assert.Error(t, cfg.Validate())

	cfg.Text.OCRLanguages = []string{"rus", " "}
	assert.Error(t, cfg.Validate())
}

func TestApplyEnv_TextOptions(t *testing.T) {
	env := map[string]string{
		"DOCXTRACT_ANSWER_TABLES": "true",
		"DOCXTRACT_OCR_PSM":       "6",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	require.NoError(t, cfg.applyEnv(lookup))
	assert.True(t, cfg.Text.AnswerTables)
	assert.Equal(t, 6, cfg.Text.OCRPageSegMode)

	env["DOCXTRACT_OCR_PSM"] = "six"
	assert.ErrorContains(t, DefaultConfig().applyEnv(lookup), "DOCXTRACT_OCR_PSM")
}

func TestValidate_OCRPageSegMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Text.OCRPageSegMode = 14
	assert.ErrorContains(t, cfg.Validate(), "ocr_psm")

	cfg.Text.OCRPageSegMode = 0
	assert.NoError(t, cfg.Validate())
}
