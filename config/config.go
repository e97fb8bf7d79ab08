// Package config loads docxtract settings from a YAML file, a .env file and
// DOCXTRACT_* environment variables, in increasing order of precedence.
// Command-line flags override all of them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the full docxtract configuration.
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Extract  ExtractConfig  `yaml:"extract"`
	Classify ClassifyConfig `yaml:"classify"`
	Text     TextConfig     `yaml:"text"`
}

// ExtractConfig configures the extract command.
type ExtractConfig struct {
	Src           string `yaml:"src"`
	Dst           string `yaml:"dst"`
	SkipExisting  bool   `yaml:"skip_existing"`
	ConvertImages bool   `yaml:"convert_images"`
}

// ClassifyConfig configures the classify command.
type ClassifyConfig struct {
	Root   string `yaml:"root"`
	Out    string `yaml:"out"`
	Strict bool   `yaml:"strict"`
}

// TextConfig configures the text command.
type TextConfig struct {
	Src          string   `yaml:"src"`
	Dst          string   `yaml:"dst"`
	OCR          bool     `yaml:"ocr"`
	OCRLanguages []string `yaml:"ocr_languages"`
	// OCRPageSegMode is a Tesseract page segmentation mode, 0 to 13.
	OCRPageSegMode int `yaml:"ocr_psm"`
	// AnswerTables renders answer-key tables as "N-вар." variant lines.
	AnswerTables bool `yaml:"answer_tables"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Classify: ClassifyConfig{
			Out: "results",
		},
		Text: TextConfig{
			OCRLanguages:   []string{"rus", "eng"},
			OCRPageSegMode: 3,
		},
	}
}

// Load returns DefaultConfig merged with the YAML file at path, then with
// the variables of envFile and the environment. Either name may be empty;
// a missing envFile is not an error.
func Load(path, envFile string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"LOG_LEVEL", &c.LogLevel},
		{"DOCXTRACT_LOG_LEVEL", &c.LogLevel},
		{"DOCXTRACT_SRC", &c.Extract.Src},
		{"DOCXTRACT_DST", &c.Extract.Dst},
		{"DOCXTRACT_CLASSIFY_ROOT", &c.Classify.Root},
		{"DOCXTRACT_CLASSIFY_OUT", &c.Classify.Out},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok && v != "" {
			*s.dst = v
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"DOCXTRACT_SKIP_EXISTING", &c.Extract.SkipExisting},
		{"DOCXTRACT_CONVERT_IMAGES", &c.Extract.ConvertImages},
		{"DOCXTRACT_STRICT", &c.Classify.Strict},
		{"DOCXTRACT_OCR", &c.Text.OCR},
		{"DOCXTRACT_ANSWER_TABLES", &c.Text.AnswerTables},
	}
	for _, b := range bools {
		v, ok := lookup(b.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", b.key, err)
		}
		*b.dst = parsed
	}

	if v, ok := lookup("DOCXTRACT_OCR_LANG"); ok && v != "" {
		c.Text.OCRLanguages = strings.Split(v, "+")
	}
	if v, ok := lookup("DOCXTRACT_OCR_PSM"); ok && v != "" {
		psm, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DOCXTRACT_OCR_PSM: %w", err)
		}
		c.Text.OCRPageSegMode = psm
	}
	return nil
}

var logLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true,
	"error": true, "fatal": true, "panic": true,
}

// Validate checks that values are sane.
func (c *Config) Validate() error {
	if !logLevels[strings.ToLower(strings.TrimSpace(c.LogLevel))] {
		return fmt.Errorf("log_level %q is not a known level", c.LogLevel)
	}
	if c.Text.OCR && len(c.Text.OCRLanguages) == 0 {
		return fmt.Errorf("text.ocr_languages is required when text.ocr is set")
	}
	if c.Text.OCRPageSegMode < 0 || c.Text.OCRPageSegMode > 13 {
		return fmt.Errorf("text.ocr_psm %d is out of range 0-13", c.Text.OCRPageSegMode)
	}
	for i, lang := range c.Text.OCRLanguages {
		if strings.TrimSpace(lang) == "" {
			return fmt.Errorf("text.ocr_languages[%d] is empty", i)
		}
	}
	return nil
}
