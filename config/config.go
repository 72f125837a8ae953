// Package config holds runtime settings. Values come from flags, the
// environment, or a .env file in the working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"notes-web/notes"
)

// Config is the full set of server settings.
type Config struct {
	Addr     string
	DataDir  string
	FontDir  string
	LogLevel string

	Provider        string
	APIKey          string
	APIURL          string
	Model           string
	Temperature     float64
	MaxTokens       int
	GenerateTimeout time.Duration
	GenerateRPS     float64
	CacheResults    bool

	SystemFonts bool
	ResultTTL   time.Duration
	MaxUploadMB int64
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:         ":5000",
		DataDir:      "data",
		FontDir:      "fonts",
		LogLevel:     "info",
		Provider:     string(notes.ProviderGemini),
		Model:        "gemini-3-flash-preview",
		GenerateRPS:  1,
		CacheResults: true,
		SystemFonts:  true,
		ResultTTL:    24 * time.Hour,
		MaxUploadMB:  32,
	}
}

// LoadDotEnv reads .env if present. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Flags binds every setting to a flag with environment fallbacks.
func Flags(cfg *Config) []cli.Flag {
	d := Default()
	return []cli.Flag{
		&cli.StringFlag{Name: "addr", Value: d.Addr, EnvVars: []string{"ADDR"}, Destination: &cfg.Addr, Usage: "listen address"},
		&cli.StringFlag{Name: "data-dir", Value: d.DataDir, EnvVars: []string{"DATA_DIR"}, Destination: &cfg.DataDir, Usage: "uploads and rendered PDFs"},
		&cli.StringFlag{Name: "font-dir", Value: d.FontDir, EnvVars: []string{"FONT_DIR"}, Destination: &cfg.FontDir, Usage: "downloaded font cache"},
		&cli.StringFlag{Name: "log-level", Value: d.LogLevel, EnvVars: []string{"LOG_LEVEL"}, Destination: &cfg.LogLevel, Usage: "debug, info, warn or error"},
		&cli.StringFlag{Name: "provider", Value: d.Provider, EnvVars: []string{"LLM_PROVIDER"}, Destination: &cfg.Provider, Usage: "gemini or openai"},
		&cli.StringFlag{Name: "api-key", EnvVars: []string{"LLM_API_KEY", "GEMINI_API_KEY"}, Destination: &cfg.APIKey, Usage: "generation API key"},
		&cli.StringFlag{Name: "api-url", EnvVars: []string{"LLM_API_URL"}, Destination: &cfg.APIURL, Usage: "override the provider base URL"},
		&cli.StringFlag{Name: "model", Value: d.Model, EnvVars: []string{"LLM_MODEL"}, Destination: &cfg.Model, Usage: "model identifier"},
		&cli.Float64Flag{Name: "temperature", EnvVars: []string{"LLM_TEMPERATURE"}, Destination: &cfg.Temperature, Usage: "sampling temperature, 0 for provider default"},
		&cli.IntFlag{Name: "max-tokens", EnvVars: []string{"LLM_MAX_TOKENS"}, Destination: &cfg.MaxTokens, Usage: "output token cap, 0 for provider default"},
		&cli.DurationFlag{Name: "generate-timeout", EnvVars: []string{"GENERATE_TIMEOUT"}, Destination: &cfg.GenerateTimeout, Usage: "per-call generation timeout, 0 for none"},
		&cli.Float64Flag{Name: "generate-rps", Value: d.GenerateRPS, EnvVars: []string{"GENERATE_RPS"}, Destination: &cfg.GenerateRPS, Usage: "generation calls per second, 0 for unlimited"},
		&cli.BoolFlag{Name: "cache", Value: d.CacheResults, EnvVars: []string{"GENERATE_CACHE"}, Destination: &cfg.CacheResults, Usage: "reuse generated text for identical uploads"},
		&cli.BoolFlag{Name: "system-fonts", Value: d.SystemFonts, EnvVars: []string{"SYSTEM_FONTS"}, Destination: &cfg.SystemFonts, Usage: "look for fonts in OS font directories before downloading"},
		&cli.DurationFlag{Name: "result-ttl", Value: d.ResultTTL, EnvVars: []string{"RESULT_TTL"}, Destination: &cfg.ResultTTL, Usage: "how long finished notes stay downloadable"},
		&cli.Int64Flag{Name: "max-upload-mb", Value: d.MaxUploadMB, EnvVars: []string{"MAX_UPLOAD_MB"}, Destination: &cfg.MaxUploadMB, Usage: "multipart memory limit in MiB"},
	}
}

// Validate checks settings that would otherwise fail on the first request.
func (c Config) Validate() error {
	switch notes.ProviderType(c.Provider) {
	case notes.ProviderGemini, notes.ProviderOpenAI:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("no API key: set LLM_API_KEY or GEMINI_API_KEY")
	}
	if c.Model == "" {
		return fmt.Errorf("no model configured")
	}
	if c.DataDir == "" || c.FontDir == "" {
		return fmt.Errorf("data and font directories must be set")
	}
	return nil
}

// ProviderConfig converts the generation settings.
func (c Config) ProviderConfig() notes.ProviderConfig {
	return notes.ProviderConfig{
		Type:        notes.ProviderType(c.Provider),
		APIKey:      c.APIKey,
		APIURL:      c.APIURL,
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
}

// UploadDir and OutputDir live under DataDir.
func (c Config) UploadDir() string { return filepath.Join(c.DataDir, "uploads") }

func (c Config) OutputDir() string { return filepath.Join(c.DataDir, "outputs") }

// CacheDir holds generated text reused across identical uploads.
func (c Config) CacheDir() string { return filepath.Join(c.DataDir, "cache") }

// CacheScope keys cached text to the provider and model that produced it.
func (c Config) CacheScope() string { return c.Provider + "/" + c.Model }

// ParseLogLevel maps LOG_LEVEL to a logrus level, defaulting to info.
func ParseLogLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
