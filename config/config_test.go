package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"notes-web/notes"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		" WARN ":  logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"info":    logrus.InfoLevel,
		"":        logrus.InfoLevel,
		"verbose": logrus.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), "input %q", in)
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.APIKey = "k"
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no key", func(c *Config) { c.APIKey = "" }},
		{"no model", func(c *Config) { c.Model = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "claude" }},
		{"no data dir", func(c *Config) { c.DataDir = "" }},
		{"no font dir", func(c *Config) { c.FontDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestDerivedSettings(t *testing.T) {
	c := Default()
	c.DataDir = "/srv/notes"
	c.APIKey = "k"
	c.Provider = "openai"
	c.Model = "gpt-4o-mini"

	assert.Equal(t, filepath.Join("/srv/notes", "uploads"), c.UploadDir())
	assert.Equal(t, filepath.Join("/srv/notes", "outputs"), c.OutputDir())

	pc := c.ProviderConfig()
	assert.Equal(t, notes.ProviderOpenAI, pc.Type)
	assert.Equal(t, "gpt-4o-mini", pc.Model)
	assert.Equal(t, "k", pc.APIKey)
}

func runFlags(t *testing.T, args ...string) Config {
	t.Helper()
	var cfg Config
	app := &cli.App{
		Name:   "notes-web",
		Flags:  Flags(&cfg),
		Action: func(*cli.Context) error { return nil },
	}
	require.NoError(t, app.Run(append([]string{"notes-web"}, args...)))
	return cfg
}

func TestFlagDefaults(t *testing.T) {
	for _, env := range []string{"ADDR", "LLM_MODEL", "GENERATE_RPS", "RESULT_TTL", "LLM_API_KEY", "GEMINI_API_KEY"} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
	cfg := runFlags(t)
	d := Default()
	assert.Equal(t, d.Addr, cfg.Addr)
	assert.Equal(t, d.Model, cfg.Model)
	assert.Equal(t, d.GenerateRPS, cfg.GenerateRPS)
	assert.Equal(t, d.ResultTTL, cfg.ResultTTL)
	assert.Equal(t, d.MaxUploadMB, cfg.MaxUploadMB)
	assert.Zero(t, cfg.GenerateTimeout)
}

func TestFlagsFromEnv(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	os.Unsetenv("LLM_API_KEY")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("GENERATE_TIMEOUT", "45s")
	t.Setenv("RESULT_TTL", "2h")
	t.Setenv("ADDR", ":8080")

	cfg := runFlags(t)
	assert.Equal(t, "gem-key", cfg.APIKey)
	assert.Equal(t, 45*time.Second, cfg.GenerateTimeout)
	assert.Equal(t, 2*time.Hour, cfg.ResultTTL)
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("ADDR", ":8080")
	cfg := runFlags(t, "--addr", ":9090", "--provider", "openai", "--generate-rps", "0")
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Zero(t, cfg.GenerateRPS)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOTES_TEST_KEY=from-dotenv\n"), 0644))
	t.Setenv("NOTES_TEST_KEY", "")
	os.Unsetenv("NOTES_TEST_KEY")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv("NOTES_TEST_KEY"))
}

func TestCacheSettings(t *testing.T) {
	c := Default()
	assert.True(t, c.CacheResults)
	assert.True(t, c.SystemFonts)
	c.DataDir = "data"
	assert.Equal(t, filepath.Join("data", "cache"), c.CacheDir())
	assert.Equal(t, "gemini/gemini-3-flash-preview", c.CacheScope())

	cfg := runFlags(t, "--cache=false", "--system-fonts=false")
	assert.False(t, cfg.CacheResults)
	assert.False(t, cfg.SystemFonts)
}
