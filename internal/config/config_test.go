package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	v := viper.New()
	Prepare(v, "")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Precision)
	assert.Equal(t, 3, cfg.Repeat)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.DisableGC)
	assert.Equal(t, 0.2, cfg.Threshold)
	assert.Equal(t, 9, cfg.MaxExponent)
	assert.Equal(t, "text", cfg.Output)
}

func TestFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("repeat: 7\nprecision: 5\noutput: json\n"), 0o644))
	t.Setenv("BENCHTIME_PRECISION", "4")

	v := viper.New()
	Prepare(v, path)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Repeat)
	assert.Equal(t, 4, cfg.Precision, "environment overrides the file")
	assert.Equal(t, "json", cfg.Output)
}

func TestMissingExplicitFileIsIgnored(t *testing.T) {
	v := viper.New()
	Prepare(v, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load(v)
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{Precision: 3, Repeat: 3, Threshold: 0.2, MaxExponent: 9, Output: "text", LogFormat: "text"}
	require.NoError(t, base.Validate())

	mutations := map[string]func(*Config){
		"precision":    func(c *Config) { c.Precision = 0 },
		"repeat":       func(c *Config) { c.Repeat = 0 },
		"threshold":    func(c *Config) { c.Threshold = 0 },
		"max exponent": func(c *Config) { c.MaxExponent = 19 },
		"output":       func(c *Config) { c.Output = "xml" },
		"log format":   func(c *Config) { c.LogFormat = "logfmt" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}
