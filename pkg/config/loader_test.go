package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/config"
)

type testConfig struct {
	Name    string   `env:"NAME" envDefault:"default_value"`
	Count   int      `env:"COUNT" envDefault:"42"`
	Enabled bool     `env:"ENABLED" envDefault:"true"`
	Tags    []string `env:"TAGS" envSeparator:","`
}

type requiredConfig struct {
	Required string `env:"REQUIRED_VALUE,required"`
}

func TestLoad(t *testing.T) {
	t.Run("reads process environment", func(t *testing.T) {
		t.Setenv("CFGTEST_NAME", "test_value")
		t.Setenv("CFGTEST_COUNT", "100")
		t.Setenv("CFGTEST_ENABLED", "false")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg, config.WithPrefix("CFGTEST_")))
		assert.Equal(t, "test_value", cfg.Name)
		assert.Equal(t, 100, cfg.Count)
		assert.False(t, cfg.Enabled)
	})

	t.Run("applies defaults", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg, config.WithEnvironment(map[string]string{})))
		assert.Equal(t, "default_value", cfg.Name)
		assert.Equal(t, 42, cfg.Count)
		assert.True(t, cfg.Enabled)
	})

	t.Run("explicit environment map", func(t *testing.T) {
		var cfg testConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{
			"TAGS": "a,b",
		}))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, cfg.Tags)
	})

	t.Run("missing required value", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{}))
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("invalid value", func(t *testing.T) {
		var cfg testConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{"COUNT": "many"}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		var cfg *testConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})
}

func TestLoad_EnvFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(file, []byte("ENVFILE_NAME=from_file\nENVFILE_COUNT=7\n"), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("ENVFILE_NAME")
		os.Unsetenv("ENVFILE_COUNT")
	})

	var cfg testConfig
	require.NoError(t, config.Load(&cfg, config.WithEnvFiles(file), config.WithPrefix("ENVFILE_")))
	assert.Equal(t, "from_file", cfg.Name)
	assert.Equal(t, 7, cfg.Count)

	t.Run("missing file", func(t *testing.T) {
		var cfg testConfig
		err := config.Load(&cfg, config.WithEnvFiles(filepath.Join(dir, "nope.env")))
		assert.ErrorIs(t, err, config.ErrEnvFile)
	})
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg, config.WithEnvironment(map[string]string{}))
	})
}
