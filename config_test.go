package formkit_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/pkg/config"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		cfg, err := formkit.LoadEnvConfig(config.WithEnvironment(map[string]string{}))
		require.NoError(t, err)
		assert.Equal(t, formkit.EnvConfig{
			SubscriberBuffer: 16,
			DestroyOnUnmount: false,
			LogLevel:         "info",
			LogFormat:        "json",
		}, cfg)
	})

	t.Run("prefixed variables", func(t *testing.T) {
		cfg, err := formkit.LoadEnvConfig(config.WithEnvironment(map[string]string{
			"FORMKIT_SUBSCRIBER_BUFFER":  "4",
			"FORMKIT_DESTROY_ON_UNMOUNT": "true",
			"FORMKIT_LOG_LEVEL":          "debug",
			"FORMKIT_LOG_FORMAT":         "text",
		}))
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.SubscriberBuffer)
		assert.True(t, cfg.DestroyOnUnmount)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("bad value", func(t *testing.T) {
		_, err := formkit.LoadEnvConfig(config.WithEnvironment(map[string]string{
			"FORMKIT_SUBSCRIBER_BUFFER": "many",
		}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestEnvConfigLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := formkit.EnvConfig{LogLevel: "warn", LogFormat: "text"}.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestWithEnvConfig(t *testing.T) {
	t.Parallel()

	r := formkit.NewRegistry(formkit.WithEnvConfig(formkit.EnvConfig{SubscriberBuffer: 2, DestroyOnUnmount: true}))
	t.Cleanup(func() { _ = r.Close() })

	form, err := r.ExtendForm("f", formkit.Config{Schema: formkit.Schema{"a": {Initial: ""}}})
	require.NoError(t, err)
	assert.True(t, form.DestroyControlStateOnUnmount())

	a, err := form.EnsureField("a")
	require.NoError(t, err)
	assert.True(t, a.AutoRemove())
}
