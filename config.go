package formkit

import (
	"io"
	"log/slog"

	"github.com/dmitrymomot/formkit/pkg/config"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

// EnvPrefix is prepended to every variable read by LoadEnvConfig.
const EnvPrefix = "FORMKIT_"

// EnvConfig holds the engine settings that can come from the environment.
type EnvConfig struct {
	SubscriberBuffer int    `env:"SUBSCRIBER_BUFFER" envDefault:"16"`
	DestroyOnUnmount bool   `env:"DESTROY_ON_UNMOUNT" envDefault:"false"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"json"`
}

// LoadEnvConfig reads FORMKIT_* variables, loading .env files first.
func LoadEnvConfig(opts ...config.Option) (EnvConfig, error) {
	var cfg EnvConfig
	opts = append([]config.Option{config.WithPrefix(EnvPrefix)}, opts...)
	if err := config.Load(&cfg, opts...); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// Logger builds a logger writing to w at the configured level and format.
// opts are applied last.
func (c EnvConfig) Logger(w io.Writer, opts ...logger.Option) *slog.Logger {
	format := logger.FormatJSON
	if c.LogFormat == string(logger.FormatText) {
		format = logger.FormatText
	}
	return logger.New(append([]logger.Option{
		logger.WithLevel(logger.ParseLevel(c.LogLevel)),
		logger.WithFormat(format),
		logger.WithOutput(w),
	}, opts...)...)
}

// WithEnvConfig applies the engine settings of cfg.
func WithEnvConfig(cfg EnvConfig) Option {
	return func(o *options) {
		WithSubscriberBuffer(cfg.SubscriberBuffer)(o)
		WithDestroyOnUnmount(cfg.DestroyOnUnmount)(o)
	}
}
