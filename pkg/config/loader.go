package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Option tunes a single Load call.
type Option func(*loadOptions)

type loadOptions struct {
	files       []string
	prefix      string
	environment map[string]string
}

// WithEnvFiles loads the given .env files before parsing. Variables already
// present in the process environment win over file values. Missing files are
// an error; without this option the default .env is tried and ignored when absent.
func WithEnvFiles(files ...string) Option {
	return func(o *loadOptions) {
		o.files = append(o.files, files...)
	}
}

// WithPrefix prepends prefix to every env tag, e.g. "FORMKIT_".
func WithPrefix(prefix string) Option {
	return func(o *loadOptions) {
		o.prefix = prefix
	}
}

// WithEnvironment parses from the supplied map instead of the process
// environment. Env files are skipped. Mostly useful in tests.
func WithEnvironment(vars map[string]string) Option {
	return func(o *loadOptions) {
		o.environment = vars
	}
}

// Load populates v from environment variables according to its `env` tags.
//
// Example:
//
//	type EngineConfig struct {
//		SubscriberBuffer int  `env:"SUBSCRIBER_BUFFER" envDefault:"16"`
//		DestroyOnUnmount bool `env:"DESTROY_ON_UNMOUNT"`
//	}
//
//	var cfg EngineConfig
//	if err := config.Load(&cfg, config.WithPrefix("FORMKIT_")); err != nil {
//		// Handle error
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if o.environment == nil {
		if err := loadEnvFiles(o.files); err != nil {
			return err
		}
	}

	envOpts := env.Options{Prefix: o.prefix}
	if o.environment != nil {
		envOpts.Environment = o.environment
	}

	if err := env.ParseWithOptions(v, envOpts); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// This is useful for configurations that are required for the application to start.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		// The default .env file is optional.
		if _, err := os.Stat(".env"); err == nil {
			if err := godotenv.Load(); err != nil {
				return errors.Join(ErrEnvFile, err)
			}
		}
		return nil
	}

	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrEnvFile, err)
	}
	return nil
}
