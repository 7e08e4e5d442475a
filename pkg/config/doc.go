// Package config loads configuration structs from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - Optionally loads one or more `.env` files first (the default `.env` in
//     the working directory is tried when none are named).
//   - Parses the environment into any Go struct using `env` and `envDefault`
//     field tags, with an optional variable prefix.
//   - Can parse from an explicit map instead of the process environment,
//     which keeps tests hermetic.
//
// There is no package-level cache: callers own the parsed value and pass it to
// whatever needs it.
//
// # Usage
//
//	import "github.com/dmitrymomot/formkit/pkg/config"
//
//	var cfg formkit.EnvConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// # Error Handling
//
// The package defines sentinel errors that can be compared with `errors.Is`:
//
//   - `ErrParsingConfig` – failed to parse env vars into struct.
//   - `ErrEnvFile`       – a named .env file could not be read.
//   - `ErrNilPointer`    – nil pointer passed to `Load`/`MustLoad`.
package config
