// Command formkit-demo serves a form registry over HTTP.
//
// Forms are created by the first PUT /forms/{name} carrying a schema, or
// preloaded from the YAML files listed in FORMKIT_SCHEMA_FILES. Validation
// messages follow the request language; FORMKIT_LOCALE_FILES adds or
// overrides translations. Submissions are logged.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/internal/httpapi"
	"github.com/dmitrymomot/formkit/pkg/config"
	"github.com/dmitrymomot/formkit/pkg/httpserver"
	"github.com/dmitrymomot/formkit/pkg/i18n"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/requestid"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

type demoConfig struct {
	HTTP        httpserver.Config
	SchemaFiles []string `env:"SCHEMA_FILES" envSeparator:","`
	LocaleFiles []string `env:"LOCALE_FILES" envSeparator:","`
	DefaultLang string   `env:"DEFAULT_LANG" envDefault:"en"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	engineCfg, err := formkit.LoadEnvConfig()
	if err != nil {
		return err
	}
	var cfg demoConfig
	if err := config.Load(&cfg, config.WithPrefix(formkit.EnvPrefix)); err != nil {
		return err
	}

	log := engineCfg.Logger(os.Stdout,
		logger.WithAttr(slog.String("service", "formkit-demo")),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	registry := formkit.NewRegistry(formkit.WithEnvConfig(engineCfg), formkit.WithLogger(log))
	onSubmit := func(ctx context.Context, values map[string]any) error {
		log.InfoContext(ctx, "form submitted", slog.Any("values", values))
		return nil
	}
	if err := preload(registry, cfg.SchemaFiles, onSubmit); err != nil {
		_ = registry.Close()
		return err
	}

	tr, err := newTranslator(ctx, cfg, log)
	if err != nil {
		_ = registry.Close()
		return err
	}

	api := httpapi.New(registry,
		httpapi.WithLogger(log),
		httpapi.WithSubmitFunc(onSubmit),
		httpapi.WithTranslator(tr),
	)
	r := chi.NewRouter()
	r.Get("/livez", httpserver.HealthCheckHandler(log))
	r.Get("/readyz", httpserver.HealthCheckHandler(log, registry.Ping))
	r.Mount("/", api.Routes())

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(func(context.Context) { _ = registry.Close() }),
	)
	return srv.Run(ctx, r)
}

// preload registers one form per schema file, named after the file. The
// registry keeps the reference for the life of the process.
func preload(registry *formkit.Registry, files []string, onSubmit formkit.SubmitFunc) error {
	for _, path := range files {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		schema, err := readSchema(path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if _, err := registry.ExtendForm(name, formkit.Config{Schema: schema, OnSubmit: onSubmit}); err != nil {
			return fmt.Errorf("preload %s: %w", path, err)
		}
	}
	return nil
}

func readSchema(path string) (formkit.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema: %w", err)
	}
	defer f.Close()

	schema, err := formkit.LoadSchemaYAML(f)
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", path, err)
	}
	return schema, nil
}

// newTranslator merges the LOCALE_FILES over the built-in rule messages.
func newTranslator(ctx context.Context, cfg demoConfig, log *slog.Logger) (*i18n.Translator, error) {
	var files []string
	for _, path := range cfg.LocaleFiles {
		if path = strings.TrimSpace(path); path != "" {
			files = append(files, path)
		}
	}
	extra, err := i18n.LoadFiles(ctx, files...)
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}
	return validator.NewTranslator(extra,
		i18n.WithDefaultLanguage(cfg.DefaultLang),
		i18n.WithLogger(log),
		i18n.WithMissingTranslationsLogging(true),
	)
}
