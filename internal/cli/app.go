package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/pkg/entity"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/i18n"
	"github.com/goliatone/go-formbuilder/pkg/routing"
	"github.com/goliatone/go-formbuilder/pkg/templates"
)

// app holds the capabilities assembled from configuration.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	resolver   routing.Resolver
	gate       routing.AccessGate
	translator i18n.Translator
	entities   *entity.Store
}

func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	resolver, err := loadResolver(ctx, cfg.Routes)
	if err != nil {
		return nil, err
	}
	a.resolver = resolver

	if cfg.Policy.File != "" {
		gate, err := routing.LoadPolicy(os.DirFS(filepath.Dir(cfg.Policy.File)), filepath.Base(cfg.Policy.File))
		if err != nil {
			return nil, err
		}
		a.gate = gate
	}

	if cfg.I18n.Dir != "" {
		catalog, err := i18n.LoadCatalogFS(os.DirFS(cfg.I18n.Dir), cfg.I18n.Fallback)
		if err != nil {
			return nil, err
		}
		logger.Debug("translations loaded", slog.Any("locales", catalog.Locales()))
		a.translator = catalog
	}

	if cfg.Database.Enabled() {
		db, err := entity.Open(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		store, err := entity.NewStore(db, cfg.Database.Table, cfg.Database.Key)
		if err != nil {
			return nil, err
		}
		a.entities = store
	}
	return a, nil
}

func loadResolver(ctx context.Context, cfg config.RoutesConfig) (routing.Resolver, error) {
	switch {
	case cfg.File != "":
		var options []routing.TableOption
		if cfg.BaseURL != "" {
			options = append(options, routing.WithBaseURL(cfg.BaseURL))
		}
		return routing.LoadTable(os.DirFS(filepath.Dir(cfg.File)), filepath.Base(cfg.File), options...)
	case cfg.OpenAPI != "":
		raw, err := os.ReadFile(cfg.OpenAPI)
		if err != nil {
			return nil, fmt.Errorf("cli: read openapi document: %w", err)
		}
		return routing.NewOpenAPIResolver(ctx, raw)
	default:
		return nil, nil
	}
}

// findEntity resolves the --entity flag into a builder entity, loading the
// record when a database is configured.
func (a *app) findEntity(ctx context.Context, raw string) (entity.Entity, error) {
	if raw == "" {
		return nil, nil
	}
	id := entity.NormalizeID(raw)
	if a.entities == nil {
		return entity.ID{Value: id}, nil
	}
	return a.entities.Find(ctx, id)
}

// loadTemplate accepts a template file path or a name inside the configured
// templates directory.
func (a *app) loadTemplate(ctx context.Context, ref string) (form.Template, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return templates.LoadFile(ctx, ref)
	}

	store, err := a.templateStore(ctx)
	if err != nil {
		return form.Template{}, err
	}
	tpl, ok := store.Template(ref)
	if !ok {
		return form.Template{}, fmt.Errorf("cli: template %q not found in %s", ref, a.cfg.Templates.Dir)
	}
	return tpl, nil
}

func (a *app) templateStore(ctx context.Context) (*templates.Store, error) {
	return templates.LoadStore(ctx, os.DirFS(a.cfg.Templates.Dir))
}
