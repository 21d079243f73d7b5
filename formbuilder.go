package formbuilder

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/entity"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/routing"
	"github.com/goliatone/go-formbuilder/pkg/templates"
)

// Template aliases form.Template so callers can stay on the root package for
// the common path.
type Template = form.Template

// Field aliases form.Field.
type Field = form.Field

// Descriptor aliases form.Descriptor, the output of Build.
type Descriptor = form.Descriptor

// Builder aliases builder.Builder.
type Builder = builder.Builder

// Option aliases builder.Option.
type Option = builder.Option

// Entity aliases entity.Entity.
type Entity = entity.Entity

// Resolver aliases routing.Resolver.
type Resolver = routing.Resolver

// New starts a builder for tpl. ent may be nil for create forms.
func New(tpl Template, ent Entity, options ...Option) *Builder {
	return builder.New(tpl, ent, options...)
}

// LoadTemplate reads a JSON or YAML template file.
func LoadTemplate(ctx context.Context, path string) (Template, error) {
	return templates.LoadFile(ctx, path)
}

// Build sets method and prefix on a fresh builder and builds it.
func Build(tpl Template, ent Entity, method, prefix string, options ...Option) (Descriptor, error) {
	return builder.New(tpl, ent, options...).SetMethod(method).SetPrefix(prefix).Build()
}
