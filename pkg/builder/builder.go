package builder

import (
	"fmt"
	"log/slog"

	"github.com/goliatone/go-formbuilder/pkg/entity"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// Builder assembles a form.Descriptor from a template through chained setters
// and a final Build. A Builder belongs to a single construction flow and is not
// safe for concurrent use.
//
// The first failing call is recorded: it leaves the draft untouched, every
// later call becomes a no-op and Build returns that error. Err exposes it
// without building.
type Builder struct {
	opts options

	draft   form.Template
	entity  entity.Entity
	actions []form.Action
	routes  map[form.Action]string
	labels  map[form.Action]string

	accessCheck bool
	built       bool
	err         error
}

// New starts a builder for tpl. ent is the record being edited and may be nil
// for create forms. The template is copied; the caller's value is never
// mutated.
func New(tpl form.Template, ent entity.Entity, opts ...Option) *Builder {
	b := &Builder{
		opts:        defaultOptions(),
		draft:       tpl.Clone(),
		entity:      ent,
		routes:      make(map[form.Action]string),
		labels:      make(map[form.Action]string),
		accessCheck: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&b.opts)
		}
	}

	if err := b.draft.Validate(); err != nil {
		b.err = fmt.Errorf("builder: %w", err)
		return b
	}
	for _, field := range b.draft.Fields {
		if err := schema.ValidateMeta(field.Meta, b.opts.strictMeta); err != nil {
			b.err = fmt.Errorf("builder: field %q: %w", field.Column, err)
			return b
		}
	}

	b.draft.Icon = form.SanitizeIcon(b.draft.Icon)
	b.fillValues()
	return b
}

// Err returns the first error recorded by a setter, or nil.
func (b *Builder) Err() error {
	return b.err
}

// fillValues copies matching entity attributes into field values.
func (b *Builder) fillValues() {
	source, ok := b.entity.(entity.AttributeSource)
	if !ok {
		return
	}
	for i := range b.draft.Fields {
		if value, found := source.Attribute(b.draft.Fields[i].Column); found {
			b.draft.Fields[i].Value = value
		}
	}
}

// usable reports whether the builder can still accept calls, recording
// ErrBuilderConsumed on use after Build.
func (b *Builder) usable() bool {
	if b.err != nil {
		return false
	}
	if b.built {
		b.err = form.ErrBuilderConsumed
		return false
	}
	return true
}

func (b *Builder) fail(err error) *Builder {
	b.err = err
	b.opts.logger.Debug("form builder call rejected", slog.String("error", err.Error()))
	return b
}

func (b *Builder) field(column string) (*form.Field, error) {
	idx := b.draft.FieldIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", form.ErrUnknownField, column)
	}
	return &b.draft.Fields[idx], nil
}
