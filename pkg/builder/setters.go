package builder

import (
	"fmt"
	"log/slog"

	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// SetMethod stores the HTTP method. It is validated by Build.
func (b *Builder) SetMethod(method string) *Builder {
	if !b.usable() {
		return b
	}
	b.draft.Method = method
	return b
}

// SetActions replaces the action list. Every entry must be one of create,
// store, update or destroy; repeated entries keep their first position. An
// empty list restores the method defaults.
func (b *Builder) SetActions(actions ...string) *Builder {
	if !b.usable() {
		return b
	}
	parsed := make([]form.Action, 0, len(actions))
	seen := make(map[form.Action]struct{}, len(actions))
	for _, raw := range actions {
		action, err := form.ParseAction(raw)
		if err != nil {
			return b.fail(err)
		}
		if _, dup := seen[action]; dup {
			continue
		}
		seen[action] = struct{}{}
		parsed = append(parsed, action)
	}
	if len(parsed) == 0 {
		parsed = nil
	}
	b.actions = parsed
	return b
}

// SetPrefix sets the route-name prefix used to synthesize "<prefix>.<action>".
func (b *Builder) SetPrefix(prefix string) *Builder {
	if !b.usable() {
		return b
	}
	b.draft.Prefix = prefix
	return b
}

// SetTitle sets the untranslated form title.
func (b *Builder) SetTitle(title string) *Builder {
	if !b.usable() {
		return b
	}
	b.draft.Title = title
	return b
}

// SetIcon sets the form icon, either a class list or inline SVG markup.
func (b *Builder) SetIcon(icon string) *Builder {
	if !b.usable() {
		return b
	}
	b.draft.Icon = form.SanitizeIcon(icon)
	return b
}

// SetRoute pins the route name for an action. When the access check is
// enabled and the configured gate denies the route, the call is ignored, or
// fails with form.ErrRouteAccessDenied under WithStrictRouteAccess.
func (b *Builder) SetRoute(action, route string) *Builder {
	if !b.usable() {
		return b
	}
	parsed, err := form.ParseAction(action)
	if err != nil {
		return b.fail(err)
	}

	if b.accessCheck && b.opts.gate != nil && !b.opts.gate.CanAccess(b.opts.user, route) {
		if b.opts.strictAccess {
			return b.fail(fmt.Errorf("%w: %s", form.ErrRouteAccessDenied, route))
		}
		b.opts.logger.Debug("form route skipped, access denied",
			slog.String("action", string(parsed)),
			slog.String("route", route),
		)
		return b
	}

	b.routes[parsed] = route
	return b
}

// SetButtonLabel overrides the default label for an action.
func (b *Builder) SetButtonLabel(action, label string) *Builder {
	if !b.usable() {
		return b
	}
	parsed, err := form.ParseAction(action)
	if err != nil {
		return b.fail(err)
	}
	b.labels[parsed] = label
	return b
}

// SetSelectOptions stores the options list of a select field.
func (b *Builder) SetSelectOptions(column string, options any) *Builder {
	return b.SetMetaParam(column, "options", options)
}

// SetSelectSource stores the remote options source of a select field.
func (b *Builder) SetSelectSource(column, source string) *Builder {
	return b.SetMetaParam(column, "source", source)
}

// SetValue sets the current value of a field.
func (b *Builder) SetValue(column string, value any) *Builder {
	if !b.usable() {
		return b
	}
	field, err := b.field(column)
	if err != nil {
		return b.fail(err)
	}
	field.Value = value
	return b
}

// SetMetaParam sets one metadata attribute of a field. By default attribute
// names are checked against the schema table and known boolean/numeric
// attributes are coerced from their string forms. WithLenientMeta stores the
// value verbatim; only the type attribute is still validated.
func (b *Builder) SetMetaParam(column, param string, value any) *Builder {
	if !b.usable() {
		return b
	}
	field, err := b.field(column)
	if err != nil {
		return b.fail(err)
	}
	if b.opts.strictMeta && !schema.IsAttribute(param) {
		return b.fail(fmt.Errorf("builder: field %q: %w %q", column, schema.ErrUnknownAttribute, param))
	}
	stored := value
	if b.opts.strictMeta || param == schema.AttributeType {
		stored, err = schema.Coerce(param, value)
		if err != nil {
			return b.fail(fmt.Errorf("builder: field %q: %w", column, err))
		}
	}
	if param == schema.AttributeType && stored == nil {
		return b.fail(fmt.Errorf("builder: field %q: %w %q", column, schema.ErrMissingAttribute, param))
	}

	if field.Meta == nil {
		field.Meta = form.Meta{}
	}
	field.Meta[param] = stored
	return b
}

// DisableRouteAccessCheck stops SetRoute from consulting the access gate.
func (b *Builder) DisableRouteAccessCheck() *Builder {
	if !b.usable() {
		return b
	}
	b.accessCheck = false
	return b
}
