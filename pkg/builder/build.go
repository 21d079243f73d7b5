package builder

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/i18n"
	"github.com/goliatone/go-formbuilder/pkg/routing"
)

// Build runs the resolution pipeline and returns the descriptor. It consumes
// the builder: later calls fail with form.ErrBuilderConsumed.
//
// Steps, in order: validate the method and bound entity, default the action
// list, resolve a route name per action, build the action block through the
// resolver, translate the title and labels.
func (b *Builder) Build() (form.Descriptor, error) {
	if b.built {
		return form.Descriptor{}, form.ErrBuilderConsumed
	}
	b.built = true
	if b.err != nil {
		b.notify(Result{Err: b.err}, time.Now())
		return form.Descriptor{}, b.err
	}

	start := time.Now()
	desc, result := b.run()
	b.notify(result, start)
	if result.Err != nil {
		b.err = result.Err
		b.opts.logger.Debug("form descriptor build failed", slog.String("error", result.Err.Error()))
		return form.Descriptor{}, result.Err
	}

	b.opts.logger.Debug("form descriptor built",
		slog.String("method", string(desc.Method)),
		slog.Any("actions", desc.Actions.Names()),
	)
	return desc, nil
}

func (b *Builder) run() (form.Descriptor, Result) {
	method, err := b.validateMethod()
	if err != nil {
		return form.Descriptor{}, Result{Err: err}
	}

	actions := b.actions
	if len(actions) == 0 {
		actions = method.DefaultActions()
	}
	result := Result{Method: method, Actions: append([]form.Action(nil), actions...)}

	routes, err := b.resolveRoutes(actions)
	if err != nil {
		result.Err = err
		return form.Descriptor{}, result
	}

	block, err := b.buildActions(actions, routes)
	if err != nil {
		result.Err = err
		return form.Descriptor{}, result
	}

	desc := form.Descriptor{
		Method:  method,
		Prefix:  b.draft.Prefix,
		Title:   b.draft.Title,
		Icon:    b.draft.Icon,
		Fields:  b.draft.Fields,
		Actions: block,
	}
	if b.entity != nil {
		desc.Entity = b.entity.ID()
	}
	if desc.Fields == nil {
		desc.Fields = []form.Field{}
	}

	b.translate(&desc)
	return desc, result
}

func (b *Builder) validateMethod() (form.Method, error) {
	method, err := form.ParseMethod(b.draft.Method)
	if err != nil {
		return "", err
	}
	if method != form.MethodPost && b.entity == nil {
		return "", fmt.Errorf("%w: method %q requires one", form.ErrMissingEntity, method)
	}
	return method, nil
}

func (b *Builder) resolveRoutes(actions []form.Action) (map[form.Action]string, error) {
	routes := make(map[form.Action]string, len(actions))
	for _, action := range actions {
		if route, ok := b.routes[action]; ok {
			routes[action] = route
			continue
		}
		prefix := strings.TrimSpace(b.draft.Prefix)
		if prefix == "" {
			return nil, fmt.Errorf("%w (action %q)", form.ErrMissingPrefix, action)
		}
		routes[action] = prefix + "." + string(action)
	}
	return routes, nil
}

func (b *Builder) buildActions(actions []form.Action, routes map[form.Action]string) (form.Actions, error) {
	if b.opts.resolver == nil {
		return nil, fmt.Errorf("builder: no route resolver configured: %w", routing.ErrRouteNotFound)
	}

	block := make(form.Actions, 0, len(actions))
	for _, action := range actions {
		var params []any
		if action.Member() {
			if b.entity == nil {
				return nil, fmt.Errorf("%w: action %q requires one", form.ErrMissingEntity, action)
			}
			params = []any{b.entity.ID()}
		}

		path, err := b.opts.resolver.ResolvePath(routes[action], params, false)
		if err != nil {
			return nil, err
		}

		label, ok := b.labels[action]
		if !ok {
			label = action.DefaultLabel()
		}
		block = append(block, form.ActionDescriptor{Name: action, Label: label, Path: path})
	}
	return block, nil
}

func (b *Builder) translate(desc *form.Descriptor) {
	desc.Title = i18n.Translate(b.opts.translator, b.opts.locale, desc.Title, b.opts.onMissing)
	for i := range desc.Actions {
		desc.Actions[i].Label = i18n.Translate(b.opts.translator, b.opts.locale, desc.Actions[i].Label, b.opts.onMissing)
	}
}

func (b *Builder) notify(result Result, start time.Time) {
	if b.opts.observer == nil {
		return
	}
	result.Duration = time.Since(start)
	b.opts.observer.ObserveBuild(result)
}
