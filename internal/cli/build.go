package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/httpapi"
)

// buildInput collects the build command's flags.
type buildInput struct {
	Template     string
	Method       string
	Prefix       string
	Title        string
	Icon         string
	Entity       string
	Actions      []string
	Routes       []string
	Labels       []string
	Values       []string
	Locale       string
	User         string
	Roles        []string
	Format       string
	Interactive  bool
	Lenient      bool
	StrictAccess bool
}

// assignment is a parsed "<key>=<value>" flag.
type assignment struct {
	Key   string
	Value string
}

func parseAssignments(flag string, raw []string) ([]assignment, error) {
	out := make([]assignment, 0, len(raw))
	for _, item := range raw {
		key, value, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("cli: --%s %q must be <key>=<value>", flag, item)
		}
		out = append(out, assignment{Key: key, Value: strings.TrimSpace(value)})
	}
	return out, nil
}

func buildCmd(state *rootState) *cobra.Command {
	in := &buildInput{}

	cmd := &cobra.Command{
		Use:   "build <template>",
		Short: "Build a form descriptor from a template",
		Long: `Build resolves a form template into a descriptor carrying the HTTP method,
the fields and one entry per action with its translated label and path.

<template> is either a template file or a name inside templates.dir.`,
		Example: `  formbuilder build users --method post --prefix users
  formbuilder build users --method put --prefix users --entity 42 --actions update,destroy
  formbuilder build ./forms/users.yaml --route store=people.save --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Template = args[0]
			a, err := state.app(cmd.Context())
			if err != nil {
				return err
			}
			if in.Interactive {
				if err := promptMissing(cmd.Context(), state.prompter, in); err != nil {
					return err
				}
			}

			desc, err := runBuild(cmd.Context(), a, in)
			if err != nil {
				printFailure(cmd.ErrOrStderr(), err)
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), in.Format, desc); err != nil {
				return err
			}
			printStatus(cmd.ErrOrStderr(), "built %s form with actions %s", desc.Method, joinActions(desc.Actions.Names()))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&in.Method, "method", "m", "", "HTTP method: POST, PATCH or PUT")
	flags.StringVarP(&in.Prefix, "prefix", "p", "", "route name prefix, routes become <prefix>.<action>")
	flags.StringVar(&in.Title, "title", "", "form title (translated)")
	flags.StringVar(&in.Icon, "icon", "", "form icon class or inline SVG")
	flags.StringVarP(&in.Entity, "entity", "e", "", "identifier of the record being edited")
	flags.StringSliceVarP(&in.Actions, "actions", "a", nil, "actions to render (create, store, update, destroy)")
	flags.StringArrayVar(&in.Routes, "route", nil, "explicit route per action, <action>=<route name>")
	flags.StringArrayVar(&in.Labels, "label", nil, "button label override, <action>=<label>")
	flags.StringArrayVar(&in.Values, "value", nil, "field value, <column>=<value>")
	flags.StringVarP(&in.Locale, "locale", "l", "", "locale for labels and title (defaults to i18n.locale)")
	flags.StringVar(&in.User, "user", "", "user id checked against the route policy")
	flags.StringSliceVar(&in.Roles, "role", nil, "roles of --user")
	flags.StringVarP(&in.Format, "format", "f", formatJSON, "output format: json or yaml")
	flags.BoolVarP(&in.Interactive, "interactive", "i", false, "prompt for missing method, prefix, actions and entity")
	flags.BoolVar(&in.Lenient, "lenient", false, "accept metadata attributes outside the schema table")
	flags.BoolVar(&in.StrictAccess, "strict-access", false, "fail instead of ignoring routes the policy denies")
	return cmd
}

func runBuild(ctx context.Context, a *app, in *buildInput) (form.Descriptor, error) {
	routes, err := parseAssignments("route", in.Routes)
	if err != nil {
		return form.Descriptor{}, err
	}
	labels, err := parseAssignments("label", in.Labels)
	if err != nil {
		return form.Descriptor{}, err
	}
	values, err := parseAssignments("value", in.Values)
	if err != nil {
		return form.Descriptor{}, err
	}

	tpl, err := a.loadTemplate(ctx, in.Template)
	if err != nil {
		return form.Descriptor{}, err
	}
	ent, err := a.findEntity(ctx, strings.TrimSpace(in.Entity))
	if err != nil {
		return form.Descriptor{}, err
	}

	locale := in.Locale
	if locale == "" {
		locale = a.cfg.I18n.Locale
	}
	opts := []builder.Option{
		builder.WithResolver(a.resolver),
		builder.WithTranslator(a.translator, locale),
		builder.WithLogger(a.logger),
	}
	if a.gate != nil {
		var user any
		if in.User != "" {
			user = &httpapi.User{ID: in.User, Roles: in.Roles}
		}
		opts = append(opts, builder.WithAccessGate(a.gate, user))
	}
	if in.Lenient {
		opts = append(opts, builder.WithLenientMeta())
	}
	if in.StrictAccess || a.cfg.Policy.Strict {
		opts = append(opts, builder.WithStrictRouteAccess())
	}

	b := builder.New(tpl, ent, opts...).SetMethod(in.Method)
	if in.Prefix != "" {
		b.SetPrefix(in.Prefix)
	}
	if in.Title != "" {
		b.SetTitle(in.Title)
	}
	if in.Icon != "" {
		b.SetIcon(in.Icon)
	}
	if len(in.Actions) > 0 {
		b.SetActions(in.Actions...)
	}
	for _, r := range routes {
		b.SetRoute(r.Key, r.Value)
	}
	for _, l := range labels {
		b.SetButtonLabel(l.Key, l.Value)
	}
	for _, v := range values {
		b.SetValue(v.Key, v.Value)
	}
	return b.Build()
}

func joinActions(actions []form.Action) string {
	parts := make([]string, len(actions))
	for i, action := range actions {
		parts[i] = string(action)
	}
	return strings.Join(parts, ", ")
}
