package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-formbuilder/pkg/form"
)

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("cli: aborted")

// InputConfig configures a basic text input prompt.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// SelectConfig configures a single or multi-select prompt.
type SelectConfig struct {
	Message  string
	Options  []string
	Default  string
	Defaults []string // multi-select only
	Help     string
}

// Prompter abstracts the terminal so the interactive build flow can be
// tested without a real TTY.
type Prompter interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Select(ctx context.Context, cfg SelectConfig) (string, error)
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	var opts []survey.AskOpt
	if cfg.Validator != nil {
		opts = append(opts, survey.WithValidator(func(ans any) error {
			s, _ := ans.(string)
			return cfg.Validator(s)
		}))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Select(ctx context.Context, cfg SelectConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Select{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if cfg.Default != "" {
		prompt.Default = cfg.Default
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) MultiSelect(ctx context.Context, cfg SelectConfig) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []string
	prompt := &survey.MultiSelect{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if len(cfg.Defaults) > 0 {
		prompt.Default = cfg.Defaults
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return nil, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// promptMissing asks for the build inputs the flags left empty.
func promptMissing(ctx context.Context, p Prompter, in *buildInput) error {
	if strings.TrimSpace(in.Method) == "" {
		method, err := p.Select(ctx, SelectConfig{
			Message: "HTTP method",
			Options: []string{"POST", "PATCH", "PUT"},
			Default: "POST",
		})
		if err != nil {
			return err
		}
		in.Method = method
	}

	if strings.TrimSpace(in.Prefix) == "" && len(in.Routes) == 0 {
		prefix, err := p.Input(ctx, InputConfig{
			Message: "Route prefix",
			Help:    "Route names are synthesized as <prefix>.<action>",
			Validator: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("prefix is required")
				}
				return nil
			},
		})
		if err != nil {
			return err
		}
		in.Prefix = strings.TrimSpace(prefix)
	}

	if len(in.Actions) == 0 {
		method, err := form.ParseMethod(in.Method)
		if err != nil {
			return err
		}
		var options, defaults []string
		for _, action := range form.AllActions() {
			options = append(options, string(action))
		}
		for _, action := range method.DefaultActions() {
			defaults = append(defaults, string(action))
		}
		actions, err := p.MultiSelect(ctx, SelectConfig{
			Message:  "Actions",
			Options:  options,
			Defaults: defaults,
		})
		if err != nil {
			return err
		}
		in.Actions = actions
	}

	if in.Entity == "" && in.Method != "" && !strings.EqualFold(in.Method, "post") {
		id, err := p.Input(ctx, InputConfig{Message: "Entity id"})
		if err != nil {
			return err
		}
		in.Entity = strings.TrimSpace(id)
	}
	return nil
}
