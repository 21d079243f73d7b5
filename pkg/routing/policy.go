package routing

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"
)

// PolicyRule grants access to routes matching Route (a path.Match glob such as
// "users.*") when Allow evaluates to true. Allow is an expr-lang expression
// evaluated against {user, route}.
type PolicyRule struct {
	Route string `json:"route" yaml:"route"`
	Allow string `json:"allow" yaml:"allow"`
}

type compiledRule struct {
	route   string
	program *vm.Program
}

// PolicyGate is an AccessGate driven by expression rules. The first rule whose
// glob matches the route decides; routes with no matching rule fall back to
// the default decision.
type PolicyGate struct {
	rules        []compiledRule
	defaultAllow bool
}

var _ AccessGate = (*PolicyGate)(nil)

// PolicyOption configures a PolicyGate.
type PolicyOption func(*PolicyGate)

// WithDefaultAllow grants routes no rule matches.
func WithDefaultAllow(allow bool) PolicyOption {
	return func(g *PolicyGate) {
		g.defaultAllow = allow
	}
}

// NewPolicyGate compiles rules up front so misconfigured expressions fail at
// start-up rather than on first request.
func NewPolicyGate(rules []PolicyRule, options ...PolicyOption) (*PolicyGate, error) {
	gate := &PolicyGate{rules: make([]compiledRule, 0, len(rules))}
	for i, rule := range rules {
		glob := strings.TrimSpace(rule.Route)
		if glob == "" {
			return nil, fmt.Errorf("routing: policy rule %d has an empty route", i)
		}
		if _, err := path.Match(glob, ""); err != nil {
			return nil, fmt.Errorf("routing: policy rule %d route %q: %w", i, glob, err)
		}
		program, err := expr.Compile(rule.Allow, expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("routing: policy rule %d compile expression: %w", i, err)
		}
		gate.rules = append(gate.rules, compiledRule{route: glob, program: program})
	}
	for _, opt := range options {
		if opt != nil {
			opt(gate)
		}
	}
	return gate, nil
}

// CanAccess evaluates the first matching rule. Evaluation errors deny.
func (g *PolicyGate) CanAccess(user any, route string) bool {
	for _, rule := range g.rules {
		if ok, _ := path.Match(rule.route, route); !ok {
			continue
		}
		env := map[string]any{
			"user":  user,
			"route": route,
		}
		result, err := expr.Run(rule.program, env)
		if err != nil {
			return false
		}
		allowed, ok := result.(bool)
		return ok && allowed
	}
	return g.defaultAllow
}

type policyFile struct {
	DefaultAllow bool         `json:"defaultAllow" yaml:"defaultAllow"`
	Rules        []PolicyRule `json:"rules" yaml:"rules"`
}

// LoadPolicy reads a JSON or YAML policy document from fsys.
func LoadPolicy(fsys fs.FS, name string) (*PolicyGate, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("routing: read %s: %w", name, err)
	}
	var doc policyFile
	if err := json.Unmarshal(data, &doc); err != nil {
		if yerr := yaml.Unmarshal(data, &doc); yerr != nil {
			return nil, fmt.Errorf("routing: parse %s: invalid JSON or YAML", name)
		}
	}
	return NewPolicyGate(doc.Rules, WithDefaultAllow(doc.DefaultAllow))
}
