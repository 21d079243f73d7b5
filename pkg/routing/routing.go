package routing

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

var (
	// ErrRouteNotFound reports a route name the resolver does not know.
	ErrRouteNotFound = errors.New("routing: route not defined")
	// ErrRouteParams reports a parameter list that does not fit the route.
	ErrRouteParams = errors.New("routing: route parameters mismatch")
)

// Resolver maps a route name plus positional parameters to a path.
type Resolver interface {
	ResolvePath(name string, params []any, absolute bool) (string, error)
}

// ResolverFunc adapts a function into a Resolver.
type ResolverFunc func(name string, params []any, absolute bool) (string, error)

// ResolvePath calls the underlying function.
func (fn ResolverFunc) ResolvePath(name string, params []any, absolute bool) (string, error) {
	return fn(name, params, absolute)
}

// AccessGate decides whether a user may reach a named route.
type AccessGate interface {
	CanAccess(user any, route string) bool
}

// GateFunc adapts a function into an AccessGate.
type GateFunc func(user any, route string) bool

// CanAccess calls the underlying function.
func (fn GateFunc) CanAccess(user any, route string) bool {
	return fn(user, route)
}

// AllowAll grants every route.
var AllowAll AccessGate = GateFunc(func(any, string) bool { return true })

var placeholderPattern = regexp.MustCompile(`\{([^{}:]+)(?::[^{}]*)?\}`)

// Placeholders lists the `{name}` / `{name:regex}` variables of a pattern in
// order of appearance.
func Placeholders(pattern string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(pattern, -1)
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, strings.TrimSpace(match[1]))
	}
	return out
}

// Expand substitutes positional params into the pattern's placeholders.
func Expand(name, pattern string, params []any) (string, error) {
	vars := Placeholders(pattern)
	if len(vars) != len(params) {
		return "", fmt.Errorf("%w: route %q expects %d parameter(s), got %d", ErrRouteParams, name, len(vars), len(params))
	}
	idx := 0
	var expandErr error
	out := placeholderPattern.ReplaceAllStringFunc(pattern, func(string) string {
		value, err := cast.ToStringE(params[idx])
		idx++
		if err != nil && expandErr == nil {
			expandErr = fmt.Errorf("%w: route %q parameter %d: %v", ErrRouteParams, name, idx, err)
		}
		return url.PathEscape(value)
	})
	if expandErr != nil {
		return "", expandErr
	}
	return out, nil
}

func joinBase(base, path string) string {
	if base == "" {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
