package routing

import (
	"fmt"

	"github.com/gorilla/mux"
	"github.com/spf13/cast"
)

// MuxResolver resolves named routes registered on a gorilla/mux router.
// Positional parameters are paired with the route's variables in order.
type MuxResolver struct {
	router *mux.Router
}

var _ Resolver = (*MuxResolver)(nil)

// NewMuxResolver wraps router. Routes must be registered with .Name(...).
func NewMuxResolver(router *mux.Router) *MuxResolver {
	return &MuxResolver{router: router}
}

// ResolvePath builds the URL for the named route.
func (r *MuxResolver) ResolvePath(name string, params []any, absolute bool) (string, error) {
	if r == nil || r.router == nil {
		return "", fmt.Errorf("%w: %q (no router configured)", ErrRouteNotFound, name)
	}
	route := r.router.Get(name)
	if route == nil {
		return "", fmt.Errorf("%w: %q", ErrRouteNotFound, name)
	}

	vars, err := route.GetVarNames()
	if err != nil {
		return "", fmt.Errorf("routing: route %q: %w", name, err)
	}
	if len(vars) != len(params) {
		return "", fmt.Errorf("%w: route %q expects %d parameter(s), got %d", ErrRouteParams, name, len(vars), len(params))
	}

	pairs := make([]string, 0, len(vars)*2)
	for i, v := range vars {
		value, err := cast.ToStringE(params[i])
		if err != nil {
			return "", fmt.Errorf("%w: route %q parameter %q: %v", ErrRouteParams, name, v, err)
		}
		pairs = append(pairs, v, value)
	}

	if absolute {
		u, err := route.URL(pairs...)
		if err != nil {
			return "", fmt.Errorf("%w: route %q: %v", ErrRouteParams, name, err)
		}
		return u.String(), nil
	}
	u, err := route.URLPath(pairs...)
	if err != nil {
		return "", fmt.Errorf("%w: route %q: %v", ErrRouteParams, name, err)
	}
	return u.String(), nil
}
