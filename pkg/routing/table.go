package routing

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table is a static route table keyed by route name. It is safe for
// concurrent readers once constructed.
type Table struct {
	baseURL string
	routes  map[string]string
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithBaseURL sets the scheme/host prefix used for absolute paths.
func WithBaseURL(base string) TableOption {
	return func(t *Table) {
		t.baseURL = strings.TrimSpace(base)
	}
}

// NewTable builds a table from name → pattern pairs such as
// "users.update": "/users/{user}".
func NewTable(routes map[string]string, options ...TableOption) *Table {
	t := &Table{routes: make(map[string]string, len(routes))}
	for name, pattern := range routes {
		t.routes[strings.TrimSpace(name)] = pattern
	}
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

var _ Resolver = (*Table)(nil)

// ResolvePath expands the named pattern.
func (t *Table) ResolvePath(name string, params []any, absolute bool) (string, error) {
	pattern, ok := t.routes[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrRouteNotFound, name)
	}
	path, err := Expand(name, pattern, params)
	if err != nil {
		return "", err
	}
	if absolute {
		return joinBase(t.baseURL, path), nil
	}
	return path, nil
}

// Has reports whether name is registered.
func (t *Table) Has(name string) bool {
	_, ok := t.routes[name]
	return ok
}

// Names returns the registered route names sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.routes))
	for name := range t.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type tableFile struct {
	BaseURL string            `json:"baseURL" yaml:"baseURL"`
	Routes  map[string]string `json:"routes" yaml:"routes"`
}

// LoadTable reads a JSON or YAML route table from fsys. options are applied
// after the file's own settings.
func LoadTable(fsys fs.FS, name string, options ...TableOption) (*Table, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("routing: read %s: %w", name, err)
	}
	return ParseTable(data, name, options...)
}

// ParseTable decodes a route table payload. source is used in errors only.
func ParseTable(data []byte, source string, options ...TableOption) (*Table, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("routing: file %s is empty", source)
	}

	var doc tableFile
	if err := json.Unmarshal(data, &doc); err != nil {
		if yerr := yaml.Unmarshal(data, &doc); yerr != nil {
			return nil, fmt.Errorf("routing: parse %s: invalid JSON or YAML", source)
		}
	}
	if len(doc.Routes) == 0 {
		return nil, fmt.Errorf("routing: file %s defines no routes", source)
	}
	for name := range doc.Routes {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("routing: file %s defines an empty route name", source)
		}
	}
	return NewTable(doc.Routes, append([]TableOption{WithBaseURL(doc.BaseURL)}, options...)...), nil
}
