package form

import (
	"fmt"
	"strings"
)

// Action is one of the form operations a descriptor can expose.
type Action string

const (
	ActionCreate  Action = "create"
	ActionStore   Action = "store"
	ActionUpdate  Action = "update"
	ActionDestroy Action = "destroy"
)

var allowedActions = []Action{ActionCreate, ActionStore, ActionUpdate, ActionDestroy}

// AllActions returns the supported actions in canonical order.
func AllActions() []Action {
	return append([]Action(nil), allowedActions...)
}

// ParseAction converts untrusted input into an Action. Matching is exact:
// "delete" is rejected, only "destroy" is accepted.
func ParseAction(raw string) (Action, error) {
	for _, action := range allowedActions {
		if string(action) == raw {
			return action, nil
		}
	}
	return "", fmt.Errorf("%w %q: allowed actions are %s", ErrInvalidAction, raw, joinActions(allowedActions))
}

// Member reports whether the action addresses an existing record and thus
// needs the bound entity's identifier in its route.
func (a Action) Member() bool {
	return a == ActionUpdate || a == ActionDestroy
}

// DefaultLabel returns the built-in button label for the action.
func (a Action) DefaultLabel() string {
	switch a {
	case ActionCreate:
		return "Add"
	case ActionStore:
		return "Create"
	case ActionUpdate:
		return "Save"
	case ActionDestroy:
		return "Delete"
	default:
		return ""
	}
}

// Method is the HTTP verb the form submits with.
type Method string

const (
	MethodPost  Method = "post"
	MethodPut   Method = "put"
	MethodPatch Method = "patch"
)

var allowedMethods = []Method{MethodPost, MethodPut, MethodPatch}

// ParseMethod normalises raw to lowercase and validates it.
func ParseMethod(raw string) (Method, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrMissingMethod
	}
	normalized := Method(strings.ToLower(strings.TrimSpace(raw)))
	for _, method := range allowedMethods {
		if method == normalized {
			return method, nil
		}
	}
	return "", fmt.Errorf("%w %q: allowed values are 'POST', 'PATCH' or 'PUT'", ErrInvalidMethod, raw)
}

// DefaultActions returns the action list used when none was configured.
func (m Method) DefaultActions() []Action {
	if m == MethodPost {
		return []Action{ActionStore}
	}
	return []Action{ActionCreate, ActionUpdate, ActionDestroy}
}

// Meta holds per-field UI attributes keyed by attribute name.
type Meta map[string]any

// Type returns the field type attribute.
func (m Meta) Type() string {
	if m == nil {
		return ""
	}
	if t, ok := m["type"].(string); ok {
		return t
	}
	return ""
}

// Clone returns a shallow copy of the attribute map.
func (m Meta) Clone() Meta {
	if m == nil {
		return nil
	}
	out := make(Meta, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Field is one editable unit of the form, addressed by Column.
type Field struct {
	Column string `json:"column" yaml:"column"`
	Value  any    `json:"value" yaml:"value"`
	Meta   Meta   `json:"meta" yaml:"meta"`
}

// Clone copies the field, including its metadata map.
func (f Field) Clone() Field {
	out := f
	out.Meta = f.Meta.Clone()
	return out
}

// Template is the declarative starting point for a descriptor. Method, Prefix
// and Title are usually left empty and set through the builder.
type Template struct {
	Method string  `json:"method,omitempty" yaml:"method,omitempty"`
	Prefix string  `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Icon   string  `json:"icon,omitempty" yaml:"icon,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Clone deep-copies the field list so builders never mutate the caller's
// template.
func (t Template) Clone() Template {
	out := t
	if t.Fields != nil {
		out.Fields = make([]Field, len(t.Fields))
		for i, field := range t.Fields {
			out.Fields[i] = field.Clone()
		}
	}
	return out
}

// FieldIndex returns the index of the first field whose column matches, or -1.
func (t Template) FieldIndex(column string) int {
	for i := range t.Fields {
		if t.Fields[i].Column == column {
			return i
		}
	}
	return -1
}

// Validate reports duplicate or empty column names.
func (t Template) Validate() error {
	seen := make(map[string]struct{}, len(t.Fields))
	for i, field := range t.Fields {
		if strings.TrimSpace(field.Column) == "" {
			return fmt.Errorf("form: field at index %d has an empty column", i)
		}
		if _, dup := seen[field.Column]; dup {
			return fmt.Errorf("form: duplicate field column %q", field.Column)
		}
		seen[field.Column] = struct{}{}
	}
	return nil
}

// ActionDescriptor is the resolved, labelled affordance for one action.
type ActionDescriptor struct {
	Name  Action `json:"-" yaml:"-"`
	Label string `json:"label" yaml:"label"`
	Path  string `json:"path" yaml:"path"`
}

// Descriptor is the fully resolved form document returned by the builder.
type Descriptor struct {
	Method  Method  `json:"method" yaml:"method"`
	Prefix  string  `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Title   string  `json:"title" yaml:"title"`
	Icon    string  `json:"icon,omitempty" yaml:"icon,omitempty"`
	Fields  []Field `json:"fields" yaml:"fields"`
	Actions Actions `json:"actions" yaml:"actions"`
	// Entity is the bound record identifier, if any.
	Entity any `json:"-" yaml:"-"`
}

// Field returns the first field with the given column.
func (d Descriptor) Field(column string) (Field, bool) {
	for _, field := range d.Fields {
		if field.Column == column {
			return field, true
		}
	}
	return Field{}, false
}

func joinActions(actions []Action) string {
	parts := make([]string, len(actions))
	for i, action := range actions {
		parts[i] = "'" + string(action) + "'"
	}
	return strings.Join(parts, ", ")
}
