package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPIResolver treats every operationId of an OpenAPI document as a route
// name, so "users.update" resolves to the path that operation is mounted on.
type OpenAPIResolver struct {
	table *Table
}

var _ Resolver = (*OpenAPIResolver)(nil)

// NewOpenAPIResolver parses raw (JSON or YAML) and indexes its operations.
func NewOpenAPIResolver(ctx context.Context, raw []byte) (*OpenAPIResolver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("routing: openapi document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("routing: load openapi document: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("routing: openapi document does not contain any paths")
	}

	routes := make(map[string]string)
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op == nil {
				continue
			}
			id := strings.TrimSpace(op.OperationID)
			if id == "" {
				continue
			}
			if existing, dup := routes[id]; dup && existing != path {
				return nil, fmt.Errorf("routing: operationId %q is mounted on both %s and %s", id, existing, path)
			}
			routes[id] = path
		}
	}
	if len(routes) == 0 {
		return nil, errors.New("routing: openapi document defines no operationIds")
	}

	var base string
	if len(doc.Servers) > 0 && doc.Servers[0] != nil {
		base = doc.Servers[0].URL
	}

	return &OpenAPIResolver{table: NewTable(routes, WithBaseURL(base))}, nil
}

// ResolvePath expands the operation path for the given operationId.
func (r *OpenAPIResolver) ResolvePath(name string, params []any, absolute bool) (string, error) {
	return r.table.ResolvePath(name, params, absolute)
}

// Routes lists the indexed operationIds.
func (r *OpenAPIResolver) Routes() []string {
	return r.table.Names()
}
