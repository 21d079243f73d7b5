package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/form"
)

// LoadFile reads a JSON or YAML template from disk.
func LoadFile(ctx context.Context, path string) (form.Template, error) {
	if path == "" {
		return form.Template{}, errors.New("templates: file path is required")
	}
	if err := ctx.Err(); err != nil {
		return form.Template{}, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return form.Template{}, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return form.Template{}, fmt.Errorf("templates: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads a JSON or YAML template from fsys.
func LoadFS(ctx context.Context, fsys fs.FS, name string) (form.Template, error) {
	if name == "" {
		return form.Template{}, errors.New("templates: fs path is required")
	}
	if fsys == nil {
		return form.Template{}, errors.New("templates: fs is nil")
	}
	if err := ctx.Err(); err != nil {
		return form.Template{}, err
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return form.Template{}, fmt.Errorf("templates: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// Parse decodes a template payload, trying JSON first and YAML second.
// source is only used in error messages.
func Parse(data []byte, source string) (form.Template, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return form.Template{}, fmt.Errorf("templates: file %s is empty", source)
	}

	var tpl form.Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		tpl = form.Template{}
		if yerr := yaml.Unmarshal(data, &tpl); yerr != nil {
			return form.Template{}, fmt.Errorf("templates: parse %s: invalid JSON or YAML", source)
		}
	}
	if len(tpl.Fields) == 0 {
		return form.Template{}, fmt.Errorf("templates: file %s defines no fields", source)
	}
	if err := tpl.Validate(); err != nil {
		return form.Template{}, fmt.Errorf("templates: file %s: %w", source, err)
	}
	for i := range tpl.Fields {
		tpl.Fields[i].Meta = normalizeMeta(tpl.Fields[i].Meta)
	}
	return tpl, nil
}

// normalizeMeta converts YAML-decoded nested maps into JSON-compatible
// map[string]any values so descriptors marshal identically from either format.
func normalizeMeta(meta form.Meta) form.Meta {
	if meta == nil {
		return nil
	}
	out := make(form.Meta, len(meta))
	for k, v := range meta {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			out[k] = normalizeValue(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			out[fmt.Sprint(k)] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

func isTemplateFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
