package templates

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/form"
)

// Store keeps parsed templates keyed by name (the file path without its
// extension, e.g. "users/edit"). It is safe for concurrent readers when treated
// as immutable after construction.
type Store struct {
	templates map[string]form.Template
}

// LoadStore walks fsys and parses every JSON/YAML file as a template. When
// fsys is nil the returned store is empty.
func LoadStore(ctx context.Context, fsys fs.FS) (*Store, error) {
	store := &Store{templates: make(map[string]form.Template)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !isTemplateFile(name) {
			return nil
		}

		tpl, err := LoadFS(ctx, fsys, name)
		if err != nil {
			return err
		}

		key := strings.TrimSuffix(name, path.Ext(name))
		if _, exists := store.templates[key]; exists {
			return fmt.Errorf("templates: duplicate template %q (file %s)", key, name)
		}
		store.templates[key] = tpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Template returns a copy of the named template so callers can hand it to a
// builder without affecting other requests.
func (s *Store) Template(name string) (form.Template, bool) {
	if s == nil {
		return form.Template{}, false
	}
	tpl, ok := s.templates[name]
	if !ok {
		return form.Template{}, false
	}
	return tpl.Clone(), true
}

// Names lists the stored template names sorted.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the store holds any templates.
func (s *Store) Empty() bool {
	return s == nil || len(s.templates) == 0
}
