package templates_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/templates"
)

const userYAML = `title: Edit user
icon: fas fa-user
fields:
  - column: name
    value: null
    meta:
      type: input
      placeholder: Full name
  - column: role
    value: member
    meta:
      type: select
      options:
        - {id: admin, name: Admin}
        - {id: member, name: Member}
`

func TestParseYAMLAndJSONAgree(t *testing.T) {
	fromYAML, err := templates.Parse([]byte(userYAML), "user.yaml")
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}

	const userJSON = `{"title":"Edit user","icon":"fas fa-user","fields":[
		{"column":"name","value":null,"meta":{"type":"input","placeholder":"Full name"}},
		{"column":"role","value":"member","meta":{"type":"select","options":[{"id":"admin","name":"Admin"},{"id":"member","name":"Member"}]}}
	]}`
	fromJSON, err := templates.Parse([]byte(userJSON), "user.json")
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}

	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Fatalf("yaml/json mismatch (-json +yaml):\n%s", diff)
	}
}

func TestParseRejectsInvalidTemplates(t *testing.T) {
	cases := map[string]string{
		"empty":     "   ",
		"no fields": "title: x\n",
		"duplicate": "fields:\n  - {column: a, meta: {type: input}}\n  - {column: a, meta: {type: input}}\n",
		"garbage":   "fields: [",
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := templates.Parse([]byte(payload), name); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.yaml")
	if err := os.WriteFile(path, []byte(userYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tpl, err := templates.LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tpl.Title != "Edit user" || len(tpl.Fields) != 2 {
		t.Fatalf("unexpected template %#v", tpl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := templates.LoadFile(ctx, path); err == nil {
		t.Fatalf("expected cancelled context error")
	}
}

func TestLoadStore(t *testing.T) {
	fsys := fstest.MapFS{
		"users/edit.yaml":   {Data: []byte(userYAML)},
		"posts/create.json": {Data: []byte(`{"fields":[{"column":"title","meta":{"type":"input"}}]}`)},
		"notes.txt":         {Data: []byte("ignored")},
	}

	store, err := templates.LoadStore(context.Background(), fsys)
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	if diff := cmp.Diff([]string{"posts/create", "users/edit"}, store.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	tpl, ok := store.Template("users/edit")
	if !ok {
		t.Fatalf("expected users/edit template")
	}
	tpl.Fields[0].Meta["type"] = "textarea"

	again, _ := store.Template("users/edit")
	if again.Fields[0].Meta.Type() != "input" {
		t.Fatalf("expected store copies to be isolated, got %q", again.Fields[0].Meta.Type())
	}

	if _, ok := store.Template("missing"); ok {
		t.Fatalf("expected missing template lookup to fail")
	}
}

func TestLoadStoreRejectsDuplicates(t *testing.T) {
	fsys := fstest.MapFS{
		"users.yaml": {Data: []byte(userYAML)},
		"users.json": {Data: []byte(`{"fields":[{"column":"title","meta":{"type":"input"}}]}`)},
	}
	if _, err := templates.LoadStore(context.Background(), fsys); err == nil {
		t.Fatalf("expected duplicate template error")
	}
}

func TestNilStore(t *testing.T) {
	var store *templates.Store
	if !store.Empty() {
		t.Fatalf("expected nil store to be empty")
	}
	if _, ok := store.Template("x"); ok {
		t.Fatalf("expected nil store lookup to fail")
	}
}
