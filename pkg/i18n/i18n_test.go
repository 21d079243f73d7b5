package i18n_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formbuilder/pkg/i18n"
)

func TestTranslateFallsBackToKey(t *testing.T) {
	if got := i18n.Translate(nil, "es", "Save", nil); got != "Save" {
		t.Fatalf("expected identity without translator, got %q", got)
	}

	msgs := i18n.Messages{"es": {"Save": "Guardar", "Blank": " "}}
	if got := i18n.Translate(msgs, "es", "Save", nil); got != "Guardar" {
		t.Fatalf("expected Guardar, got %q", got)
	}
	if got := i18n.Translate(msgs, "es", "Delete", nil); got != "Delete" {
		t.Fatalf("expected identity on miss, got %q", got)
	}
	if got := i18n.Translate(msgs, "es", "Blank", nil); got != "Blank" {
		t.Fatalf("expected blank translations to fall back, got %q", got)
	}
}

func TestTranslateUsesMissingHandler(t *testing.T) {
	var gotErr error
	handler := func(locale, key string, _ []any, err error) string {
		gotErr = err
		return "[" + locale + ":" + key + "]"
	}
	if got := i18n.Translate(nil, "de", "Add", handler); got != "[de:Add]" {
		t.Fatalf("unexpected handler output %q", got)
	}
	if !errors.Is(gotErr, i18n.ErrMissingTranslator) {
		t.Fatalf("expected ErrMissingTranslator, got %v", gotErr)
	}
}

func TestCatalogMatchesLocales(t *testing.T) {
	c, err := i18n.NewCatalog("en")
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	mustSet(t, c, "en", "Save", "Save")
	mustSet(t, c, "en", "Delete", "Delete")
	mustSet(t, c, "es", "Save", "Guardar")
	mustSet(t, c, "es", "Edit %s", "Editar %s")
	mustSet(t, c, "es", "Discount", "Descuento 50%")

	tests := []struct {
		locale, key, want string
	}{
		{"es", "Save", "Guardar"},
		{"es-MX", "Save", "Guardar"},
		{"es", "Delete", "Delete"},
		{"", "Save", "Save"},
		{"not a locale!", "Save", "Save"},
		{"es", "Discount", "Descuento 50%"},
		{"es", "Edit %s", "Editar %s"},
	}
	for _, tt := range tests {
		got, err := c.Translate(tt.locale, tt.key)
		if err != nil {
			t.Fatalf("%s/%s: %v", tt.locale, tt.key, err)
		}
		if got != tt.want {
			t.Fatalf("%s/%s: expected %q, got %q", tt.locale, tt.key, tt.want, got)
		}
	}

	got, err := c.Translate("es", "Edit %s", "usuario")
	if err != nil || got != "Editar usuario" {
		t.Fatalf("expected formatted message, got %q (%v)", got, err)
	}

	if got := i18n.Translate(c, "es", "Discount", nil); got != "Descuento 50%" {
		t.Fatalf("expected verbatim message, got %q", got)
	}

	if _, err := c.Translate("es", "Unknown"); !errors.Is(err, i18n.ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}
}

func TestLoadCatalogFS(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/es.yaml": {Data: []byte("Create: Crear\nUser: Usuario\n")},
		"locales/fr.json": {Data: []byte(`{"Create":"Créer"}`)},
		"locales/README":  {Data: []byte("ignored")},
	}
	c, err := i18n.LoadCatalogFS(fsys, "en")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := c.Locales(); len(got) != 2 || got[0] != "es" || got[1] != "fr" {
		t.Fatalf("unexpected locales %v", got)
	}
	if got := i18n.Translate(c, "fr", "Create", nil); got != "Créer" {
		t.Fatalf("expected Créer, got %q", got)
	}
	if got := i18n.Translate(c, "fr", "User", nil); got != "User" {
		t.Fatalf("expected identity for missing fr key, got %q", got)
	}
}

func TestLoadCatalogFSRejectsGarbage(t *testing.T) {
	fsys := fstest.MapFS{"es.yaml": {Data: []byte("- just\n- a list\n")}}
	if _, err := i18n.LoadCatalogFS(fsys, "en"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func mustSet(t *testing.T, c *i18n.Catalog, locale, key, msg string) {
	t.Helper()
	if err := c.Set(locale, key, msg); err != nil {
		t.Fatalf("set %s/%s: %v", locale, key, err)
	}
}
