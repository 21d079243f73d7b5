package formbuilder_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	formbuilder "github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/entity"
	"github.com/goliatone/go-formbuilder/pkg/routing"
)

func ExampleNew() {
	routes := routing.NewTable(map[string]string{
		"users.create":  "/users/new",
		"users.update":  "/users/{id}",
		"users.destroy": "/users/{id}",
	})
	tpl := formbuilder.Template{Fields: []formbuilder.Field{
		{Column: "name", Meta: map[string]any{"type": "input"}},
	}}

	desc, err := formbuilder.New(tpl, entity.ID{Value: 42}, builder.WithResolver(routes)).
		SetMethod("put").
		SetPrefix("users").
		SetActions("update", "destroy").
		Build()
	if err != nil {
		fmt.Println(err)
		return
	}
	out, _ := json.Marshal(desc.Actions)
	fmt.Println(string(out))
	// Output: {"update":{"label":"Save","path":"/users/42"},"destroy":{"label":"Delete","path":"/users/42"}}
}

func TestLoadTemplateAndBuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	payload := `{"fields":[{"column":"name","value":null,"meta":{"type":"input"}}]}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	tpl, err := formbuilder.LoadTemplate(context.Background(), path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	routes := routing.NewTable(map[string]string{"users.store": "/users"})
	desc, err := formbuilder.Build(tpl, nil, "post", "users", builder.WithResolver(routes))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(desc.Actions) != 1 || desc.Actions[0].Path != "/users" {
		t.Fatalf("unexpected actions %#v", desc.Actions)
	}
}
