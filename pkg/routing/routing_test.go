package routing_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbuilder/pkg/routing"
)

func TestTableResolvePath(t *testing.T) {
	table := routing.NewTable(map[string]string{
		"users.store":   "/users",
		"users.update":  "/users/{user}",
		"users.destroy": "/users/{user:[0-9]+}",
	}, routing.WithBaseURL("https://example.com/"))

	path, err := table.ResolvePath("users.store", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "/users", path)

	path, err = table.ResolvePath("users.update", []any{7}, false)
	require.NoError(t, err)
	assert.Equal(t, "/users/7", path)

	path, err = table.ResolvePath("users.destroy", []any{"7"}, true)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/users/7", path)

	_, err = table.ResolvePath("users.show", nil, false)
	assert.ErrorIs(t, err, routing.ErrRouteNotFound)

	_, err = table.ResolvePath("users.update", nil, false)
	assert.ErrorIs(t, err, routing.ErrRouteParams)
}

func TestExpandEscapesValues(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	path, err := routing.Expand("docs.update", "/docs/{doc}/{slug}", []any{id, "a b"})
	require.NoError(t, err)
	assert.Equal(t, "/docs/6ba7b810-9dad-11d1-80b4-00c04fd430c8/a%20b", path)
}

func TestParseTableYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"routes.yaml": {Data: []byte("baseURL: http://localhost\nroutes:\n  posts.store: /posts\n  posts.update: /posts/{post}\n")},
	}
	table, err := routing.LoadTable(fsys, "routes.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"posts.store", "posts.update"}, table.Names())

	path, err := table.ResolvePath("posts.update", []any{3}, true)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/posts/3", path)
}

func TestParseTableRejectsEmpty(t *testing.T) {
	_, err := routing.ParseTable([]byte("  "), "empty.yaml")
	require.Error(t, err)

	_, err = routing.ParseTable([]byte("routes: {}"), "none.yaml")
	require.Error(t, err)
}

func TestMuxResolver(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/users", nil).Name("users.store")
	router.HandleFunc("/users/{user:[0-9]+}", nil).Name("users.update")

	resolver := routing.NewMuxResolver(router)

	path, err := resolver.ResolvePath("users.store", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "/users", path)

	path, err = resolver.ResolvePath("users.update", []any{42}, false)
	require.NoError(t, err)
	assert.Equal(t, "/users/42", path)

	_, err = resolver.ResolvePath("users.update", []any{"abc"}, false)
	assert.ErrorIs(t, err, routing.ErrRouteParams)

	_, err = resolver.ResolvePath("users.destroy", []any{42}, false)
	assert.ErrorIs(t, err, routing.ErrRouteNotFound)
}

const usersOpenAPI = `openapi: 3.0.3
info:
  title: users
  version: "1.0"
servers:
  - url: https://api.example.com
paths:
  /users:
    post:
      operationId: users.store
      responses:
        "201":
          description: created
  /users/{user}:
    parameters:
      - name: user
        in: path
        required: true
        schema:
          type: integer
    put:
      operationId: users.update
      responses:
        "200":
          description: ok
    delete:
      operationId: users.destroy
      responses:
        "204":
          description: gone
`

func TestOpenAPIResolver(t *testing.T) {
	resolver, err := routing.NewOpenAPIResolver(context.Background(), []byte(usersOpenAPI))
	require.NoError(t, err)
	assert.Equal(t, []string{"users.destroy", "users.store", "users.update"}, resolver.Routes())

	path, err := resolver.ResolvePath("users.destroy", []any{9}, false)
	require.NoError(t, err)
	assert.Equal(t, "/users/9", path)

	path, err = resolver.ResolvePath("users.store", nil, true)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/users", path)

	_, err = resolver.ResolvePath("users.create", nil, false)
	assert.ErrorIs(t, err, routing.ErrRouteNotFound)
}

func TestOpenAPIResolverRejectsEmptyDocument(t *testing.T) {
	_, err := routing.NewOpenAPIResolver(context.Background(), nil)
	require.Error(t, err)
}

func TestPolicyGate(t *testing.T) {
	gate, err := routing.NewPolicyGate([]routing.PolicyRule{
		{Route: "users.destroy", Allow: `user.role == "admin"`},
		{Route: "users.*", Allow: `user.role in ["admin", "editor"]`},
	})
	require.NoError(t, err)

	admin := map[string]any{"role": "admin"}
	editor := map[string]any{"role": "editor"}

	assert.True(t, gate.CanAccess(admin, "users.destroy"))
	assert.False(t, gate.CanAccess(editor, "users.destroy"))
	assert.True(t, gate.CanAccess(editor, "users.update"))
	assert.False(t, gate.CanAccess(editor, "posts.update"), "unmatched routes fall back to deny")
	assert.False(t, gate.CanAccess(nil, "users.update"), "evaluation errors deny")
}

func TestLoadPolicy(t *testing.T) {
	fsys := fstest.MapFS{
		"policy.yaml": {Data: []byte("defaultAllow: true\nrules:\n  - route: \"admin.*\"\n    allow: user.admin\n")},
	}
	gate, err := routing.LoadPolicy(fsys, "policy.yaml")
	require.NoError(t, err)

	assert.True(t, gate.CanAccess(map[string]any{"admin": false}, "users.store"))
	assert.False(t, gate.CanAccess(map[string]any{"admin": false}, "admin.update"))
	assert.True(t, gate.CanAccess(map[string]any{"admin": true}, "admin.update"))
}

func TestNewPolicyGateRejectsBadExpression(t *testing.T) {
	_, err := routing.NewPolicyGate([]routing.PolicyRule{{Route: "x", Allow: "user.("}})
	require.Error(t, err)
}
