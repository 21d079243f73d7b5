package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbuilder/pkg/entity"
	"github.com/goliatone/go-formbuilder/pkg/i18n"
	"github.com/goliatone/go-formbuilder/pkg/metrics"
	"github.com/goliatone/go-formbuilder/pkg/routing"
	"github.com/goliatone/go-formbuilder/pkg/templates"
)

const usersTemplate = `
title: Users
fields:
  - column: name
    value: null
    meta:
      type: input
  - column: role
    value: null
    meta:
      type: select
`

const testSecret = "test-secret"

type stubFinder map[string]entity.Record

func (f stubFinder) Find(_ context.Context, id any) (entity.Record, error) {
	record, ok := f[fmt.Sprint(id)]
	if !ok {
		return entity.Record{}, entity.ErrNotFound
	}
	return record, nil
}

func newTestServer(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	store, err := templates.LoadStore(context.Background(), fstest.MapFS{
		"users.yaml":       {Data: []byte(usersTemplate)},
		"admin/users.yaml": {Data: []byte(usersTemplate)},
	})
	require.NoError(t, err)

	resolver := routing.NewTable(map[string]string{
		"users.store":   "/users",
		"users.create":  "/users/new",
		"users.update":  "/users/{id}",
		"users.destroy": "/users/{id}",
		"admin.store":   "/admin/users",
	})
	base := []Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}
	return New(store, resolver, append(base, opts...)...).Handler()
}

func get(t *testing.T, h http.Handler, target string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
	}
	return rec, body
}

func TestBuildFormPost(t *testing.T) {
	h := newTestServer(t)
	rec, body := get(t, h, "/forms/users?method=post&prefix=users", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "post", body["method"])
	actions := body["actions"].(map[string]any)
	assert.Equal(t, map[string]any{"label": "Create", "path": "/users"}, actions["store"])
}

func TestBuildFormEditWithEntity(t *testing.T) {
	h := newTestServer(t, WithEntities(stubFinder{
		"42": entity.NewRecord(42, map[string]any{"name": "Ada"}),
	}))
	rec, body := get(t, h, "/forms/users?method=put&prefix=users&entity=42&actions=update,destroy", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	actions := body["actions"].(map[string]any)
	assert.Len(t, actions, 2)
	assert.Equal(t, "/users/42", actions["update"].(map[string]any)["path"])
	fields := body["fields"].([]any)
	assert.Equal(t, "Ada", fields[0].(map[string]any)["value"])

	rec, _ = get(t, h, "/forms/users?method=put&prefix=users&entity=7", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuildFormErrors(t *testing.T) {
	h := newTestServer(t)

	rec, body := get(t, h, "/forms/missing?method=post", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body["error"], "template not found")

	rec, body = get(t, h, "/forms/users?method=get&prefix=users", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body["error"], "'POST', 'PATCH' or 'PUT'")

	rec, body = get(t, h, "/forms/users?method=post&prefix=users&actions=delete", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body["error"], "delete")

	rec, _ = get(t, h, "/forms/users?method=put&prefix=users", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = get(t, h, "/forms/users?method=post&route=store", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestBuildFormNestedTemplateAndExplicitRoute(t *testing.T) {
	h := newTestServer(t)
	rec, body := get(t, h, "/forms/admin/users?method=post&route=store:admin.store", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	actions := body["actions"].(map[string]any)
	assert.Equal(t, "/admin/users", actions["store"].(map[string]any)["path"])
}

func TestBuildFormTranslatesByLocale(t *testing.T) {
	translator := i18n.Messages{
		"es": {"Create": "Crear", "Users": "Usuarios"},
		"fr": {"Create": "Créer"},
	}
	h := newTestServer(t, WithTranslator(translator, "es"))

	_, body := get(t, h, "/forms/users?method=post&prefix=users", nil)
	assert.Equal(t, "Usuarios", body["title"])

	_, body = get(t, h, "/forms/users?method=post&prefix=users", map[string]string{"Accept-Language": "fr;q=0.9, en"})
	assert.Equal(t, "Créer", body["actions"].(map[string]any)["store"].(map[string]any)["label"])

	_, body = get(t, h, "/forms/users?method=post&prefix=users&locale=en", nil)
	assert.Equal(t, "Create", body["actions"].(map[string]any)["store"].(map[string]any)["label"])
}

func TestBearerAndAccessGate(t *testing.T) {
	gate, err := routing.NewPolicyGate([]routing.PolicyRule{
		{Route: "admin.*", Allow: `user != nil && "admin" in user.Roles`},
	}, routing.WithDefaultAllow(true))
	require.NoError(t, err)
	h := newTestServer(t, WithJWTSecret(testSecret), WithAccessGate(gate))

	target := "/forms/users?method=post&prefix=users&route=store:admin.store"

	// anonymous: the admin route is dropped and the prefix route is used
	rec, body := get(t, h, target, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "/users", body["actions"].(map[string]any)["store"].(map[string]any)["path"])

	token, err := SignToken([]byte(testSecret), "u-1", []string{"admin"}, time.Minute)
	require.NoError(t, err)
	rec, body = get(t, h, target, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "/admin/users", body["actions"].(map[string]any)["store"].(map[string]any)["path"])

	rec, _ = get(t, h, target, map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = get(t, h, target, map[string]string{"Authorization": "Token " + token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := SignToken([]byte("a"), "u-1", nil, time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(token, []byte("b"))
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := ParseToken(token, []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
}

func TestListFormsSchemaAndHealth(t *testing.T) {
	h := newTestServer(t)

	rec, body := get(t, h, "/forms", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"admin/users", "users"}, body["templates"])

	rec, body = get(t, h, "/schema", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body["types"], "select")

	rec, body = get(t, h, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	require.NoError(t, err)
	h := newTestServer(t, WithObserver(collector), WithMetrics(reg))

	rec, _ := get(t, h, "/forms/users?method=post&prefix=users", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
	assert.Contains(t, out.Body.String(), `formbuilder_builds_total{method="post",outcome="ok"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, WithCORSOrigins("https://app.example.com"))
	req := httptest.NewRequest(http.MethodOptions, "/forms/users", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
