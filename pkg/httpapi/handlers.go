package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/entity"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// ErrTemplateNotFound reports a request for a template the store lacks.
var ErrTemplateNotFound = errors.New("httpapi: template not found")

type errorResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

type schemaResponse struct {
	Types      []string          `json:"types"`
	Attributes schema.Attributes `json:"attributes"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) describeSchema(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, schemaResponse{
		Types:      schema.Types(),
		Attributes: schema.AttributesFor(""),
	})
}

func (s *Server) listForms(w http.ResponseWriter, r *http.Request) {
	names := s.templates.Names()
	if names == nil {
		names = []string{}
	}
	render.JSON(w, r, map[string][]string{"templates": names})
}

func (s *Server) buildForm(w http.ResponseWriter, r *http.Request) {
	name := strings.Trim(chi.URLParam(r, "*"), "/")
	tpl, ok := s.templates.Template(name)
	if !ok {
		s.fail(w, r, http.StatusNotFound, fmt.Errorf("%w: %s", ErrTemplateNotFound, name))
		return
	}

	query := r.URL.Query()
	ent, err := s.loadEntity(r, query.Get("entity"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, entity.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.fail(w, r, status, err)
		return
	}

	opts := []builder.Option{
		builder.WithResolver(s.resolver),
		builder.WithTranslator(s.translator, s.requestLocale(r)),
		builder.WithLogger(s.logger),
		builder.WithObserver(s.observer),
	}
	if s.gate != nil {
		var user any
		if u := UserFromContext(r.Context()); u != nil {
			user = u
		}
		opts = append(opts, builder.WithAccessGate(s.gate, user))
	}

	b := builder.New(tpl, ent, opts...).SetMethod(query.Get("method"))
	if prefix := query.Get("prefix"); prefix != "" {
		b.SetPrefix(prefix)
	}
	if title := query.Get("title"); title != "" {
		b.SetTitle(title)
	}
	if raw := query.Get("actions"); raw != "" {
		b.SetActions(splitList(raw)...)
	}
	for _, pair := range query["route"] {
		action, route, found := strings.Cut(pair, ":")
		if !found {
			s.fail(w, r, http.StatusUnprocessableEntity, fmt.Errorf("httpapi: route %q must be <action>:<name>", pair))
			return
		}
		b.SetRoute(strings.TrimSpace(action), strings.TrimSpace(route))
	}

	desc, err := b.Build()
	if err != nil {
		s.fail(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	render.JSON(w, r, desc)
}

func (s *Server) loadEntity(r *http.Request, raw string) (entity.Entity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id := entity.NormalizeID(raw)
	if s.entities == nil {
		return entity.ID{Value: id}, nil
	}
	record, err := s.entities.Find(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Server) requestLocale(r *http.Request) string {
	if locale := strings.TrimSpace(r.URL.Query().Get("locale")); locale != "" {
		return locale
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		first, _, _ := strings.Cut(header, ",")
		first, _, _ = strings.Cut(first, ";")
		if first = strings.TrimSpace(first); first != "" && first != "*" {
			return first
		}
	}
	return s.locale
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	} else {
		s.logger.Debug("request rejected", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Status: status, Error: err.Error()})
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
