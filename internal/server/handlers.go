package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-logbook/pkg/flight"
	"github.com/goliatone/go-logbook/pkg/form"
	"github.com/goliatone/go-logbook/pkg/formstate"
	"github.com/goliatone/go-logbook/pkg/openapi"
	"github.com/goliatone/go-logbook/pkg/render"
)

// stateResponse is the JSON view of a mounted form.
type stateResponse struct {
	ID    string          `json:"id"`
	State formstate.State `json:"state"`
	Saved *flight.Record  `json:"saved,omitempty"`
	Error string          `json:"error,omitempty"`
}

// submitRequest optionally carries values to apply before a JSON submit.
type submitRequest struct {
	Values map[string]any `json:"values"`
}

func formPath(id string) string {
	return "/forms/" + id
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"forms":  s.sessions.Len(),
	})
}

func (s *Server) handleNewFlight(w http.ResponseWriter, r *http.Request) {
	f := s.sessions.Mount()
	s.logger.Debug("form mounted", zap.String("form", f.ID()))
	http.Redirect(w, r, formPath(f.ID()), http.StatusSeeOther)
}

func (s *Server) handleMountJSON(w http.ResponseWriter, _ *http.Request) {
	f := s.sessions.Mount()
	w.Header().Set("Location", formPath(f.ID()))
	s.writeJSON(w, http.StatusCreated, stateResponse{ID: f.ID(), State: f.State()})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	doc, err := openapi.Document(openapi.WithContext(r.Context()))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	var (
		body        []byte
		contentType string
	)
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "json":
		body, err = openapi.MarshalJSON(doc)
		contentType = "application/json"
	case "yaml", "yml":
		body, err = openapi.MarshalYAML(doc)
		contentType = "application/yaml"
	default:
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %q", errSchemaFormat, r.URL.Query().Get("format")))
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(body)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*form.Form, bool) {
	id := chi.URLParam(r, "id")
	f, ok := s.sessions.Get(id)
	if !ok {
		s.respondError(w, r, id, fmt.Errorf("%w: %q", errUnknownForm, id))
		return nil, false
	}
	return f, true
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if wantsJSON(r) {
		s.writeJSON(w, http.StatusOK, stateResponse{ID: f.ID(), State: f.State()})
		return
	}
	s.writePage(w, r, f, http.StatusOK)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.Unmount(id) {
		s.respondError(w, r, id, fmt.Errorf("%w: %q", errUnknownForm, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChange(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	msg, err := readMessage(r, formstate.TypeFieldChange)
	if err != nil {
		s.respondError(w, r, f.ID(), err)
		return
	}
	action, err := f.Engine().Decode(msg)
	if err != nil {
		s.respondError(w, r, f.ID(), err)
		return
	}
	s.dispatch(w, r, f, action)
}

func (s *Server) handleBlur(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	msg, err := readMessage(r, formstate.TypeFieldBlur)
	if err != nil {
		s.respondError(w, r, f.ID(), err)
		return
	}
	action, err := f.Engine().Decode(msg)
	if err != nil {
		s.respondError(w, r, f.ID(), err)
		return
	}
	s.dispatch(w, r, f, action)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.dispatch(w, r, f, formstate.Reset{})
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, f *form.Form, action formstate.Action) {
	state, err := f.Dispatch(action)
	if err != nil {
		s.respondError(w, r, f.ID(), err)
		return
	}
	if wantsJSON(r) {
		s.writeJSON(w, http.StatusOK, stateResponse{ID: f.ID(), State: state})
		return
	}
	http.Redirect(w, r, formPath(f.ID()), http.StatusSeeOther)
}

// handleSubmit applies any posted values, then validates and saves. HTML
// posts are redirected back to the form whatever the outcome, since the
// state carries the errors to display.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}

	values, err := readValues(r)
	if err != nil {
		s.respondError(w, r, f.ID(), err)
		return
	}
	if err := applyValues(f, values); err != nil {
		s.respondError(w, r, f.ID(), err)
		return
	}

	saved, err := f.Submit(r.Context())
	if !wantsJSON(r) {
		if err != nil && statusFor(err) == http.StatusGone {
			s.respondError(w, r, f.ID(), err)
			return
		}
		http.Redirect(w, r, formPath(f.ID()), http.StatusSeeOther)
		return
	}

	resp := stateResponse{ID: f.ID(), State: f.State()}
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		resp.Error = err.Error()
		s.writeJSON(w, status, resp)
		return
	}
	resp.Saved = &saved
	s.writeJSON(w, http.StatusCreated, resp)
}

// applyValues changes and blurs each named field in declaration order.
func applyValues(f *form.Form, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	engine := f.Engine()
	for _, name := range engine.Definition().Names() {
		raw, ok := values[name]
		if !ok {
			continue
		}
		value, err := engine.Coerce(name, raw)
		if err != nil {
			return err
		}
		if _, err := f.Dispatch(formstate.FieldChange{Field: name, Value: value}); err != nil {
			return err
		}
		if _, err := f.Blur(name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, id string, err error) {
	status := statusFor(err)
	if wantsJSON(r) {
		s.writeError(w, status, err)
		return
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("form", id), zap.Error(err))
	}
	http.Error(w, http.StatusText(status)+": "+err.Error(), status)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, f *form.Form, status int) {
	html, err := s.renderForm(r.Context(), f.ID(), f.Engine(), f.State())
	if err != nil {
		s.respondError(w, r, f.ID(), err)
		return
	}
	title := f.Engine().Definition().Title
	page, err := s.page.RenderTemplate("templates/page", map[string]any{
		"title": title,
		"body":  html,
	})
	if err != nil {
		s.respondError(w, r, f.ID(), fmt.Errorf("server: render page: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, page)
}

func (s *Server) renderForm(ctx context.Context, id string, engine *formstate.Engine, state formstate.State) (string, error) {
	out, err := s.renderer.Render(ctx, render.NewView(engine, state), render.RenderOptions{
		FormID:       id,
		Endpoints:    render.FormEndpoints(formPath(id)),
		HiddenFields: render.MergeHiddenFields(nil, render.FormID(id)),
		Theme:        s.theme,
	})
	if err != nil {
		return "", fmt.Errorf("server: render form: %w", err)
	}
	return string(out), nil
}

// wantsJSON reports whether the client sent or asked for JSON.
func wantsJSON(r *http.Request) bool {
	if isJSON(r.Header.Get("Content-Type")) {
		return true
	}
	for _, accept := range strings.Split(r.Header.Get("Accept"), ",") {
		if isJSON(accept) {
			return true
		}
	}
	return false
}

func isJSON(header string) bool {
	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(header))
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// readMessage decodes a JSON action message or the form-encoded field and
// value parameters. The message type defaults to kind.
func readMessage(r *http.Request, kind formstate.Type) (formstate.Message, error) {
	var msg formstate.Message
	if isJSON(r.Header.Get("Content-Type")) {
		if err := decodeJSON(r, &msg); err != nil {
			return msg, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return msg, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		msg.Field = r.PostForm.Get("field")
		if values, ok := r.PostForm["value"]; ok && len(values) > 0 {
			msg.Value = values[len(values)-1]
		} else if kind == formstate.TypeFieldChange {
			msg.Value = ""
		}
	}
	if strings.TrimSpace(msg.Field) == "" {
		return msg, errMissingField
	}
	if msg.Type == "" {
		msg.Type = kind
	}
	if !strings.EqualFold(string(msg.Type), string(kind)) {
		return msg, fmt.Errorf("%w: expected %s, got %q", errBadRequest, kind, msg.Type)
	}
	return msg, nil
}

// readValues collects the submitted field values. Repeated form keys keep the
// last value so a checked checkbox overrides its hidden "off" companion.
func readValues(r *http.Request) (map[string]any, error) {
	if isJSON(r.Header.Get("Content-Type")) {
		if r.ContentLength == 0 {
			return nil, nil
		}
		var req submitRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return req.Values, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	values := make(map[string]any, len(r.PostForm))
	for name, posted := range r.PostForm {
		if len(posted) > 0 {
			values[name] = posted[len(posted)-1]
		}
	}
	return values, nil
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
