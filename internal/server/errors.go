package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-logbook/pkg/form"
	"github.com/goliatone/go-logbook/pkg/formstate"
)

var (
	errUnknownForm  = errors.New("server: unknown form")
	errBadRequest   = errors.New("server: bad request")
	errClientOnly   = errors.New("server: action is reserved for the server")
	errMissingField = errors.New("server: field is required")
	errSchemaFormat = errors.New("server: unsupported schema format")
)

type errorResponse struct {
	Error  string              `json:"error"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// statusFor maps form and engine errors onto HTTP statuses.
func statusFor(err error) int {
	var saveErr *form.SaveError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, errUnknownForm):
		return http.StatusNotFound
	case errors.Is(err, form.ErrClosed):
		return http.StatusGone
	case errors.Is(err, formstate.ErrUnknownField),
		errors.Is(err, formstate.ErrValueKind),
		errors.Is(err, formstate.ErrUnknownAction),
		errors.Is(err, errBadRequest),
		errors.Is(err, errClientOnly),
		errors.Is(err, form.ErrSubmitAction),
		errors.Is(err, errMissingField),
		errors.Is(err, errSchemaFormat):
		return http.StatusBadRequest
	case errors.Is(err, form.ErrInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, form.ErrSubmitting), errors.Is(err, form.ErrStale):
		return http.StatusConflict
	case errors.As(err, &saveErr):
		if saveErr.Status == 0 || saveErr.Status == http.StatusUnprocessableEntity || saveErr.Status == http.StatusBadRequest {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var saveErr *form.SaveError
	if errors.As(err, &saveErr) && len(saveErr.Errors) > 0 {
		resp.Errors = saveErr.Errors
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	s.writeJSON(w, status, resp)
}
