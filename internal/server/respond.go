package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"task-tracker/internal/errutil"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a JSON error response. Storage failures are logged
// with their detail and answered with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := errutil.KindOf(err)
	status := errutil.HTTPStatus(kind)

	if status >= http.StatusInternalServerError {
		s.requestLogger(r).Error("request_failed", zap.String("kind", string(kind)), zap.Error(err))
		writeJSON(w, status, errorBody{Error: "Internal server error"})
		return
	}

	e, _ := errutil.As(err)
	if kind == errutil.KindConflict {
		s.requestLogger(r).Warn("request_conflict", zap.Error(err))
	}
	writeJSON(w, status, errorBody{Error: e.Message, Field: e.Field})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
}
