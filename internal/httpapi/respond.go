package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/roach88/waterrun/internal/suggest"
	"github.com/roach88/waterrun/internal/tracker"
)

type errorBody struct {
	Detail string `json:"detail"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "request_id", RequestID(r.Context()), "error", err)
	}
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	s.writeJSON(w, r, http.StatusBadRequest, errorBody{Detail: msg})
}

// writeError maps err onto a status: validation → 400, empty roster → 404,
// anything else → 500 with the cause logged, not returned.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *tracker.ValidationError
	switch {
	case errors.As(err, &ve):
		s.writeJSON(w, r, http.StatusBadRequest, errorBody{Detail: ve.Error()})
	case errors.Is(err, suggest.ErrNoParticipants):
		s.writeJSON(w, r, http.StatusNotFound, errorBody{Detail: suggest.ReasonNoParticipants})
	default:
		s.logger.Error("request failed",
			"request_id", RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		s.writeJSON(w, r, http.StatusInternalServerError, errorBody{Detail: "internal error"})
	}
}
