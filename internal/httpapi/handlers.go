package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/roach88/waterrun/internal/chart"
	"github.com/roach88/waterrun/internal/suggest"
	"github.com/roach88/waterrun/internal/tracker"
)

// Export filenames.
const (
	CSVFilename  = "water_runs.csv"
	XLSXFilename = "water_runs.xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.svc.State(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	var req tracker.RecordRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.svc.RecordRun(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	page, ok := s.queryInt(w, r, "page", 1)
	if !ok {
		return
	}
	limit, ok := s.queryInt(w, r, "limit", tracker.DefaultHistoryLimit)
	if !ok {
		return
	}
	limit = min(limit, tracker.MaxHistoryLimit)

	runs, err := s.svc.History(r.Context(), page, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, runs)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	sg, err := s.svc.Suggest(r.Context())
	if errors.Is(err, suggest.ErrNoParticipants) {
		s.writeJSON(w, r, http.StatusOK, map[string]string{"error": sg.Reason})
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, sg)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.svc.ExportCSV(r.Context(), &buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeAttachment(w, r, "text/csv", CSVFilename, buf.Bytes())
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.svc.ExportXLSX(r.Context(), &buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeAttachment(w, r, xlsxContentType, XLSXFilename, buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	state, err := s.svc.State(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	img, err := chart.RenderScores(state.People, s.palette)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	s.writeBody(w, r, img)
}

func (s *Server) handleRemind(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Remind(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleNotifyStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.svc.NotifierStatus())
}

type overrideRequest struct {
	ParticipantID int64 `json:"participant_id"`
	Score         *int  `json:"score"`
}

func (s *Server) handleOverride(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Score == nil {
		s.badRequest(w, r, "score is required")
		return
	}
	state, err := s.svc.OverrideScore(r.Context(), req.ParticipantID, *req.Score)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, state)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		s.badRequest(w, r, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.badRequest(w, r, "invalid "+name+": "+strconv.Quote(raw))
		return 0, false
	}
	return n, true
}

func (s *Server) writeAttachment(w http.ResponseWriter, r *http.Request, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	s.writeBody(w, r, body)
}

func (s *Server) writeBody(w http.ResponseWriter, r *http.Request, body []byte) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.logger.Warn("write response", "request_id", RequestID(r.Context()), "error", err)
	}
}
