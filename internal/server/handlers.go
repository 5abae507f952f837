package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/ayusman/rochambeau/internal/app"
	"github.com/ayusman/rochambeau/internal/game"
	"github.com/ayusman/rochambeau/internal/store"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

// Error codes returned in errorResponse.Code.
const (
	codeNoGesture   = "no_gesture"
	codeUnavailable = "device_unavailable"
	codeNotFound    = "not_found"
	codeBadRequest  = "bad_request"
	codeInternal    = "internal"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type roundResponse struct {
	View    app.View `json:"view"`
	Cleared *bool    `json:"cleared,omitempty"`
}

type roundsResponse struct {
	Rounds []*store.Round `json:"rounds"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).Round(time.Second).String(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.config.Controller.View())
}

// handleStartRound handles POST /api/round.
func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request) {
	v, err := s.config.Controller.StartRound()
	switch {
	case errors.Is(err, game.ErrNoGestureAvailable):
		msg := err.Error()
		if v.Notice != nil {
			msg = v.Notice.Message
		}
		writeError(w, http.StatusUnprocessableEntity, codeNoGesture, msg)
	case errors.Is(err, app.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, err.Error())
	case err != nil:
		log.Error().Err(err).Msg("start round failed")
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to start round")
	default:
		writeJSON(w, http.StatusOK, roundResponse{View: v})
	}
}

// handleAcknowledge handles POST /api/round/ack.
func (s *Server) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	v, cleared := s.config.Controller.Acknowledge()
	writeJSON(w, http.StatusOK, roundResponse{View: v, Cleared: &cleared})
}

// handleListRounds handles GET /api/rounds?limit=N.
func (s *Server) handleListRounds(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	rounds, err := s.config.Controller.History(limit)
	if err != nil {
		log.Error().Err(err).Msg("list rounds failed")
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to list rounds")
		return
	}
	if rounds == nil {
		rounds = []*store.Round{}
	}
	writeJSON(w, http.StatusOK, roundsResponse{Rounds: rounds})
}

// handleGetRound handles GET /api/rounds/{id}.
func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	rd, err := s.config.Controller.Round(chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, codeNotFound, "round not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("get round failed")
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to get round")
		return
	}
	writeJSON(w, http.StatusOK, rd)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.config.Controller.Stats()
	if err != nil {
		log.Error().Err(err).Msg("stats failed")
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSuspend(w http.ResponseWriter, r *http.Request) {
	if err := s.config.Controller.Suspend(); err != nil {
		log.Error().Err(err).Msg("suspend failed")
		writeError(w, http.StatusInternalServerError, codeInternal, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.config.Controller.View())
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	err := s.config.Controller.Resume()
	if errors.Is(err, app.ErrDeviceUnavailable) {
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, err.Error())
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("resume failed")
		writeError(w, http.StatusInternalServerError, codeInternal, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.config.Controller.View())
}
