package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/util"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/voice"
)

// turnResponse is the /turn payload: the orchestrated result plus the
// synthesis request a voice client would hand to its TTS engine.
type turnResponse struct {
	Result    *models.TurnResult     `json:"result"`
	Synthesis voice.SynthesisRequest `json:"synthesis"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Truffle is running", nil))
}

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		id := util.GenerateSessionID()
		slog.Info("Server.createSessionHandler: session created", "session_id", id)
		writeJSONResponse(w, http.StatusCreated, models.Success(map[string]string{"session_id": id}))
	case http.MethodGet:
		ids, err := s.sessions.Sessions()
		if err != nil {
			slog.Error("Server.createSessionHandler: failed to list sessions", "error", err)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to list sessions"))
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(ids))
	default:
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
	}
}

func (s *Server) turnHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}
	var req models.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.turnHandler: invalid JSON payload", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON payload"))
		return
	}

	result, err := s.orch.ProcessTurn(r.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrEmptySessionID) || errors.Is(err, models.ErrTurnTextTooLong) {
			writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
			return
		}
		slog.Error("Server.turnHandler: failed to process turn", "session_id", req.SessionID, "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to process turn"))
		return
	}

	slog.Debug("Server.turnHandler: turn processed", "session_id", req.SessionID,
		"tone", result.Tone, "crisis", result.CrisisDetected, "follow_up", result.FollowUp != nil)
	writeJSONResponse(w, http.StatusOK, models.Success(turnResponse{
		Result:    result,
		Synthesis: voice.BuildSynthesisRequest(result.Reply, result.Tone),
	}))
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("session_id query parameter is required"))
		return
	}
	window := 0
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("window must be a non-negative integer"))
			return
		}
		window = parsed
	}

	snap, err := s.sessions.Snapshot(sessionID)
	if err != nil {
		slog.Error("Server.historyHandler: failed to load session", "session_id", sessionID, "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load session history"))
		return
	}
	pattern, err := s.orch.EmotionalPattern(sessionID, window)
	if err != nil {
		slog.Error("Server.historyHandler: failed to compute pattern", "session_id", sessionID, "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to compute emotional pattern"))
		return
	}

	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"session_id": sessionID,
		"turns":      snap.Turns,
		"pattern":    pattern,
	}))
}

func (s *Server) profileHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("session_id query parameter is required"))
			return
		}
		profile, err := s.sessions.Profile(sessionID)
		if err != nil {
			slog.Error("Server.profileHandler: failed to load profile", "session_id", sessionID, "error", err)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load profile"))
			return
		}
		if profile == nil {
			writeJSONResponse(w, http.StatusNotFound, models.Error("No profile stored for session"))
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(profile))
	case http.MethodPost:
		var payload struct {
			SessionID string             `json:"session_id"`
			Profile   models.UserProfile `json:"profile"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON payload"))
			return
		}
		if payload.SessionID == "" {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("session_id is required"))
			return
		}
		if err := payload.Profile.Validate(); err != nil {
			writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
			return
		}
		if err := s.sessions.SaveProfile(payload.SessionID, payload.Profile); err != nil {
			slog.Error("Server.profileHandler: failed to save profile", "session_id", payload.SessionID, "error", err)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to save profile"))
			return
		}
		writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Profile saved", nil))
	default:
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
	}
}
