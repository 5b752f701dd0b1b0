package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/util"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/voice"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is one inbound frame on the conversational socket. The session id
// is optional on the first frame; the server assigns one and keeps using it.
type wsMessage struct {
	SessionID string `json:"session_id,omitempty"`
	Text      string `json:"text"`
}

// wsReply is one outbound frame: either a turn result or an error.
type wsReply struct {
	SessionID string                  `json:"session_id"`
	Result    *models.TurnResult      `json:"result,omitempty"`
	Synthesis *voice.SynthesisRequest `json:"synthesis,omitempty"`
	Error     string                  `json:"error,omitempty"`
}

// wsHandler runs a long-lived conversational loop over a WebSocket. Each text
// frame is processed as one turn and answered with the orchestrated result.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Server.wsHandler: failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	sessionID := r.URL.Query().Get("session_id")
	slog.Info("Server.wsHandler: connection opened", "session_id", sessionID, "remote", r.RemoteAddr)

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("Server.wsHandler: connection closed unexpectedly", "session_id", sessionID, "error", err)
			}
			return
		}

		if msg.SessionID != "" {
			sessionID = msg.SessionID
		}
		if sessionID == "" {
			sessionID = util.GenerateSessionID()
			slog.Info("Server.wsHandler: session assigned", "session_id", sessionID)
		}

		result, err := s.orch.ProcessTurn(r.Context(), models.TurnRequest{SessionID: sessionID, Text: msg.Text})
		if err != nil {
			slog.Error("Server.wsHandler: failed to process turn", "session_id", sessionID, "error", err)
			if writeErr := conn.WriteJSON(wsReply{SessionID: sessionID, Error: "Failed to process turn"}); writeErr != nil {
				return
			}
			continue
		}

		synthesis := voice.BuildSynthesisRequest(result.Reply, result.Tone)
		if err := conn.WriteJSON(wsReply{SessionID: sessionID, Result: result, Synthesis: &synthesis}); err != nil {
			slog.Error("Server.wsHandler: failed to write reply", "session_id", sessionID, "error", err)
			return
		}
	}
}
