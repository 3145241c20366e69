package chatbot

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/ev-commerce/backend/pkg/utils"
)

// StreamResponse SSE 事件负载
type StreamResponse struct {
	Event     string `json:"event"`
	SessionID string `json:"sessionId,omitempty"`
	Sender    string `json:"sender,omitempty"`
	Content   string `json:"content,omitempty"`
	Tier      string `json:"tier,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
}

// handleStream 通过SSE推送一次问答：start、每条消息一个message事件、end
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	message := r.URL.Query().Get("message")
	if isBlank(message) {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	turns, err := h.chatSvc.Send(r.Context(), sessionID, message)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.SetupSSEHeaders(w)
	utils.SendSSEEvent(w, flusher, "start", StreamResponse{Event: "start", SessionID: sessionID})
	for _, turn := range turns {
		utils.SendSSEEvent(w, flusher, "message", StreamResponse{
			Event:     "message",
			SessionID: sessionID,
			Sender:    string(turn.Sender),
			Content:   turn.Text,
			Tier:      turn.Tier,
		})
	}
	utils.SendSSEEvent(w, flusher, "end", StreamResponse{Event: "end", SessionID: sessionID, Finished: true})

	h.logger.Debug("stream completed", zap.String("session", sessionID), zap.Int("turns", len(turns)))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
