package chatbot

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	chatService "github.com/zhouzirui/ev-commerce/backend/internal/service/chat"
	"github.com/zhouzirui/ev-commerce/backend/pkg/utils"
)

// Handler 智能客服的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
	logger  *zap.Logger
	limit   []func(http.Handler) http.Handler
	ws      *WebSocketHandler
}

// New 创建客服处理器。limit 仅作用于会产生回复的路由。
func New(chatSvc *chatService.Service, logger *zap.Logger, limit ...func(http.Handler) http.Handler) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chatSvc: chatSvc,
		logger:  logger,
		limit:   limit,
		ws:      NewWebSocketHandler(chatSvc, logger),
	}
}

// RegisterRoutes 注册客服路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(h.limit...).Post("/message", h.handleMessage)
	r.Get("/suggestions", h.handleSuggestions)
	r.Get("/health", h.handleHealth)

	r.Post("/session", h.handleCreateSession)
	r.Route("/session/{sessionID}", func(sr chi.Router) {
		sr.Get("/", h.handleGetSession)
		sr.Post("/open", h.handleOpen)
		sr.Post("/close", h.handleClose)
		sr.Post("/reset", h.handleReset)
		sr.With(h.limit...).Post("/messages", h.handleSend)
	})

	r.With(h.limit...).Get("/stream/{sessionID}", h.handleStream)
	h.ws.RegisterWebSocketRoutes(r)
}

// handleMessage 无状态问答，直接返回匹配结果
func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if isBlank(payload.Message) {
		utils.RespondError(w, http.StatusBadRequest, "Please provide a message.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.chatSvc.Reply(r.Context(), payload.Message))
}

// handleSuggestions 返回热门问题
func (h *Handler) handleSuggestions(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{"suggestions": h.chatSvc.Suggestions()})
}

// handleHealth 客服健康检查
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "Virtual Assistant is running",
		"version": "1.0",
	})
}

// handleCreateSession 创建一个关闭状态的新会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.chatSvc.CreateSession(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, view)
}

// handleGetSession 查询会话视图
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.chatSvc.View(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

// handleOpen 打开会话窗口
func (h *Handler) handleOpen(w http.ResponseWriter, r *http.Request) {
	view, err := h.chatSvc.Open(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

// handleClose 关闭会话窗口，保留聊天记录
func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	view, err := h.chatSvc.Close(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

// handleReset 清空记录并重新问候
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	view, err := h.chatSvc.Reset(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

// handleSend 在会话中发送消息；点击推荐问题时 suggestion 字段携带问题原文
func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text       string `json:"text"`
		Suggestion string `json:"suggestion"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	text := payload.Text
	if isBlank(text) {
		text = payload.Suggestion
	}

	sessionID := chi.URLParam(r, "sessionID")
	turns, err := h.chatSvc.Send(r.Context(), sessionID, text)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	view, err := h.chatSvc.View(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"turns": turns,
		"view":  view,
	})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chatService.ErrSessionClosed), errors.Is(err, chatService.ErrConversationReset):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, chatService.ErrEmptyMessage):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("chatbot request failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
