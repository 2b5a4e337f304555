package chat

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	chatModel "github.com/zhouzirui/poker-advisor/backend/internal/model/chat"
	"github.com/zhouzirui/poker-advisor/backend/internal/service/advisor"
	"github.com/zhouzirui/poker-advisor/backend/pkg/utils"
)

// Handler 聊天代理的HTTP处理器
type Handler struct {
	advisorSvc *advisor.Service
	logger     *zap.Logger
	respond    utils.Responder
}

// New 创建聊天处理器
func New(advisorSvc *advisor.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		advisorSvc: advisorSvc,
		logger:     logger.Named("chat"),
		respond:    utils.NewResponder(logger),
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat-ai", h.handleChat)
}

// handleChat 转发用户消息（可带图片/PDF）并返回模型文本
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatModel.Request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondFailure(w, r, fmt.Errorf("%w: %w", advisor.ErrInvalidInput, err))
		return
	}

	text, err := h.advisorSvc.Ask(r.Context(), advisor.Input{
		Message: payload.Message,
		Image:   payload.Image,
		PDF:     payload.PDF,
	})
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}

	h.respond.JSON(w, http.StatusOK, chatModel.Response{Text: text})
}

func (h *Handler) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	status, body := MapError(err)
	h.logger.Info("chat request failed",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Int("status", status),
		zap.Error(err))
	h.respond.Error(w, status, body.Error, body.Details)
}
