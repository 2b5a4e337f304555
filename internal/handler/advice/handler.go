package advice

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	chatModel "github.com/zhouzirui/poker-advisor/backend/internal/model/chat"
	"github.com/zhouzirui/poker-advisor/backend/internal/service/advisor"
	"github.com/zhouzirui/poker-advisor/backend/internal/service/ai"
	"github.com/zhouzirui/poker-advisor/backend/pkg/utils"
)

const (
	msgChatRequired   = "Il campo chat è richiesto"
	msgScreenRequired = "Il campo screen è richiesto"
	msgInvalidScreen  = "Lo screen deve essere un URL valido o un'immagine in base64"
	msgInvalidBody    = "Richiesta non valida"
	msgMissingAPIKey  = "API key mancante"
	msgInternal       = "Errore interno del server"
)

// Handler 截图分析接口
type Handler struct {
	advisorSvc *advisor.Service
	logger     *zap.Logger
	respond    utils.Responder
}

// New 创建截图分析处理器
func New(advisorSvc *advisor.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		advisorSvc: advisorSvc,
		logger:     logger.Named("advice"),
		respond:    utils.NewResponder(logger),
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/poker-advice", h.handleAdvice)
}

func (h *Handler) handleAdvice(w http.ResponseWriter, r *http.Request) {
	var payload chatModel.AdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respond.Error(w, http.StatusBadRequest, msgInvalidBody, "")
		return
	}

	advice, err := h.advisorSvc.Advise(r.Context(), payload.Chat, payload.Screen)
	if err != nil {
		status, message := classify(err)
		h.logger.Info("advice request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Int("status", status),
			zap.Error(err))
		h.respond.Error(w, status, message, "")
		return
	}

	h.respond.JSON(w, http.StatusOK, chatModel.AdviceResponse{Advice: advice})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, advisor.ErrChatRequired):
		return http.StatusBadRequest, msgChatRequired
	case errors.Is(err, advisor.ErrScreenRequired):
		return http.StatusBadRequest, msgScreenRequired
	case errors.Is(err, advisor.ErrInvalidScreen):
		return http.StatusBadRequest, msgInvalidScreen
	case errors.Is(err, advisor.ErrInvalidInput):
		return http.StatusBadRequest, msgInvalidBody
	case errors.Is(err, ai.ErrMissingAPIKey):
		return http.StatusInternalServerError, msgMissingAPIKey
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
