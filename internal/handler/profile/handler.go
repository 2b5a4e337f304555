package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/poker-advisor/backend/internal/model/profile"
	"github.com/zhouzirui/poker-advisor/backend/pkg/utils"
)

// Handler 顾问角色列表
type Handler struct {
	profiles profile.Store
	respond  utils.Responder
}

// New 创建处理器
func New(profiles profile.Store, logger *zap.Logger) *Handler {
	return &Handler{profiles: profiles, respond: utils.NewResponder(logger)}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/advisors", h.handleListProfiles)
}

func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	h.respond.JSON(w, http.StatusOK, h.profiles.List())
}
