package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zhouzirui/poker-advisor/backend/internal/config"
	"github.com/zhouzirui/poker-advisor/backend/internal/handler/advice"
	"github.com/zhouzirui/poker-advisor/backend/internal/handler/chat"
	profileHandler "github.com/zhouzirui/poker-advisor/backend/internal/handler/profile"
	"github.com/zhouzirui/poker-advisor/backend/internal/handler/ws"
	middlewarePkg "github.com/zhouzirui/poker-advisor/backend/internal/middleware"
	"github.com/zhouzirui/poker-advisor/backend/internal/model/profile"
	"github.com/zhouzirui/poker-advisor/backend/internal/service/advisor"
	"github.com/zhouzirui/poker-advisor/backend/internal/web"
	"github.com/zhouzirui/poker-advisor/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(cfg config.HTTPConfig, advisorSvc *advisor.Service, profiles profile.Store, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	respond := utils.NewResponder(logger)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"provider": advisorSvc.Provider(),
		})
	})
	r.Get("/", web.ServeIndex)

	limiter := middlewarePkg.NewRateLimiter(cfg.RateLimitPerMinute, logger)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.RequestSize(cfg.MaxBodyBytes))
		api.Use(limiter.Middleware)

		profileHandler.New(profiles, logger).RegisterRoutes(api)
		chat.New(advisorSvc, logger).RegisterRoutes(api)
		advice.New(advisorSvc, logger).RegisterRoutes(api)
		ws.New(advisorSvc, cfg.MaxBodyBytes, logger).RegisterRoutes(api)
	})

	return r
}
