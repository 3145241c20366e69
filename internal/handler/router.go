package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	cartHandler "github.com/zhouzirui/ev-commerce/backend/internal/handler/cart"
	catalogHandler "github.com/zhouzirui/ev-commerce/backend/internal/handler/catalog"
	"github.com/zhouzirui/ev-commerce/backend/internal/handler/chatbot"
	"github.com/zhouzirui/ev-commerce/backend/internal/handler/checkout"
	loanHandler "github.com/zhouzirui/ev-commerce/backend/internal/handler/loan"
	reviewHandler "github.com/zhouzirui/ev-commerce/backend/internal/handler/review"
	"github.com/zhouzirui/ev-commerce/backend/internal/metrics"
	middlewarePkg "github.com/zhouzirui/ev-commerce/backend/internal/middleware"
	"github.com/zhouzirui/ev-commerce/backend/internal/ratelimit"
	cartService "github.com/zhouzirui/ev-commerce/backend/internal/service/cart"
	catalogService "github.com/zhouzirui/ev-commerce/backend/internal/service/catalog"
	chatService "github.com/zhouzirui/ev-commerce/backend/internal/service/chat"
	orderService "github.com/zhouzirui/ev-commerce/backend/internal/service/order"
	reviewService "github.com/zhouzirui/ev-commerce/backend/internal/service/review"
	"github.com/zhouzirui/ev-commerce/backend/pkg/utils"
)

// Dependencies 路由所需的服务集合。Limiter、Metrics、Logger 可为空。
type Dependencies struct {
	Catalog     *catalogService.Service
	Chat        *chatService.Service
	Carts       *cartService.Service
	Orders      *orderService.Service
	Reviews     *reviewService.Service
	Metrics     *metrics.Metrics
	Limiter     ratelimit.Limiter
	Logger      *zap.Logger
	CORSOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	startedAt := time.Now()

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.CORSOrigins))

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]any{
				"status":    "UP",
				"service":   "EV E-Commerce Backend",
				"version":   "1.0.0",
				"timestamp": time.Now().UnixMilli(),
				"uptime":    time.Since(startedAt).Round(time.Second).String(),
			})
		})

		// Loan routes are rate limited as a group
		api.Route("/loan", func(lr chi.Router) {
			lr.Use(middlewarePkg.RateLimit(deps.Limiter, "loan", deps.Metrics, logger))
			loanHandler.New(deps.Catalog, deps.Metrics).RegisterRoutes(lr)
		})

		api.Route("/chatbot", func(cr chi.Router) {
			limit := middlewarePkg.RateLimit(deps.Limiter, "chatbot", deps.Metrics, logger)
			chatbot.New(deps.Chat, logger.Named("chatbot"), limit).RegisterRoutes(cr)
		})

		api.Route("/evs", catalogHandler.New(deps.Catalog).RegisterRoutes)
		api.Route("/reviews", reviewHandler.New(deps.Reviews).RegisterRoutes)
		api.Route("/cart", cartHandler.New(deps.Carts).RegisterRoutes)
		api.Route("/checkout", checkout.New(deps.Orders).RegisterRoutes)
	})

	return r
}
