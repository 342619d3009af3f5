package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"atendo/internal/app/config"
	"atendo/internal/http/handlers"
	appMiddleware "atendo/internal/http/middleware"
	"atendo/pkg/logger"
)

// Router representa o roteador principal da aplicação
type Router struct {
	*chi.Mux
	config             *config.Config
	logger             logger.Logger
	authenticator      appMiddleware.Authenticator
	healthHandler      *handlers.HealthHandler
	statusHandler      *handlers.StatusHandler
	wsHandler          *handlers.WebSocketHandler
	atendimentoHandler *handlers.AtendimentoHandler
}

// New cria uma nova instância do router
func New(
	cfg *config.Config,
	log logger.Logger,
	authenticator appMiddleware.Authenticator,
	healthHandler *handlers.HealthHandler,
	statusHandler *handlers.StatusHandler,
	wsHandler *handlers.WebSocketHandler,
	atendimentoHandler *handlers.AtendimentoHandler,
) *Router {
	r := &Router{
		Mux:                chi.NewRouter(),
		config:             cfg,
		logger:             log.WithComponent("router"),
		authenticator:      authenticator,
		healthHandler:      healthHandler,
		statusHandler:      statusHandler,
		wsHandler:          wsHandler,
		atendimentoHandler: atendimentoHandler,
	}

	r.setupMiddlewares()
	r.setupRoutes()

	return r
}

// setupMiddlewares configura os middlewares globais
func (r *Router) setupMiddlewares() {
	// Middleware básicos do Chi
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(appMiddleware.NewCORS(r.config.CORS.AllowedOrigins))
	r.Use(appMiddleware.NewLoggingMiddleware(r.logger))
	r.Use(appMiddleware.NewRecoveryMiddleware(r.logger))
	r.Use(appMiddleware.NewRateLimit(r.config.RateLimit.Requests, r.config.RateLimit.Window))
}

// setupRoutes configura as rotas da aplicação
func (r *Router) setupRoutes() {
	// Health check (público)
	r.Get("/health", r.healthHandler.Health)

	// Rotas autenticadas
	r.Group(func(rt chi.Router) {
		rt.Use(appMiddleware.NewAuthMiddleware(r.authenticator, r.logger))

		// WebSocket de presença fica fora do timeout global: a conexão é
		// longa por natureza
		rt.Get("/ws/status", r.wsHandler.Status)

		rt.Group(func(rt chi.Router) {
			rt.Use(middleware.Timeout(60 * time.Second))

			rt.Route("/users", func(rt chi.Router) {
				rt.Get("/status", r.statusHandler.GetUsersStatus)

				rt.Route("/{userID}", func(rt chi.Router) {
					rt.Post("/status", r.statusHandler.UpdateUserStatus)
					rt.Post("/logout", r.statusHandler.Logout)
				})
			})

			rt.Route("/atendimentos", func(rt chi.Router) {
				rt.Post("/", r.atendimentoHandler.OpenAtendimento)
				rt.Get("/", r.atendimentoHandler.ListAtendimentos)

				rt.Route("/{atendimentoID}", func(rt chi.Router) {
					rt.Post("/assumir", r.atendimentoHandler.ClaimAtendimento)
					rt.Post("/finalizar", r.atendimentoHandler.FinishAtendimento)
				})
			})
		})
	})

	// Rota catch-all para 404
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(404)
		w.Write([]byte(`{
			"success": false,
			"message": "Endpoint não encontrado",
			"error": {
				"code": "NOT_FOUND",
				"details": "O endpoint solicitado não existe"
			}
		}`))
	})
}
