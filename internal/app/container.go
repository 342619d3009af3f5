package app

import (
	"github.com/uptrace/bun"

	"atendo/internal/app/config"
	"atendo/internal/domain/atendimento"
	"atendo/internal/domain/presence"
	"atendo/internal/domain/user"
	"atendo/internal/http/handlers"
	"atendo/internal/http/middleware"
	"atendo/internal/infra/cache"
	"atendo/internal/infra/database"
	infrapresence "atendo/internal/infra/presence"
	"atendo/internal/infra/ws"
	atendimentoUseCases "atendo/internal/usecases/atendimento"
	presenceUseCases "atendo/internal/usecases/presence"
	"atendo/pkg/logger"
)

// Container gerencia todas as dependências da aplicação
type Container struct {
	// Database
	DB *bun.DB

	// Repositories
	UserRepo        user.UserRepository
	AtendimentoRepo atendimento.AtendimentoRepository

	// Presença
	Notifier *infrapresence.Notifier
	Tracker  presence.Tracker
	Mirror   *cache.PresenceMirror
	Gateway  *ws.Gateway

	// Autenticação
	Authenticator middleware.Authenticator

	// Use Cases
	HeartbeatUC    *presenceUseCases.HeartbeatUseCase
	UsersStatusUC  *presenceUseCases.GetUsersStatusUseCase
	UpdateStatusUC *presenceUseCases.UpdateStatusUseCase
	LogoutUC       *presenceUseCases.LogoutUseCase
	SweepUC        *presenceUseCases.SweepInactiveUseCase

	OpenAtendimentoUC   *atendimentoUseCases.OpenAtendimentoUseCase
	ClaimAtendimentoUC  *atendimentoUseCases.ClaimAtendimentoUseCase
	FinishAtendimentoUC *atendimentoUseCases.FinishAtendimentoUseCase
	ListAtendimentosUC  *atendimentoUseCases.ListAtendimentosUseCase

	// Handlers
	HealthHandler      *handlers.HealthHandler
	StatusHandler      *handlers.StatusHandler
	WebSocketHandler   *handlers.WebSocketHandler
	AtendimentoHandler *handlers.AtendimentoHandler

	// Logger
	Logger logger.Logger
}

// NewContainer cria um novo container de dependências. mirror é opcional:
// nil desliga o espelho de presença em Redis.
func NewContainer(cfg *config.Config, db *bun.DB, mirror *cache.PresenceMirror) (*Container, error) {
	c := &Container{
		DB:     db,
		Mirror: mirror,
		Logger: logger.WithComponent("di-container"),
	}

	c.initRepositories()
	c.initPresence(cfg)
	c.initUseCases(cfg)
	c.initHandlers()

	c.Logger.Info().Msg("Container initialized successfully")
	return c, nil
}

// initRepositories inicializa os repositórios
func (c *Container) initRepositories() {
	c.UserRepo = database.NewUserRepository(c.DB)
	c.AtendimentoRepo = database.NewAtendimentoRepository(c.DB)
	c.Authenticator = database.NewUserAuthenticator(c.UserRepo)
}

// initPresence monta o núcleo de presença: notifier, espelhos duráveis e o
// tracker com período de graça
func (c *Container) initPresence(cfg *config.Config) {
	c.Notifier = infrapresence.NewNotifier(cfg.Presence.ObserverBuffer, c.Logger)

	stores := []presence.StatusStore{database.NewUserStatusStore(c.UserRepo)}
	if c.Mirror != nil {
		stores = append(stores, c.Mirror)
	}

	c.Tracker = infrapresence.NewTracker(
		cfg.Presence.GracePeriod,
		c.Notifier,
		infrapresence.NewFanoutStore(c.Logger, stores...),
		c.Logger,
	)
}

// initUseCases inicializa os casos de uso
func (c *Container) initUseCases(cfg *config.Config) {
	c.HeartbeatUC = presenceUseCases.NewHeartbeatUseCase(
		c.Tracker,
		c.UserRepo,
		cfg.Presence.HeartbeatPersistInterval,
		c.Logger,
	)

	c.UsersStatusUC = presenceUseCases.NewGetUsersStatusUseCase(
		c.UserRepo,
		c.Tracker,
		c.Logger,
	)

	c.UpdateStatusUC = presenceUseCases.NewUpdateStatusUseCase(
		c.UserRepo,
		c.Notifier,
		c.Logger,
	)

	c.LogoutUC = presenceUseCases.NewLogoutUseCase(
		c.UserRepo,
		c.Notifier,
		c.Logger,
	)

	c.SweepUC = presenceUseCases.NewSweepInactiveUseCase(
		c.UserRepo,
		c.Tracker,
		cfg.Presence.InactiveThreshold,
		c.Logger,
	)

	c.OpenAtendimentoUC = atendimentoUseCases.NewOpenAtendimentoUseCase(
		c.AtendimentoRepo,
		c.Logger,
	)

	c.ClaimAtendimentoUC = atendimentoUseCases.NewClaimAtendimentoUseCase(
		c.AtendimentoRepo,
		c.Logger,
	)

	c.FinishAtendimentoUC = atendimentoUseCases.NewFinishAtendimentoUseCase(
		c.AtendimentoRepo,
		c.Logger,
	)

	c.ListAtendimentosUC = atendimentoUseCases.NewListAtendimentosUseCase(
		c.AtendimentoRepo,
		c.Logger,
	)
}

// initHandlers inicializa os handlers
func (c *Container) initHandlers() {
	c.Gateway = ws.NewGateway(c.Tracker, c.Notifier, c.HeartbeatUC, c.Logger)

	c.HealthHandler = handlers.NewHealthHandler()
	c.WebSocketHandler = handlers.NewWebSocketHandler(c.Gateway)

	c.StatusHandler = handlers.NewStatusHandler(
		c.UsersStatusUC,
		c.UpdateStatusUC,
		c.LogoutUC,
		c.Logger,
	)

	c.AtendimentoHandler = handlers.NewAtendimentoHandler(
		c.OpenAtendimentoUC,
		c.ClaimAtendimentoUC,
		c.FinishAtendimentoUC,
		c.ListAtendimentosUC,
		c.Logger,
	)
}

// Close encerra o container e todos os seus recursos. A ordem importa:
// primeiro o tracker (cancela timers e para de emitir), depois o notifier,
// por fim as conexões externas.
func (c *Container) Close() error {
	c.Logger.Info().Msg("Closing container")

	c.Tracker.Shutdown()
	c.Notifier.Close()
	c.HeartbeatUC.Stop()

	if c.Mirror != nil {
		if err := c.Mirror.Close(); err != nil {
			c.Logger.WithError(err).Error().Msg("Failed to close redis mirror")
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.WithError(err).Error().Msg("Failed to close database")
			return err
		}
	}

	c.Logger.Info().Msg("Container closed successfully")
	return nil
}
