package presence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"

	"atendo/internal/domain/presence"
	"atendo/internal/domain/user"
	"atendo/pkg/logger"
)

// HeartbeatUseCase implementa o caso de uso de heartbeat das conexões.
// O registro em memória é sempre atualizado; a escrita de lastActivity no
// banco passa por um throttle para que uma aba tagarela não martele o
// Postgres a cada batida.
type HeartbeatUseCase struct {
	tracker  presence.Tracker
	userRepo user.UserRepository
	throttle *ttlcache.Cache[uuid.UUID, struct{}]
	logger   logger.Logger
}

// NewHeartbeatUseCase cria uma nova instância do caso de uso.
// persistInterval é o intervalo mínimo entre escritas de lastActivity no
// banco para o mesmo usuário.
func NewHeartbeatUseCase(
	tracker presence.Tracker,
	userRepo user.UserRepository,
	persistInterval time.Duration,
	logger logger.Logger,
) *HeartbeatUseCase {
	throttle := ttlcache.New[uuid.UUID, struct{}](
		ttlcache.WithTTL[uuid.UUID, struct{}](persistInterval),
	)
	go throttle.Start()

	return &HeartbeatUseCase{
		tracker:  tracker,
		userRepo: userRepo,
		throttle: throttle,
		logger:   logger,
	}
}

// Execute registra o heartbeat do usuário
func (uc *HeartbeatUseCase) Execute(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	uc.tracker.Heartbeat(userID)

	// dentro da janela de persistência só o estado em memória é atualizado
	if uc.throttle.Get(userID) != nil {
		return nil
	}
	uc.throttle.Set(userID, struct{}{}, ttlcache.DefaultTTL)

	if err := uc.userRepo.UpdateLastActivity(ctx, userID, now); err != nil {
		uc.logger.WithError(err).
			WithField("userId", userID.String()).
			Error().Msg("Failed to persist last activity")
		return err
	}
	return nil
}

// Stop encerra a goroutine de expiração do throttle
func (uc *HeartbeatUseCase) Stop() {
	uc.throttle.Stop()
}
