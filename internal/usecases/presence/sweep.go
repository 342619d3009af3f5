package presence

import (
	"context"
	"time"

	"atendo/internal/domain/presence"
	"atendo/internal/domain/user"
	"atendo/pkg/logger"
)

// SweepInactiveUseCase reconcilia o espelho durável de status: usuários
// marcados como online no banco mas sem atividade recente são rebaixados a
// offline. O registro em memória prevalece — quem ainda tem conexão aberta
// é pulado, mesmo com lastActivity antiga.
type SweepInactiveUseCase struct {
	userRepo  user.UserRepository
	tracker   presence.Tracker
	threshold time.Duration
	logger    logger.Logger
}

// NewSweepInactiveUseCase cria uma nova instância do caso de uso
func NewSweepInactiveUseCase(
	userRepo user.UserRepository,
	tracker presence.Tracker,
	threshold time.Duration,
	logger logger.Logger,
) *SweepInactiveUseCase {
	return &SweepInactiveUseCase{
		userRepo:  userRepo,
		tracker:   tracker,
		threshold: threshold,
		logger:    logger,
	}
}

// Execute roda uma passada da varredura e retorna quantos usuários foram
// marcados como offline
func (uc *SweepInactiveUseCase) Execute(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-uc.threshold)

	stale, err := uc.userRepo.ListOnlineInactiveSince(ctx, cutoff)
	if err != nil {
		uc.logger.WithError(err).Error().Msg("Failed to list inactive users")
		return 0, err
	}

	swept := 0
	for _, u := range stale {
		if uc.tracker.IsOnline(u.ID) {
			// conexão viva: o banco está atrasado, não o contrário
			continue
		}

		if err := uc.userRepo.UpdateOnlineStatus(ctx, u.ID, false, time.Now()); err != nil {
			uc.logger.WithError(err).
				WithField("userId", u.ID.String()).
				Error().Msg("Failed to sweep user offline")
			continue
		}
		swept++
	}

	if swept > 0 {
		uc.logger.WithField("count", swept).Info().Msg("Swept inactive users offline")
	}
	return swept, nil
}
