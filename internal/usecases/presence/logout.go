package presence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"atendo/internal/domain/presence"
	"atendo/internal/domain/user"
	infrapresence "atendo/internal/infra/presence"
	"atendo/pkg/logger"
)

// LogoutUseCase implementa o caso de uso de logout: marca o usuário como
// offline no banco e avisa os observadores. Conexões WebSocket abertas são
// responsabilidade do cliente encerrar; o período de graça cobre o resto.
type LogoutUseCase struct {
	userRepo user.UserRepository
	notifier *infrapresence.Notifier
	logger   logger.Logger
}

// NewLogoutUseCase cria uma nova instância do caso de uso
func NewLogoutUseCase(
	userRepo user.UserRepository,
	notifier *infrapresence.Notifier,
	logger logger.Logger,
) *LogoutUseCase {
	return &LogoutUseCase{
		userRepo: userRepo,
		notifier: notifier,
		logger:   logger,
	}
}

// Execute marca o usuário como offline
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uuid.UUID) error {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	now := time.Now()
	if err := uc.userRepo.UpdateOnlineStatus(ctx, userID, false, now); err != nil {
		uc.logger.WithError(err).
			WithField("userId", userID.String()).
			Error().Msg("Failed to mark user offline on logout")
		return err
	}

	uc.notifier.Publish(presence.StatusChange{
		UserID:    userID,
		Status:    presence.StatusOffline,
		Timestamp: now,
	})

	uc.logger.WithField("userId", userID.String()).Info().Msg("User logged out")
	return nil
}
