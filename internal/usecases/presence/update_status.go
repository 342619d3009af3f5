package presence

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"atendo/internal/domain/presence"
	"atendo/internal/domain/user"
	infrapresence "atendo/internal/infra/presence"
	"atendo/pkg/logger"
)

// UpdateStatusUseCase implementa o override manual de status de um usuário.
// A escrita é durável e a transição é publicada aos observadores, mas o
// registro de conexões não é tocado: se o usuário ainda tem conexão aberta,
// o registro volta a prevalecer na próxima leitura.
type UpdateStatusUseCase struct {
	userRepo user.UserRepository
	notifier *infrapresence.Notifier
	validate *validator.Validate
	logger   logger.Logger
}

// NewUpdateStatusUseCase cria uma nova instância do caso de uso
func NewUpdateStatusUseCase(
	userRepo user.UserRepository,
	notifier *infrapresence.Notifier,
	logger logger.Logger,
) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		userRepo: userRepo,
		notifier: notifier,
		validate: validator.New(),
		logger:   logger,
	}
}

// UpdateStatusRequest representa os dados do override manual
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=online offline"`
}

// Execute aplica o status informado ao usuário
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, userID uuid.UUID, req UpdateStatusRequest) error {
	if err := uc.validate.Struct(req); err != nil {
		return user.ErrInvalidStatus
	}

	// garante que o usuário existe antes de escrever
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	now := time.Now()
	online := req.Status == string(presence.StatusOnline)
	if err := uc.userRepo.UpdateOnlineStatus(ctx, userID, online, now); err != nil {
		uc.logger.WithError(err).
			WithField("userId", userID.String()).
			Error().Msg("Failed to update user status")
		return err
	}

	status := presence.StatusOffline
	if online {
		status = presence.StatusOnline
	}
	uc.notifier.Publish(presence.StatusChange{
		UserID:    userID,
		Status:    status,
		Timestamp: now,
	})

	uc.logger.WithFields(map[string]interface{}{
		"userId": userID.String(),
		"status": req.Status,
	}).Info().Msg("User status updated manually")
	return nil
}
