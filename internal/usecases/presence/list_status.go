package presence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"atendo/internal/domain/presence"
	"atendo/internal/domain/user"
	"atendo/pkg/logger"
)

// GetUsersStatusUseCase implementa o caso de uso para listar o status de
// todos os usuários, mesclando o registro vivo com o espelho durável
type GetUsersStatusUseCase struct {
	userRepo user.UserRepository
	tracker  presence.Tracker
	logger   logger.Logger
}

// NewGetUsersStatusUseCase cria uma nova instância do caso de uso
func NewGetUsersStatusUseCase(
	userRepo user.UserRepository,
	tracker presence.Tracker,
	logger logger.Logger,
) *GetUsersStatusUseCase {
	return &GetUsersStatusUseCase{
		userRepo: userRepo,
		tracker:  tracker,
		logger:   logger,
	}
}

// UserStatus representa o status de presença de um usuário na listagem
type UserStatus struct {
	ID           uuid.UUID  `json:"id"`
	Nome         string     `json:"nome"`
	Email        string     `json:"email"`
	IsOnline     bool       `json:"isOnline"`
	LastActivity *time.Time `json:"lastActivity,omitempty"`
}

// Execute retorna o status de todos os usuários ativos. O registro em
// memória prevalece sobre a coluna do banco: um usuário com conexão aberta
// aparece online mesmo que a escrita durável ainda não tenha acontecido.
func (uc *GetUsersStatusUseCase) Execute(ctx context.Context) ([]UserStatus, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		uc.logger.WithError(err).Error().Msg("Failed to list users")
		return nil, err
	}

	statuses := make([]UserStatus, 0, len(users))
	for _, u := range users {
		statuses = append(statuses, UserStatus{
			ID:           u.ID,
			Nome:         u.Nome,
			Email:        u.Email,
			IsOnline:     uc.tracker.IsOnline(u.ID) || u.IsOnline,
			LastActivity: u.LastActivity,
		})
	}
	return statuses, nil
}
