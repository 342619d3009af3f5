package database

import (
	"context"
	"time"

	"github.com/google/uuid"

	"atendo/internal/domain/presence"
	"atendo/internal/domain/user"
)

// userStatusStore espelha transições de presença na tabela de usuários.
// O tracker em memória é a fonte da verdade; aqui é só durabilidade para as
// telas que leem status direto do banco.
type userStatusStore struct {
	repo user.UserRepository
}

// NewUserStatusStore cria um StatusStore sobre o repositório de usuários
func NewUserStatusStore(repo user.UserRepository) presence.StatusStore {
	return &userStatusStore{repo: repo}
}

func (s *userStatusStore) SaveStatus(ctx context.Context, userID uuid.UUID, status presence.Status, ts time.Time) error {
	return s.repo.UpdateOnlineStatus(ctx, userID, status == presence.StatusOnline, ts)
}
