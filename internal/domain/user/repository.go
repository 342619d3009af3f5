package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository define as operações de persistência para usuários
type UserRepository interface {
	// GetByID busca um usuário pelo ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// List retorna todos os usuários ordenados por criação
	List(ctx context.Context) ([]*User, error)

	// UpdateOnlineStatus atualiza o status online e a última atividade
	UpdateOnlineStatus(ctx context.Context, id uuid.UUID, online bool, ts time.Time) error

	// UpdateLastActivity atualiza apenas a última atividade
	UpdateLastActivity(ctx context.Context, id uuid.UUID, ts time.Time) error

	// ListOnlineInactiveSince retorna usuários marcados como online no banco
	// cuja última atividade é anterior ao corte. Insumo da varredura de
	// reconciliação.
	ListOnlineInactiveSince(ctx context.Context, cutoff time.Time) ([]*User, error)
}
