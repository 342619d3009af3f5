package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"atendo/internal/domain/user"
)

// userRepository implementa a interface UserRepository
type userRepository struct {
	db *bun.DB
}

// NewUserRepository cria uma nova instância do repositório de usuários
func NewUserRepository(db *bun.DB) user.UserRepository {
	return &userRepository{db: db}
}

// GetByID busca um usuário pelo ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u := new(user.User)
	err := r.db.NewSelect().Model(u).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// List retorna todos os usuários
func (r *userRepository) List(ctx context.Context) ([]*user.User, error) {
	var users []*user.User
	err := r.db.NewSelect().Model(&users).Order(`"createdAt" DESC`).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateOnlineStatus atualiza o status online e a última atividade
func (r *userRepository) UpdateOnlineStatus(ctx context.Context, id uuid.UUID, online bool, ts time.Time) error {
	_, err := r.db.NewUpdate().
		Model((*user.User)(nil)).
		Set("\"isOnline\" = ?", online).
		Set("\"lastActivity\" = ?", ts).
		Set("\"updatedAt\" = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)

	return err
}

// UpdateLastActivity atualiza apenas a última atividade
func (r *userRepository) UpdateLastActivity(ctx context.Context, id uuid.UUID, ts time.Time) error {
	_, err := r.db.NewUpdate().
		Model((*user.User)(nil)).
		Set("\"lastActivity\" = ?", ts).
		Set("\"updatedAt\" = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)

	return err
}

// ListOnlineInactiveSince retorna usuários online no banco sem atividade
// desde o corte
func (r *userRepository) ListOnlineInactiveSince(ctx context.Context, cutoff time.Time) ([]*user.User, error) {
	var users []*user.User
	err := r.db.NewSelect().
		Model(&users).
		Where("\"isOnline\" = ?", true).
		Where("\"lastActivity\" IS NULL OR \"lastActivity\" < ?", cutoff).
		Scan(ctx)

	if err != nil {
		return nil, err
	}
	return users, nil
}
