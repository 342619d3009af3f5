package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"atendo/internal/domain/user"
)

// userAuthenticator resolve o usuário dono de uma requisição a partir do
// identificador já validado pelo gateway de autenticação upstream. A mecânica
// de token fica fora deste contrato; aqui só confirmamos que o usuário existe
// e está ativo — uma sessão não resolvida nunca alcança o registry.
type userAuthenticator struct {
	repo user.UserRepository
}

// NewUserAuthenticator cria um autenticador sobre o repositório de usuários
func NewUserAuthenticator(repo user.UserRepository) *userAuthenticator {
	return &userAuthenticator{repo: repo}
}

// Authenticate valida a credencial e retorna o ID do usuário resolvido
func (a *userAuthenticator) Authenticate(ctx context.Context, credential string) (uuid.UUID, error) {
	id, err := uuid.Parse(credential)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid credential: %w", err)
	}

	u, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if !u.IsActive {
		return uuid.Nil, user.ErrUserInactive
	}

	return u.ID, nil
}
