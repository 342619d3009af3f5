package user

import "errors"

// Erros de domínio específicos para usuários
var (
	// ErrUserNotFound indica que o usuário não foi encontrado
	ErrUserNotFound = errors.New("user not found")

	// ErrUserInactive indica que o usuário está desativado
	ErrUserInactive = errors.New("user is inactive")

	// ErrInvalidStatus indica um valor de status desconhecido
	ErrInvalidStatus = errors.New("invalid status value")
)
