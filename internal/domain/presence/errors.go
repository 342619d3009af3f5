package presence

import "errors"

// Erros de domínio do tracker de presença
var (
	// ErrDuplicateConnection indica que o handle já está registrado para algum
	// usuário. Um transporte correto nunca reusa handles; tratado como erro de
	// integração e o registro existente prevalece.
	ErrDuplicateConnection = errors.New("connection handle already registered")

	// ErrUnknownConnection indica um handle nunca registrado ou já removido.
	// Desregistros duplicados são esperados em transportes reais, então o
	// tracker trata como no-op; o erro existe para diagnóstico.
	ErrUnknownConnection = errors.New("unknown connection handle")

	// ErrTrackerClosed indica que o tracker já foi encerrado.
	ErrTrackerClosed = errors.New("presence tracker is closed")
)
