package atendimento

import (
	"errors"
	"fmt"
)

// Erros de domínio específicos para atendimentos
var (
	// ErrAtendimentoNotFound indica que o atendimento não foi encontrado
	ErrAtendimentoNotFound = errors.New("atendimento not found")

	// ErrAtendimentoAberto indica que o contato já tem um atendimento aberto
	ErrAtendimentoAberto = errors.New("contato already has an open atendimento")

	// ErrAtendimentoJaAssumido indica que outro atendente já assumiu o ticket
	ErrAtendimentoJaAssumido = errors.New("atendimento already claimed by another atendente")

	// ErrInvalidTransition indica uma transição de status não permitida
	ErrInvalidTransition = errors.New("invalid status transition")
)

// TransitionError carrega o contexto de uma transição de status rejeitada
type TransitionError struct {
	From StatusAtendimento
	To   StatusAtendimento
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// NewTransitionError cria um novo erro de transição
func NewTransitionError(from, to StatusAtendimento) *TransitionError {
	return &TransitionError{From: from, To: to}
}
