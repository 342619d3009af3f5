package presence

import (
	"time"

	"github.com/google/uuid"
)

// Status representa o status agregado de presença de um usuário.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// ConnectionID identifica uma conexão de transporte viva (uma aba, um device).
// O handle é opaco para o tracker; quem o cria é a camada de transporte.
type ConnectionID string

// StatusChange é o evento emitido a cada transição de status agregado observada.
// Exatamente um evento por transição, consumido pelo notificador de broadcast.
type StatusChange struct {
	UserID    uuid.UUID `json:"userId"`
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// IsOnline verifica se o evento representa uma transição para online.
func (e StatusChange) IsOnline() bool {
	return e.Status == StatusOnline
}
