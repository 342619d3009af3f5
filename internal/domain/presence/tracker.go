package presence

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tracker define as operações do núcleo de presença: registro de conexões,
// agregação de status com período de graça e consulta do estado vivo.
type Tracker interface {
	// Register adiciona o handle ao conjunto de conexões do usuário.
	// Retorna ErrDuplicateConnection se o handle já pertence a alguém.
	Register(userID uuid.UUID, connID ConnectionID) error

	// Unregister remove o handle do conjunto do dono. Handles desconhecidos
	// são ignorados (desconexões duplicadas são benignas).
	Unregister(connID ConnectionID)

	// Heartbeat atualiza o timestamp de última atividade do usuário.
	// Não altera a máquina de estados; a conexão já conta como aberta.
	Heartbeat(userID uuid.UUID)

	// ConnectionCount retorna o número de conexões abertas do usuário.
	// Uso em diagnóstico e testes, não em decisões de correção.
	ConnectionCount(userID uuid.UUID) int

	// IsOnline reflete o status agregado vivo: true enquanto houver pelo menos
	// uma conexão aberta ou o período de graça ainda não expirou.
	IsOnline(userID uuid.UUID) bool

	// Shutdown cancela timers pendentes e impede novos registros.
	Shutdown()
}

// StatusStore espelha transições de status em armazenamento durável.
// É best-effort: o estado em memória é a fonte da verdade em runtime e uma
// falha de escrita nunca desfaz a transição.
type StatusStore interface {
	SaveStatus(ctx context.Context, userID uuid.UUID, status Status, ts time.Time) error
}
