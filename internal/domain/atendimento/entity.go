package atendimento

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StatusAtendimento representa o estágio do ticket de atendimento
type StatusAtendimento string

const (
	StatusAguardando  StatusAtendimento = "aguardando"
	StatusEmAndamento StatusAtendimento = "em_andamento"
	StatusFinalizado  StatusAtendimento = "finalizado"
)

// Atendimento representa um ticket de atendimento ao cliente
type Atendimento struct {
	bun.BaseModel `bun:"table:atendo_atendimentos,alias:a"`

	ID           uuid.UUID         `bun:"id,pk,type:uuid" json:"id"`
	Protocolo    string            `bun:"protocolo,type:varchar(20),notnull,unique" json:"protocolo"`
	Status       StatusAtendimento `bun:"status,type:varchar(20),notnull" json:"status"`
	ContatoID    uuid.UUID         `bun:"contatoId,type:uuid,notnull" json:"contatoId"`
	AtendenteID  *uuid.UUID        `bun:"atendenteId,type:uuid" json:"atendenteId,omitempty"`
	IniciadoEm   time.Time         `bun:"iniciadoEm,type:timestamptz,notnull" json:"iniciadoEm"`
	AtendidoEm   *time.Time        `bun:"atendidoEm,type:timestamptz" json:"atendidoEm,omitempty"`
	FinalizadoEm *time.Time        `bun:"finalizadoEm,type:timestamptz" json:"finalizadoEm,omitempty"`
	CreatedAt    time.Time         `bun:"createdAt,type:timestamptz,notnull" json:"createdAt"`
	UpdatedAt    time.Time         `bun:"updatedAt,type:timestamptz,notnull" json:"updatedAt"`
}

// TableName retorna o nome da tabela para o Bun ORM
func (*Atendimento) TableName() string {
	return "atendo_atendimentos"
}

// IsAberto verifica se o atendimento ainda não foi finalizado
func (a *Atendimento) IsAberto() bool {
	return a.Status != StatusFinalizado
}

// Assumir move o atendimento para em_andamento sob responsabilidade do
// atendente. Um atendimento já assumido por outro atendente não pode ser
// assumido de novo; reassumir pelo mesmo atendente é permitido.
func (a *Atendimento) Assumir(atendenteID uuid.UUID) error {
	if a.Status == StatusFinalizado {
		return NewTransitionError(a.Status, StatusEmAndamento)
	}
	if a.AtendenteID != nil && *a.AtendenteID != atendenteID {
		return ErrAtendimentoJaAssumido
	}

	now := time.Now()
	a.AtendenteID = &atendenteID
	a.Status = StatusEmAndamento
	if a.AtendidoEm == nil {
		a.AtendidoEm = &now
	}
	a.UpdatedAt = now
	return nil
}

// Finalizar encerra um atendimento em andamento
func (a *Atendimento) Finalizar() error {
	if a.Status != StatusEmAndamento {
		return NewTransitionError(a.Status, StatusFinalizado)
	}

	now := time.Now()
	a.Status = StatusFinalizado
	a.FinalizadoEm = &now
	a.UpdatedAt = now
	return nil
}
