package atendimento

import (
	"context"

	"github.com/google/uuid"
)

// AtendimentoRepository define as operações de persistência para atendimentos
type AtendimentoRepository interface {
	// Create cria um novo atendimento no banco de dados
	Create(ctx context.Context, atd *Atendimento) error

	// GetByID busca um atendimento pelo ID
	GetByID(ctx context.Context, id uuid.UUID) (*Atendimento, error)

	// GetByProtocolo busca um atendimento pelo número de protocolo
	GetByProtocolo(ctx context.Context, protocolo string) (*Atendimento, error)

	// List retorna atendimentos, opcionalmente filtrados por status
	List(ctx context.Context, status *StatusAtendimento) ([]*Atendimento, error)

	// ListAbertos retorna atendimentos aguardando ou em andamento
	ListAbertos(ctx context.Context) ([]*Atendimento, error)

	// ExistsAbertoForContato verifica se o contato já tem atendimento aberto
	ExistsAbertoForContato(ctx context.Context, contatoID uuid.UUID) (bool, error)

	// Update atualiza um atendimento existente
	Update(ctx context.Context, atd *Atendimento) error
}
