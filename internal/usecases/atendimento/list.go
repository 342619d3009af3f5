package atendimento

import (
	"context"
	"fmt"

	"atendo/internal/domain/atendimento"
	"atendo/pkg/logger"
)

// ListAtendimentosUseCase implementa o caso de uso para listar atendimentos
type ListAtendimentosUseCase struct {
	atendimentoRepo atendimento.AtendimentoRepository
	logger          logger.Logger
}

// NewListAtendimentosUseCase cria uma nova instância do caso de uso
func NewListAtendimentosUseCase(
	atendimentoRepo atendimento.AtendimentoRepository,
	logger logger.Logger,
) *ListAtendimentosUseCase {
	return &ListAtendimentosUseCase{
		atendimentoRepo: atendimentoRepo,
		logger:          logger,
	}
}

// Execute lista atendimentos, opcionalmente filtrados por status. Status
// vazio lista todos; um valor fora do conjunto conhecido é rejeitado.
func (uc *ListAtendimentosUseCase) Execute(ctx context.Context, status string) ([]*atendimento.Atendimento, error) {
	var filter *atendimento.StatusAtendimento
	if status != "" {
		s := atendimento.StatusAtendimento(status)
		switch s {
		case atendimento.StatusAguardando, atendimento.StatusEmAndamento, atendimento.StatusFinalizado:
			filter = &s
		default:
			return nil, fmt.Errorf("invalid status filter: %q", status)
		}
	}

	atds, err := uc.atendimentoRepo.List(ctx, filter)
	if err != nil {
		uc.logger.WithError(err).Error().Msg("Failed to list atendimentos")
		return nil, err
	}
	return atds, nil
}
