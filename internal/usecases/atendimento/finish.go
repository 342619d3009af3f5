package atendimento

import (
	"context"

	"github.com/google/uuid"

	"atendo/internal/domain/atendimento"
	"atendo/pkg/logger"
)

// FinishAtendimentoUseCase implementa o caso de uso para finalizar um
// atendimento em andamento
type FinishAtendimentoUseCase struct {
	atendimentoRepo atendimento.AtendimentoRepository
	logger          logger.Logger
}

// NewFinishAtendimentoUseCase cria uma nova instância do caso de uso
func NewFinishAtendimentoUseCase(
	atendimentoRepo atendimento.AtendimentoRepository,
	logger logger.Logger,
) *FinishAtendimentoUseCase {
	return &FinishAtendimentoUseCase{
		atendimentoRepo: atendimentoRepo,
		logger:          logger,
	}
}

// Execute finaliza o atendimento
func (uc *FinishAtendimentoUseCase) Execute(ctx context.Context, atendimentoID uuid.UUID) (*atendimento.Atendimento, error) {
	atd, err := uc.atendimentoRepo.GetByID(ctx, atendimentoID)
	if err != nil {
		return nil, err
	}

	if err := atd.Finalizar(); err != nil {
		return nil, err
	}

	if err := uc.atendimentoRepo.Update(ctx, atd); err != nil {
		uc.logger.WithError(err).Error().Msg("Failed to update atendimento")
		return nil, err
	}

	uc.logger.WithFields(map[string]interface{}{
		"atendimentoId": atd.ID.String(),
		"protocolo":     atd.Protocolo,
	}).Info().Msg("Atendimento finished")
	return atd, nil
}
