package atendimento

import (
	"context"

	"github.com/google/uuid"

	"atendo/internal/domain/atendimento"
	"atendo/pkg/logger"
)

// ClaimAtendimentoUseCase implementa o caso de uso para um atendente assumir
// um atendimento
type ClaimAtendimentoUseCase struct {
	atendimentoRepo atendimento.AtendimentoRepository
	logger          logger.Logger
}

// NewClaimAtendimentoUseCase cria uma nova instância do caso de uso
func NewClaimAtendimentoUseCase(
	atendimentoRepo atendimento.AtendimentoRepository,
	logger logger.Logger,
) *ClaimAtendimentoUseCase {
	return &ClaimAtendimentoUseCase{
		atendimentoRepo: atendimentoRepo,
		logger:          logger,
	}
}

// Execute assume o atendimento em nome do atendente autenticado
func (uc *ClaimAtendimentoUseCase) Execute(ctx context.Context, atendimentoID, atendenteID uuid.UUID) (*atendimento.Atendimento, error) {
	atd, err := uc.atendimentoRepo.GetByID(ctx, atendimentoID)
	if err != nil {
		return nil, err
	}

	if err := atd.Assumir(atendenteID); err != nil {
		return nil, err
	}

	if err := uc.atendimentoRepo.Update(ctx, atd); err != nil {
		uc.logger.WithError(err).Error().Msg("Failed to update atendimento")
		return nil, err
	}

	uc.logger.WithFields(map[string]interface{}{
		"atendimentoId": atd.ID.String(),
		"protocolo":     atd.Protocolo,
		"atendenteId":   atendenteID.String(),
	}).Info().Msg("Atendimento claimed")
	return atd, nil
}
