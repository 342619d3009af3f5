package atendimento

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"atendo/internal/domain/atendimento"
	"atendo/pkg/logger"
)

// OpenAtendimentoUseCase implementa o caso de uso para abrir um novo
// atendimento para um contato
type OpenAtendimentoUseCase struct {
	atendimentoRepo atendimento.AtendimentoRepository
	validate        *validator.Validate
	logger          logger.Logger
}

// NewOpenAtendimentoUseCase cria uma nova instância do caso de uso
func NewOpenAtendimentoUseCase(
	atendimentoRepo atendimento.AtendimentoRepository,
	logger logger.Logger,
) *OpenAtendimentoUseCase {
	return &OpenAtendimentoUseCase{
		atendimentoRepo: atendimentoRepo,
		validate:        validator.New(),
		logger:          logger,
	}
}

// OpenAtendimentoRequest representa os dados para abrir um atendimento
type OpenAtendimentoRequest struct {
	ContatoID uuid.UUID `json:"contatoId" validate:"required"`
}

// Execute abre um atendimento para o contato. Cada contato tem no máximo um
// atendimento aberto por vez; tentar abrir outro retorna ErrAtendimentoAberto.
func (uc *OpenAtendimentoUseCase) Execute(ctx context.Context, req OpenAtendimentoRequest) (*atendimento.Atendimento, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, err
	}

	exists, err := uc.atendimentoRepo.ExistsAbertoForContato(ctx, req.ContatoID)
	if err != nil {
		uc.logger.WithError(err).Error().Msg("Failed to check open atendimento")
		return nil, err
	}
	if exists {
		return nil, atendimento.ErrAtendimentoAberto
	}

	now := time.Now()
	atd := &atendimento.Atendimento{
		ID:         uuid.New(),
		Protocolo:  atendimento.GerarProtocolo(now),
		Status:     atendimento.StatusAguardando,
		ContatoID:  req.ContatoID,
		IniciadoEm: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.atendimentoRepo.Create(ctx, atd); err != nil {
		uc.logger.WithError(err).Error().Msg("Failed to create atendimento")
		return nil, err
	}

	uc.logger.WithFields(map[string]interface{}{
		"atendimentoId": atd.ID.String(),
		"protocolo":     atd.Protocolo,
		"contatoId":     req.ContatoID.String(),
	}).Info().Msg("Atendimento opened")
	return atd, nil
}
