package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"atendo/internal/domain/atendimento"
	"atendo/internal/http/middleware"
	"atendo/internal/http/responses"
	atendimentouc "atendo/internal/usecases/atendimento"
	"atendo/pkg/logger"
)

// AtendimentoHandler implementa os handlers do ciclo de vida de atendimentos
type AtendimentoHandler struct {
	openUseCase   *atendimentouc.OpenAtendimentoUseCase
	claimUseCase  *atendimentouc.ClaimAtendimentoUseCase
	finishUseCase *atendimentouc.FinishAtendimentoUseCase
	listUseCase   *atendimentouc.ListAtendimentosUseCase
	logger        logger.Logger
}

// NewAtendimentoHandler cria uma nova instância do atendimento handler
func NewAtendimentoHandler(
	openUseCase *atendimentouc.OpenAtendimentoUseCase,
	claimUseCase *atendimentouc.ClaimAtendimentoUseCase,
	finishUseCase *atendimentouc.FinishAtendimentoUseCase,
	listUseCase *atendimentouc.ListAtendimentosUseCase,
	logger logger.Logger,
) *AtendimentoHandler {
	return &AtendimentoHandler{
		openUseCase:   openUseCase,
		claimUseCase:  claimUseCase,
		finishUseCase: finishUseCase,
		listUseCase:   listUseCase,
		logger:        logger.WithComponent("atendimento-handler"),
	}
}

// OpenAtendimento abre um novo atendimento para um contato
func (h *AtendimentoHandler) OpenAtendimento(w http.ResponseWriter, r *http.Request) {
	var req atendimentouc.OpenAtendimentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responses.BadRequest(w, "Invalid request body", err.Error())
		return
	}

	atd, err := h.openUseCase.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, atendimento.ErrAtendimentoAberto) {
			responses.Conflict(w, "Contato já possui atendimento aberto", "")
			return
		}
		h.logger.WithError(err).Error().Msg("Failed to open atendimento")
		responses.InternalError(w, "Failed to open atendimento")
		return
	}

	responses.Created(w, "Atendimento aberto com sucesso", atd)
}

// ClaimAtendimento assume o atendimento em nome do atendente autenticado
func (h *AtendimentoHandler) ClaimAtendimento(w http.ResponseWriter, r *http.Request) {
	atendimentoID, err := uuid.Parse(chi.URLParam(r, "atendimentoID"))
	if err != nil {
		responses.BadRequest(w, "ID de atendimento inválido", err.Error())
		return
	}

	atendenteID, ok := middleware.UserFromContext(r.Context())
	if !ok {
		responses.Unauthorized(w, "Credencial de autenticação ausente")
		return
	}

	atd, err := h.claimUseCase.Execute(r.Context(), atendimentoID, atendenteID)
	if err != nil {
		switch {
		case errors.Is(err, atendimento.ErrAtendimentoNotFound):
			responses.NotFound(w, "Atendimento não encontrado")
		case errors.Is(err, atendimento.ErrAtendimentoJaAssumido):
			responses.Conflict(w, "Atendimento já assumido por outro atendente", "")
		case errors.Is(err, atendimento.ErrInvalidTransition):
			responses.Conflict(w, "Transição de status inválida", err.Error())
		default:
			h.logger.WithError(err).Error().Msg("Failed to claim atendimento")
			responses.InternalError(w, "Failed to claim atendimento")
		}
		return
	}

	responses.Success(w, "Atendimento assumido com sucesso", atd)
}

// FinishAtendimento finaliza um atendimento em andamento
func (h *AtendimentoHandler) FinishAtendimento(w http.ResponseWriter, r *http.Request) {
	atendimentoID, err := uuid.Parse(chi.URLParam(r, "atendimentoID"))
	if err != nil {
		responses.BadRequest(w, "ID de atendimento inválido", err.Error())
		return
	}

	atd, err := h.finishUseCase.Execute(r.Context(), atendimentoID)
	if err != nil {
		switch {
		case errors.Is(err, atendimento.ErrAtendimentoNotFound):
			responses.NotFound(w, "Atendimento não encontrado")
		case errors.Is(err, atendimento.ErrInvalidTransition):
			responses.Conflict(w, "Transição de status inválida", err.Error())
		default:
			h.logger.WithError(err).Error().Msg("Failed to finish atendimento")
			responses.InternalError(w, "Failed to finish atendimento")
		}
		return
	}

	responses.Success(w, "Atendimento finalizado com sucesso", atd)
}

// ListAtendimentos lista atendimentos, com filtro opcional por status
func (h *AtendimentoHandler) ListAtendimentos(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	atds, err := h.listUseCase.Execute(r.Context(), status)
	if err != nil {
		if status != "" {
			responses.BadRequest(w, "Filtro de status inválido", err.Error())
			return
		}
		h.logger.WithError(err).Error().Msg("Failed to list atendimentos")
		responses.InternalError(w, "Failed to list atendimentos")
		return
	}

	responses.Success(w, "Atendimentos listados com sucesso", atds)
}
