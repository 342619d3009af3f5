package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"atendo/internal/domain/user"
	"atendo/internal/http/responses"
	presenceuc "atendo/internal/usecases/presence"
	"atendo/pkg/logger"
)

// StatusHandler implementa os handlers de status de presença dos usuários
type StatusHandler struct {
	listUseCase   *presenceuc.GetUsersStatusUseCase
	updateUseCase *presenceuc.UpdateStatusUseCase
	logoutUseCase *presenceuc.LogoutUseCase
	logger        logger.Logger
}

// NewStatusHandler cria uma nova instância do status handler
func NewStatusHandler(
	listUseCase *presenceuc.GetUsersStatusUseCase,
	updateUseCase *presenceuc.UpdateStatusUseCase,
	logoutUseCase *presenceuc.LogoutUseCase,
	logger logger.Logger,
) *StatusHandler {
	return &StatusHandler{
		listUseCase:   listUseCase,
		updateUseCase: updateUseCase,
		logoutUseCase: logoutUseCase,
		logger:        logger.WithComponent("status-handler"),
	}
}

// GetUsersStatus retorna o status de presença de todos os usuários
func (h *StatusHandler) GetUsersStatus(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.listUseCase.Execute(r.Context())
	if err != nil {
		h.logger.WithError(err).Error().Msg("Failed to get users status")
		responses.InternalError(w, "Failed to get users status")
		return
	}

	responses.Success(w, "Status dos usuários", statuses)
}

// UpdateUserStatus aplica um override manual de status a um usuário
func (h *StatusHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		responses.BadRequest(w, "ID de usuário inválido", err.Error())
		return
	}

	var req presenceuc.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responses.BadRequest(w, "Invalid request body", err.Error())
		return
	}

	if err := h.updateUseCase.Execute(r.Context(), userID, req); err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			responses.NotFound(w, "Usuário não encontrado")
		case errors.Is(err, user.ErrInvalidStatus):
			responses.BadRequest(w, "Status inválido", "status deve ser online ou offline")
		default:
			h.logger.WithError(err).Error().Msg("Failed to update user status")
			responses.InternalError(w, "Failed to update user status")
		}
		return
	}

	responses.Success(w, "Status atualizado com sucesso", nil)
}

// Logout marca o usuário como offline no logout
func (h *StatusHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		responses.BadRequest(w, "ID de usuário inválido", err.Error())
		return
	}

	if err := h.logoutUseCase.Execute(r.Context(), userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			responses.NotFound(w, "Usuário não encontrado")
			return
		}
		h.logger.WithError(err).Error().Msg("Failed to logout user")
		responses.InternalError(w, "Failed to logout user")
		return
	}

	responses.Success(w, "Logout realizado com sucesso", nil)
}
