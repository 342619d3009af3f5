package handlers

import (
	"net/http"

	"atendo/internal/http/middleware"
	"atendo/internal/http/responses"
	"atendo/internal/infra/ws"
)

// WebSocketHandler expõe o gateway de WebSocket de status na API
type WebSocketHandler struct {
	gateway *ws.Gateway
}

// NewWebSocketHandler cria uma nova instância do websocket handler
func NewWebSocketHandler(gateway *ws.Gateway) *WebSocketHandler {
	return &WebSocketHandler{gateway: gateway}
}

// Status faz o upgrade da conexão de status do usuário autenticado
func (h *WebSocketHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserFromContext(r.Context())
	if !ok {
		responses.Unauthorized(w, "Credencial de autenticação ausente")
		return
	}

	h.gateway.Handle(w, r, userID)
}
