package ws

import (
	"time"

	"github.com/google/uuid"

	"atendo/internal/domain/presence"
)

// Tipos do conjunto fechado de mensagens trocadas no WebSocket de status.
// Mensagens de entrada com tipo fora deste conjunto são logadas e ignoradas.
const (
	MessageTypeHeartbeat    = "heartbeat"
	MessageTypeHeartbeatAck = "heartbeat.ack"
	MessageTypeStatusUpdate = "status.update"
)

// Envelope identifica o tipo de uma mensagem de entrada antes do dispatch
type Envelope struct {
	Type string `json:"type"`
}

// StatusUpdateMessage é o payload enviado aos observadores a cada transição
type StatusUpdateMessage struct {
	Type         string    `json:"type"`
	UserID       uuid.UUID `json:"userId"`
	IsOnline     bool      `json:"isOnline"`
	LastActivity time.Time `json:"lastActivity"`
}

// AckMessage confirma o recebimento de um heartbeat
type AckMessage struct {
	Type string `json:"type"`
}

// NewStatusUpdateMessage converte um evento de transição no payload de wire
func NewStatusUpdateMessage(evt presence.StatusChange) StatusUpdateMessage {
	return StatusUpdateMessage{
		Type:         MessageTypeStatusUpdate,
		UserID:       evt.UserID,
		IsOnline:     evt.IsOnline(),
		LastActivity: evt.Timestamp,
	}
}
