package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"atendo/internal/domain/presence"
	infrapresence "atendo/internal/infra/presence"
	"atendo/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// client é uma sessão WebSocket autenticada de um usuário. Uma sessão é uma
// conexão no registry; o mesmo usuário pode ter várias (abas, devices).
type client struct {
	userID  uuid.UUID
	connID  presence.ConnectionID
	conn    *websocket.Conn
	gateway *Gateway
	acks    chan struct{}
	logger  logger.Logger
}

// readPump consome mensagens do cliente até a conexão fechar. O defer cuida
// da limpeza: desregistra a conexão (disparando o período de graça quando for
// a última) e cancela a assinatura de eventos.
func (c *client) readPump(sub *infrapresence.Subscriber) {
	defer func() {
		c.gateway.tracker.Unregister(c.connID)
		sub.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			// fechamento normal ou erro de leitura; o defer faz a limpeza
			return
		}
		c.dispatch(payload)
	}
}

// dispatch decodifica o envelope e roteia a mensagem pelo tipo
func (c *client) dispatch(payload []byte) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		c.logger.WithError(err).Debug().Msg("Discarding malformed message")
		return
	}

	switch env.Type {
	case MessageTypeHeartbeat:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.gateway.heartbeats.Execute(ctx, c.userID); err != nil {
			c.logger.WithError(err).Warn().Msg("Failed to record heartbeat")
			return
		}
		select {
		case c.acks <- struct{}{}:
		default:
		}
	default:
		c.logger.WithField("type", env.Type).Debug().Msg("Unknown message type ignored")
	}
}

// writePump envia eventos de status e pings até a assinatura ou a conexão
// encerrar. Cada cliente tem seu próprio pump; um peer lento atrasa só a si.
func (c *client) writePump(sub *infrapresence.Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-sub.Events():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(NewStatusUpdateMessage(evt)); err != nil {
				return
			}

		case <-c.acks:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(AckMessage{Type: MessageTypeHeartbeatAck}); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
