package ws

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"atendo/internal/domain/presence"
	infrapresence "atendo/internal/infra/presence"
	"atendo/pkg/logger"
)

// HeartbeatSink processa os heartbeats recebidos pelas conexões
type HeartbeatSink interface {
	Execute(ctx context.Context, userID uuid.UUID) error
}

// Gateway faz a ponte entre o upgrade HTTP e o tracker de presença: registra
// a conexão, assina o feed de transições e sobe os pumps de leitura e escrita.
type Gateway struct {
	tracker    presence.Tracker
	notifier   *infrapresence.Notifier
	heartbeats HeartbeatSink
	upgrader   websocket.Upgrader
	logger     logger.Logger
}

// NewGateway cria o gateway de WebSocket de status
func NewGateway(tracker presence.Tracker, notifier *infrapresence.Notifier, heartbeats HeartbeatSink, log logger.Logger) *Gateway {
	return &Gateway{
		tracker:    tracker,
		notifier:   notifier,
		heartbeats: heartbeats,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// a origem já foi filtrada pelo middleware de CORS do router
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: log.WithComponent("ws-gateway"),
	}
}

// Handle faz o upgrade da conexão e a registra no tracker. O userID vem do
// middleware de autenticação; cada conexão recebe um handle próprio, então o
// mesmo usuário pode abrir quantas abas quiser.
func (g *Gateway) Handle(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// o Upgrade já respondeu o handshake com erro
		g.logger.WithError(err).Warn().Msg("WebSocket upgrade failed")
		return
	}

	connID := presence.ConnectionID(uuid.NewString())
	if err := g.tracker.Register(userID, connID); err != nil {
		g.logger.WithError(err).
			WithField("userId", userID.String()).
			Error().Msg("Failed to register connection")
		code := websocket.CloseInternalServerErr
		if errors.Is(err, presence.ErrTrackerClosed) {
			code = websocket.CloseGoingAway
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, "registration failed"))
		conn.Close()
		return
	}

	sub := g.notifier.Subscribe()

	c := &client{
		userID:  userID,
		connID:  connID,
		conn:    conn,
		gateway: g,
		acks:    make(chan struct{}, 8),
		logger: g.logger.
			WithField("userId", userID.String()).
			WithField("connId", string(connID)),
	}

	c.logger.Info().Msg("WebSocket connection established")

	go c.writePump(sub)
	go c.readPump(sub)
}
