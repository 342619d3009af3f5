package presence

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"atendo/internal/domain/presence"
	"atendo/pkg/logger"
)

// connState é o estado da máquina por usuário
type connState int

const (
	stateOffline connState = iota
	stateOnline
	statePendingOffline
)

// userEntry guarda o estado de presença de um único usuário. O mutex próprio
// garante que registro, desregistro e disparo do timer de graça para o mesmo
// usuário sejam atômicos entre si, sem serializar usuários distintos.
type userEntry struct {
	mu           sync.Mutex
	conns        map[presence.ConnectionID]time.Time
	state        connState
	lastActivity time.Time

	// timerGen invalida timers pendentes: um timer só aplica a transição para
	// offline se a geração com que foi armado ainda for a corrente. Assim
	// cancelamento e disparo nunca se aplicam ambos.
	timer    *time.Timer
	timerGen uint64
}

// Tracker implementa o núcleo de presença: registro de conexões por usuário,
// agregação online/offline com período de graça e emissão de eventos de
// transição para o notificador.
type Tracker struct {
	mu     sync.RWMutex
	users  map[uuid.UUID]*userEntry
	owners map[presence.ConnectionID]uuid.UUID
	closed bool

	grace    time.Duration
	notifier *Notifier
	store    presence.StatusStore
	logger   logger.Logger
}

var _ presence.Tracker = (*Tracker)(nil)

// NewTracker cria um tracker com o período de graça configurado. O store é
// opcional; quando presente, transições são espelhadas de forma assíncrona.
func NewTracker(grace time.Duration, notifier *Notifier, store presence.StatusStore, log logger.Logger) *Tracker {
	return &Tracker{
		users:    make(map[uuid.UUID]*userEntry),
		owners:   make(map[presence.ConnectionID]uuid.UUID),
		grace:    grace,
		notifier: notifier,
		store:    store,
		logger:   log.WithComponent("presence-tracker"),
	}
}

// Register adiciona o handle ao conjunto do usuário. A primeira conexão de um
// usuário offline emite exatamente um evento online; conexões adicionais e
// reconexões dentro do período de graça não emitem nada.
func (t *Tracker) Register(userID uuid.UUID, connID presence.ConnectionID) error {
	now := time.Now()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return presence.ErrTrackerClosed
	}
	if owner, exists := t.owners[connID]; exists {
		t.mu.Unlock()
		t.logger.WithFields(map[string]interface{}{
			"connId":  connID,
			"ownerId": owner,
			"userId":  userID,
		}).Error().Msg("Duplicate connection handle rejected")
		return presence.ErrDuplicateConnection
	}
	t.owners[connID] = userID
	entry, ok := t.users[userID]
	if !ok {
		entry = &userEntry{conns: make(map[presence.ConnectionID]time.Time)}
		t.users[userID] = entry
	}
	t.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.conns[connID] = now
	entry.lastActivity = now

	switch entry.state {
	case stateOffline:
		entry.state = stateOnline
		t.emit(userID, presence.StatusOnline, now)

	case statePendingOffline:
		// reconexão dentro da graça: cancela o timer, nenhum evento (o status
		// nunca saiu de online do ponto de vista externo)
		entry.state = stateOnline
		entry.timerGen++
		if entry.timer != nil {
			entry.timer.Stop()
			entry.timer = nil
		}

	case stateOnline:
		// já online, nada a emitir
	}

	t.logger.WithFields(map[string]interface{}{
		"userId": userID,
		"connId": connID,
		"count":  len(entry.conns),
	}).Debug().Msg("Connection registered")

	return nil
}

// Unregister remove o handle do conjunto do dono. Quando o conjunto esvazia,
// arma o timer de graça; offline só é emitido se nada reconectar antes do
// timer expirar. Handles desconhecidos são ignorados.
func (t *Tracker) Unregister(connID presence.ConnectionID) {
	t.mu.Lock()
	userID, ok := t.owners[connID]
	if !ok {
		t.mu.Unlock()
		t.logger.WithField("connId", connID).Debug().Msg("Unregister of unknown connection ignored")
		return
	}
	delete(t.owners, connID)
	entry := t.users[userID]
	closed := t.closed
	t.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	delete(entry.conns, connID)

	if len(entry.conns) == 0 && entry.state == stateOnline && !closed {
		entry.state = statePendingOffline
		entry.timerGen++
		gen := entry.timerGen
		entry.timer = time.AfterFunc(t.grace, func() {
			t.expireGrace(userID, gen)
		})
	}

	t.logger.WithFields(map[string]interface{}{
		"userId": userID,
		"connId": connID,
		"count":  len(entry.conns),
	}).Debug().Msg("Connection unregistered")
}

// expireGrace aplica a transição para offline quando o timer de graça dispara
// com o conjunto de conexões ainda vazio. A checagem de geração resolve a
// corrida com um Register concorrente: se a geração mudou, o timer perdeu.
func (t *Tracker) expireGrace(userID uuid.UUID, gen uint64) {
	t.mu.RLock()
	entry := t.users[userID]
	t.mu.RUnlock()
	if entry == nil {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.timerGen != gen || entry.state != statePendingOffline || len(entry.conns) > 0 {
		return
	}

	entry.state = stateOffline
	entry.timer = nil
	t.emit(userID, presence.StatusOffline, time.Now())
}

// Heartbeat atualiza a última atividade do usuário. Não mexe na máquina de
// estados: a conexão que enviou o heartbeat já está contada como aberta.
func (t *Tracker) Heartbeat(userID uuid.UUID) {
	t.mu.RLock()
	entry := t.users[userID]
	t.mu.RUnlock()
	if entry == nil {
		return
	}

	entry.mu.Lock()
	entry.lastActivity = time.Now()
	entry.mu.Unlock()
}

// ConnectionCount retorna o número de conexões abertas do usuário
func (t *Tracker) ConnectionCount(userID uuid.UUID) int {
	t.mu.RLock()
	entry := t.users[userID]
	t.mu.RUnlock()
	if entry == nil {
		return 0
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return len(entry.conns)
}

// IsOnline reflete o status agregado vivo. PENDING_OFFLINE ainda conta como
// online: o observador externo só vê a transição quando a graça expira.
func (t *Tracker) IsOnline(userID uuid.UUID) bool {
	t.mu.RLock()
	entry := t.users[userID]
	t.mu.RUnlock()
	if entry == nil {
		return false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.state != stateOffline
}

// LastActivity retorna o timestamp da última atividade observada do usuário
func (t *Tracker) LastActivity(userID uuid.UUID) (time.Time, bool) {
	t.mu.RLock()
	entry := t.users[userID]
	t.mu.RUnlock()
	if entry == nil {
		return time.Time{}, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.lastActivity, !entry.lastActivity.IsZero()
}

// Shutdown cancela timers pendentes e impede novos registros
func (t *Tracker) Shutdown() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	users := make([]*userEntry, 0, len(t.users))
	for _, entry := range t.users {
		users = append(users, entry)
	}
	t.mu.Unlock()

	for _, entry := range users {
		entry.mu.Lock()
		entry.timerGen++
		if entry.timer != nil {
			entry.timer.Stop()
			entry.timer = nil
		}
		entry.mu.Unlock()
	}

	t.logger.Info().Msg("Presence tracker shut down")
}

// emit publica a transição e espelha no armazenamento durável. O Publish é
// não bloqueante, então chamá-lo sob o lock do usuário preserva a ordem dos
// eventos daquele usuário sem segurar o lock durante escrita de transporte.
func (t *Tracker) emit(userID uuid.UUID, status presence.Status, ts time.Time) {
	evt := presence.StatusChange{UserID: userID, Status: status, Timestamp: ts}

	t.logger.WithFields(map[string]interface{}{
		"userId": userID,
		"status": status,
	}).Info().Msg("Presence status changed")

	if t.notifier != nil {
		t.notifier.Publish(evt)
	}

	if t.store != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := t.store.SaveStatus(ctx, evt.UserID, evt.Status, evt.Timestamp); err != nil {
				t.logger.WithError(err).WithField("userId", evt.UserID).
					Warn().Msg("Failed to mirror status change to durable store")
			}
		}()
	}
}
