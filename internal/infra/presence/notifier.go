package presence

import (
	"sync"
	"sync/atomic"

	"atendo/internal/domain/presence"
	"atendo/pkg/logger"
)

// Subscriber recebe eventos de mudança de status por um canal com buffer
// limitado. Quando o buffer enche, eventos novos são descartados para esse
// assinante; o próximo evento do mesmo usuário supersede o perdido.
type Subscriber struct {
	ch       chan presence.StatusChange
	notifier *Notifier
	once     sync.Once
}

// Events retorna o canal de eventos do assinante. O canal é fechado quando o
// assinante chama Close ou o notificador é encerrado.
func (s *Subscriber) Events() <-chan presence.StatusChange {
	return s.ch
}

// Close cancela a assinatura e fecha o canal de eventos
func (s *Subscriber) Close() {
	s.once.Do(func() {
		s.notifier.unsubscribe(s)
	})
}

// Notifier entrega eventos de status a todos os observadores inscritos.
// Entrega é fire-and-forget: um observador lento ou morto nunca bloqueia o
// tracker nem os demais observadores.
type Notifier struct {
	mu      sync.RWMutex
	subs    map[*Subscriber]struct{}
	buffer  int
	closed  bool
	dropped atomic.Uint64
	logger  logger.Logger
}

// NewNotifier cria um notificador com o tamanho de buffer por observador
func NewNotifier(buffer int, log logger.Logger) *Notifier {
	if buffer <= 0 {
		buffer = 64
	}
	return &Notifier{
		subs:   make(map[*Subscriber]struct{}),
		buffer: buffer,
		logger: log.WithComponent("presence-notifier"),
	}
}

// Subscribe registra um novo observador de mudanças de status
func (n *Notifier) Subscribe() *Subscriber {
	sub := &Subscriber{
		ch:       make(chan presence.StatusChange, n.buffer),
		notifier: n,
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		close(sub.ch)
		return sub
	}
	n.subs[sub] = struct{}{}
	return sub
}

// Publish entrega o evento a todos os observadores inscritos sem bloquear.
// Eventos do mesmo usuário chegam na ordem em que foram emitidos; entre
// usuários distintos não há garantia de ordem.
func (n *Notifier) Publish(evt presence.StatusChange) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for sub := range n.subs {
		select {
		case sub.ch <- evt:
		default:
			// buffer cheio: descarta para este observador
			n.dropped.Add(1)
			n.logger.WithFields(map[string]interface{}{
				"userId": evt.UserID,
				"status": evt.Status,
			}).Debug().Msg("Observer buffer full, status event dropped")
		}
	}
}

// SubscriberCount retorna o número de observadores ativos
func (n *Notifier) SubscriberCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}

// Dropped retorna o total de eventos descartados por buffers cheios
func (n *Notifier) Dropped() uint64 {
	return n.dropped.Load()
}

// Close encerra o notificador e fecha os canais de todos os assinantes
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	for sub := range n.subs {
		close(sub.ch)
		delete(n.subs, sub)
	}
}

func (n *Notifier) unsubscribe(s *Subscriber) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.subs[s]; !ok {
		return
	}
	delete(n.subs, s)
	// fechado sob o lock exclusivo, então nenhum Publish concorrente envia
	close(s.ch)
}
