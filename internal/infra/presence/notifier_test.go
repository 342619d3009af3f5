package presence

import (
	"testing"
	"time"

	"github.com/google/uuid"

	domain "atendo/internal/domain/presence"
	"atendo/pkg/logger"
)

func newTestNotifier(buffer int) *Notifier {
	return NewNotifier(buffer, logger.SetupForTesting())
}

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	notifier := newTestNotifier(8)
	defer notifier.Close()

	subA := notifier.Subscribe()
	subB := notifier.Subscribe()

	evt := domain.StatusChange{UserID: uuid.New(), Status: domain.StatusOnline, Timestamp: time.Now()}
	notifier.Publish(evt)

	for _, sub := range []*Subscriber{subA, subB} {
		select {
		case got := <-sub.Events():
			if got.UserID != evt.UserID || got.Status != evt.Status {
				t.Fatalf("unexpected event %+v", got)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber did not receive event")
		}
	}
}

func TestSlowObserverDoesNotBlockOthers(t *testing.T) {
	notifier := newTestNotifier(1)
	defer notifier.Close()

	slow := notifier.Subscribe() // nunca drenado
	fast := notifier.Subscribe()

	user := uuid.New()
	// primeiro evento enche o buffer do lento; os seguintes são descartados
	// para ele, mas Publish nunca bloqueia
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			notifier.Publish(domain.StatusChange{UserID: user, Status: domain.StatusOnline, Timestamp: time.Now()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Publish blocked on a slow observer")
	}

	// o rápido perdeu no máximo o que não coube no próprio buffer
	select {
	case <-fast.Events():
	case <-time.After(time.Second):
		t.Fatalf("fast subscriber received nothing")
	}

	if notifier.Dropped() == 0 {
		t.Fatalf("expected dropped events for the slow observer")
	}
	_ = slow
}

func TestPerUserOrderingPreserved(t *testing.T) {
	notifier := newTestNotifier(16)
	defer notifier.Close()

	sub := notifier.Subscribe()
	user := uuid.New()

	notifier.Publish(domain.StatusChange{UserID: user, Status: domain.StatusOnline, Timestamp: time.Now()})
	notifier.Publish(domain.StatusChange{UserID: user, Status: domain.StatusOffline, Timestamp: time.Now()})

	first := <-sub.Events()
	second := <-sub.Events()
	if first.Status != domain.StatusOnline || second.Status != domain.StatusOffline {
		t.Fatalf("events out of order: %s then %s", first.Status, second.Status)
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	notifier := newTestNotifier(8)
	sub := notifier.Subscribe()

	sub.Close()
	if _, ok := <-sub.Events(); ok {
		t.Fatalf("expected closed channel after unsubscribe")
	}
	// publicar depois do unsubscribe não pode entrar em pânico
	notifier.Publish(domain.StatusChange{UserID: uuid.New(), Status: domain.StatusOnline, Timestamp: time.Now()})

	notifier.Close()
	if notifier.SubscriberCount() != 0 {
		t.Fatalf("expected no subscribers after close")
	}
	// Close idempotente
	notifier.Close()
}
