package presence

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	domain "atendo/internal/domain/presence"
	"atendo/pkg/logger"
)

const testGrace = 40 * time.Millisecond

func newTestTracker(t *testing.T, grace time.Duration) (*Tracker, *Subscriber) {
	t.Helper()
	log := logger.SetupForTesting()
	notifier := NewNotifier(256, log)
	tracker := NewTracker(grace, notifier, nil, log)
	sub := notifier.Subscribe()
	t.Cleanup(func() {
		tracker.Shutdown()
		notifier.Close()
	})
	return tracker, sub
}

func waitEvent(t *testing.T, sub *Subscriber) domain.StatusChange {
	t.Helper()
	select {
	case evt, ok := <-sub.Events():
		if !ok {
			t.Fatalf("subscriber channel closed while waiting for event")
		}
		return evt
	case <-time.After(1 * time.Second):
		t.Fatalf("timed out waiting for status event")
	}
	return domain.StatusChange{}
}

func assertNoEvent(t *testing.T, sub *Subscriber, within time.Duration) {
	t.Helper()
	select {
	case evt, ok := <-sub.Events():
		if ok {
			t.Fatalf("unexpected event: user=%s status=%s", evt.UserID, evt.Status)
		}
	case <-time.After(within):
	}
}

func TestFirstConnectionEmitsOnline(t *testing.T) {
	tracker, sub := newTestTracker(t, testGrace)
	userA := uuid.New()

	if err := tracker.Register(userA, "c1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	evt := waitEvent(t, sub)
	if evt.UserID != userA || evt.Status != domain.StatusOnline {
		t.Fatalf("expected online event for %s, got %+v", userA, evt)
	}
	if !tracker.IsOnline(userA) {
		t.Fatalf("expected user online after register")
	}
}

func TestMultipleTabsSingleOnlineEvent(t *testing.T) {
	tracker, sub := newTestTracker(t, testGrace)
	userA := uuid.New()

	// c1 abre: online
	if err := tracker.Register(userA, "c1"); err != nil {
		t.Fatalf("Register c1: %v", err)
	}
	evt := waitEvent(t, sub)
	if evt.Status != domain.StatusOnline {
		t.Fatalf("expected online, got %s", evt.Status)
	}

	// c2 (segunda aba): nenhum evento novo
	if err := tracker.Register(userA, "c2"); err != nil {
		t.Fatalf("Register c2: %v", err)
	}
	assertNoEvent(t, sub, 2*testGrace)

	// fecha c1: ainda tem c2, nenhum evento
	tracker.Unregister("c1")
	assertNoEvent(t, sub, 2*testGrace)
	if got := tracker.ConnectionCount(userA); got != 1 {
		t.Fatalf("expected 1 connection, got %d", got)
	}

	// fecha c2: offline depois da graça
	tracker.Unregister("c2")
	evt = waitEvent(t, sub)
	if evt.UserID != userA || evt.Status != domain.StatusOffline {
		t.Fatalf("expected offline event, got %+v", evt)
	}
	if tracker.IsOnline(userA) {
		t.Fatalf("expected user offline after grace")
	}
}

func TestFlapWithinGraceEmitsNothing(t *testing.T) {
	tracker, sub := newTestTracker(t, 200*time.Millisecond)
	userB := uuid.New()

	if err := tracker.Register(userB, "c1"); err != nil {
		t.Fatalf("Register c1: %v", err)
	}
	evt := waitEvent(t, sub)
	if evt.Status != domain.StatusOnline {
		t.Fatalf("expected initial online, got %s", evt.Status)
	}

	// reload da página: fecha c1 e abre c2 bem dentro da graça
	tracker.Unregister("c1")
	time.Sleep(20 * time.Millisecond)
	if err := tracker.Register(userB, "c2"); err != nil {
		t.Fatalf("Register c2: %v", err)
	}

	// nem offline nem online espúrio, mesmo depois da graça original passar
	assertNoEvent(t, sub, 400*time.Millisecond)
	if !tracker.IsOnline(userB) {
		t.Fatalf("expected user still online after flap")
	}
}

func TestPendingOfflineStillReportsOnline(t *testing.T) {
	tracker, _ := newTestTracker(t, 150*time.Millisecond)
	user := uuid.New()

	if err := tracker.Register(user, "c1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	tracker.Unregister("c1")

	// durante a graça o status externo continua online
	if !tracker.IsOnline(user) {
		t.Fatalf("expected online during grace period")
	}
}

func TestOfflineEmittedOncePerExpiry(t *testing.T) {
	tracker, sub := newTestTracker(t, testGrace)
	user := uuid.New()

	if err := tracker.Register(user, "c1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	waitEvent(t, sub) // online

	tracker.Unregister("c1")
	// desconexão duplicada não pode gerar segundo timer nem segundo evento
	tracker.Unregister("c1")

	evt := waitEvent(t, sub)
	if evt.Status != domain.StatusOffline {
		t.Fatalf("expected offline, got %s", evt.Status)
	}
	assertNoEvent(t, sub, 3*testGrace)
}

func TestDuplicateConnectionRejected(t *testing.T) {
	tracker, sub := newTestTracker(t, testGrace)
	userA := uuid.New()
	userB := uuid.New()

	if err := tracker.Register(userA, "c1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	waitEvent(t, sub)

	// mesmo handle, mesmo usuário
	if err := tracker.Register(userA, "c1"); err != domain.ErrDuplicateConnection {
		t.Fatalf("expected ErrDuplicateConnection, got %v", err)
	}
	// mesmo handle, outro usuário: registro existente prevalece
	if err := tracker.Register(userB, "c1"); err != domain.ErrDuplicateConnection {
		t.Fatalf("expected ErrDuplicateConnection for other user, got %v", err)
	}
	if got := tracker.ConnectionCount(userA); got != 1 {
		t.Fatalf("expected count 1 after duplicates, got %d", got)
	}
	if tracker.IsOnline(userB) {
		t.Fatalf("userB must not become online from a rejected registration")
	}
}

func TestUnregisterUnknownIsNoop(t *testing.T) {
	tracker, sub := newTestTracker(t, testGrace)

	tracker.Unregister("never-registered")
	assertNoEvent(t, sub, 2*testGrace)
}

func TestHeartbeatDoesNotAffectStateMachine(t *testing.T) {
	tracker, sub := newTestTracker(t, testGrace)
	user := uuid.New()

	if err := tracker.Register(user, "c1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	waitEvent(t, sub)

	before, _ := tracker.LastActivity(user)
	time.Sleep(5 * time.Millisecond)
	tracker.Heartbeat(user)
	after, ok := tracker.LastActivity(user)
	if !ok || !after.After(before) {
		t.Fatalf("expected heartbeat to advance last activity (%v -> %v)", before, after)
	}
	assertNoEvent(t, sub, 2*testGrace)
}

func TestConcurrentStormKeepsCountConsistent(t *testing.T) {
	tracker, sub := newTestTracker(t, time.Hour) // graça enorme: sem offline no meio
	user := uuid.New()

	const total = 300
	const keep = 50 // handles que nunca são desregistrados

	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			connID := domain.ConnectionID(fmt.Sprintf("conn-%d", i))
			if err := tracker.Register(user, connID); err != nil {
				t.Errorf("Register %s: %v", connID, err)
				return
			}
			if i >= keep {
				tracker.Unregister(connID)
			}
		}(i)
	}
	wg.Wait()

	if got := tracker.ConnectionCount(user); got != keep {
		t.Fatalf("expected %d connections after storm, got %d", keep, got)
	}

	// exatamente um evento online, nunca mais que um
	evt := waitEvent(t, sub)
	if evt.Status != domain.StatusOnline {
		t.Fatalf("expected online event, got %s", evt.Status)
	}
	assertNoEvent(t, sub, 50*time.Millisecond)
}

func TestRegisterAfterShutdownFails(t *testing.T) {
	tracker, _ := newTestTracker(t, testGrace)
	tracker.Shutdown()

	if err := tracker.Register(uuid.New(), "c1"); err != domain.ErrTrackerClosed {
		t.Fatalf("expected ErrTrackerClosed, got %v", err)
	}
}
