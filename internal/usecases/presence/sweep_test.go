package presence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"atendo/internal/domain/presence"
	"atendo/internal/domain/user"
	"atendo/pkg/logger"
)

type fakeUserRepo struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*user.User
	statusWrites map[uuid.UUID]bool
	activityHits map[uuid.UUID]int
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{
		users:        make(map[uuid.UUID]*user.User),
		statusWrites: make(map[uuid.UUID]bool),
		activityHits: make(map[uuid.UUID]int),
	}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateOnlineStatus(_ context.Context, id uuid.UUID, online bool, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.IsOnline = online
		u.LastActivity = &ts
	}
	r.statusWrites[id] = online
	return nil
}

func (r *fakeUserRepo) UpdateLastActivity(_ context.Context, id uuid.UUID, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.LastActivity = &ts
	}
	r.activityHits[id]++
	return nil
}

func (r *fakeUserRepo) ListOnlineInactiveSince(_ context.Context, cutoff time.Time) ([]*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*user.User
	for _, u := range r.users {
		if u.IsOnline && u.LastActivity != nil && u.LastActivity.Before(cutoff) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) statusWrite(id uuid.UUID) (bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.statusWrites[id]
	return v, ok
}

func (r *fakeUserRepo) activityCount(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activityHits[id]
}

type fakeTracker struct {
	mu     sync.Mutex
	online map[uuid.UUID]bool
	beats  map[uuid.UUID]int
}

func newFakeTracker(online ...uuid.UUID) *fakeTracker {
	t := &fakeTracker{
		online: make(map[uuid.UUID]bool),
		beats:  make(map[uuid.UUID]int),
	}
	for _, id := range online {
		t.online[id] = true
	}
	return t
}

func (t *fakeTracker) Register(uuid.UUID, presence.ConnectionID) error { return nil }
func (t *fakeTracker) Unregister(presence.ConnectionID)               {}
func (t *fakeTracker) ConnectionCount(uuid.UUID) int                  { return 0 }
func (t *fakeTracker) Shutdown()                                      {}

func (t *fakeTracker) Heartbeat(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.beats[id]++
}

func (t *fakeTracker) IsOnline(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.online[id]
}

func (t *fakeTracker) beatCount(id uuid.UUID) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.beats[id]
}

func staleUser(activity time.Time) *user.User {
	return &user.User{
		ID:           uuid.New(),
		Nome:         "Atendente",
		Email:        uuid.NewString() + "@example.com",
		IsOnline:     true,
		IsActive:     true,
		LastActivity: &activity,
	}
}

func TestSweepMarksStaleUsersOffline(t *testing.T) {
	old := time.Now().Add(-10 * time.Minute)
	u := staleUser(old)
	repo := newFakeUserRepo(u)
	uc := NewSweepInactiveUseCase(repo, newFakeTracker(), 5*time.Minute, logger.SetupForTesting())

	swept, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if swept != 1 {
		t.Fatalf("swept = %d, want 1", swept)
	}
	if online, ok := repo.statusWrite(u.ID); !ok || online {
		t.Fatalf("expected offline write for stale user, got ok=%v online=%v", ok, online)
	}
}

func TestSweepSkipsUsersWithLiveConnections(t *testing.T) {
	old := time.Now().Add(-10 * time.Minute)
	u := staleUser(old)
	repo := newFakeUserRepo(u)
	uc := NewSweepInactiveUseCase(repo, newFakeTracker(u.ID), 5*time.Minute, logger.SetupForTesting())

	swept, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if swept != 0 {
		t.Fatalf("swept = %d, want 0", swept)
	}
	if _, ok := repo.statusWrite(u.ID); ok {
		t.Fatal("sweep wrote status for a user with live connections")
	}
}

func TestSweepIgnoresRecentActivity(t *testing.T) {
	recent := time.Now().Add(-1 * time.Minute)
	u := staleUser(recent)
	repo := newFakeUserRepo(u)
	uc := NewSweepInactiveUseCase(repo, newFakeTracker(), 5*time.Minute, logger.SetupForTesting())

	swept, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if swept != 0 {
		t.Fatalf("swept = %d, want 0", swept)
	}
}

func TestHeartbeatThrottlesPersistentWrites(t *testing.T) {
	u := staleUser(time.Now())
	repo := newFakeUserRepo(u)
	tracker := newFakeTracker()
	uc := NewHeartbeatUseCase(tracker, repo, time.Hour, logger.SetupForTesting())
	defer uc.Stop()

	for i := 0; i < 5; i++ {
		if err := uc.Execute(context.Background(), u.ID); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}

	if got := tracker.beatCount(u.ID); got != 5 {
		t.Fatalf("tracker heartbeats = %d, want 5", got)
	}
	if got := repo.activityCount(u.ID); got != 1 {
		t.Fatalf("persistent writes = %d, want 1", got)
	}
}

func TestHeartbeatPersistsAgainAfterWindow(t *testing.T) {
	u := staleUser(time.Now())
	repo := newFakeUserRepo(u)
	uc := NewHeartbeatUseCase(newFakeTracker(), repo, 30*time.Millisecond, logger.SetupForTesting())
	defer uc.Stop()

	if err := uc.Execute(context.Background(), u.ID); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	if err := uc.Execute(context.Background(), u.ID); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := repo.activityCount(u.ID); got != 2 {
		t.Fatalf("persistent writes = %d, want 2", got)
	}
}

func TestGetUsersStatusMergesLiveRegistry(t *testing.T) {
	activity := time.Now()
	dbOffline := staleUser(activity)
	dbOffline.IsOnline = false
	dbOnline := staleUser(activity)

	repo := newFakeUserRepo(dbOffline, dbOnline)
	// dbOffline tem conexão viva: o registro deve prevalecer sobre o banco
	uc := NewGetUsersStatusUseCase(repo, newFakeTracker(dbOffline.ID), logger.SetupForTesting())

	statuses, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	byID := make(map[uuid.UUID]UserStatus, len(statuses))
	for _, s := range statuses {
		byID[s.ID] = s
	}
	if !byID[dbOffline.ID].IsOnline {
		t.Fatal("user with live connection reported offline")
	}
	if !byID[dbOnline.ID].IsOnline {
		t.Fatal("user online in storage reported offline")
	}
}
