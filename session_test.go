package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"memorkartoj/internal/deck"
)

// backdate marks a session entry as last used at the given time.
func backdate(entry *sessionEntry, to time.Time) {
	entry.mu.Lock()
	entry.lastAccess = to
	entry.mu.Unlock()
}

func TestSweepSessionsRemovesIdleEntries(t *testing.T) {
	app, _ := setupTestApp(t)
	app.SessionTimeout = time.Minute

	idle := app.session("session-idle-0000000000")
	app.session("session-live-0000000000")
	backdate(idle, time.Now().Add(-time.Hour))

	if removed := app.sweepSessions(); removed != 1 {
		t.Errorf("sweep removed %d sessions, want 1", removed)
	}
	if got := app.sessionCount(); got != 1 {
		t.Errorf("registry holds %d sessions after sweep, want 1", got)
	}
	app.SessionMutex.RLock()
	_, idleLeft := app.Sessions["session-idle-0000000000"]
	_, liveLeft := app.Sessions["session-live-0000000000"]
	app.SessionMutex.RUnlock()
	if idleLeft {
		t.Error("idle session survived the sweep")
	}
	if !liveLeft {
		t.Error("live session was swept")
	}
}

func TestSweepSessionsKeepsFreshEntries(t *testing.T) {
	app, _ := setupTestApp(t)
	app.SessionTimeout = time.Hour

	app.session("session-one-00000000000")
	app.session("session-two-00000000000")

	if removed := app.sweepSessions(); removed != 0 {
		t.Errorf("sweep removed %d fresh sessions, want 0", removed)
	}
}

func TestSweepLoopRemovesIdleSessions(t *testing.T) {
	app, _ := setupTestApp(t)
	app.SessionTimeout = time.Minute

	idle := app.session("session-idle-0000000000")
	backdate(idle, time.Now().Add(-time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go app.sweepLoop(ctx, 20*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if app.sessionCount() == 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("sweep loop never removed the idle session")
}

func TestHydrateFallsBackToSeedOnCorruptSnapshot(t *testing.T) {
	app, _ := setupTestApp(t)
	const id = "session-corrupt-000000"

	corrupt := filepath.Join(app.Store.Dir(), contentKey(id)+".json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to plant corrupt snapshot: %v", err)
	}

	entry := app.session(id)
	if got := entry.sess.Len(); got != 3 {
		t.Errorf("session from corrupt snapshot has %d cards, want the seed's 3", got)
	}
	if got := entry.sess.Title(); got != "Test Deck" {
		t.Errorf("session title = %q, want the seed title", got)
	}

	var content deck.ContentSnapshot
	if app.Store.Get(contentKey(id), &content) {
		t.Error("corrupt snapshot should have been removed")
	}
}

func TestDropSessionDeletesAllSnapshots(t *testing.T) {
	app, _ := setupTestApp(t)
	const id = "session-dropme-0000000"

	entry := app.session(id)
	entry.mu.Lock()
	app.persistState(id, entry.sess)
	app.persistContent(id, entry.sess)
	app.persistLayout(id, entry.sess)
	entry.mu.Unlock()

	app.dropSession(id)

	if got := app.sessionCount(); got != 0 {
		t.Errorf("registry holds %d sessions after drop, want 0", got)
	}
	var st deck.StateSnapshot
	var content deck.ContentSnapshot
	var layout deck.LayoutSnapshot
	if app.Store.Get(stateKey(id), &st) {
		t.Error("state snapshot survived dropSession")
	}
	if app.Store.Get(contentKey(id), &content) {
		t.Error("content snapshot survived dropSession")
	}
	if app.Store.Get(layoutKey(id), &layout) {
		t.Error("layout snapshot survived dropSession")
	}
}

func TestHydrationWrapsStaleCursor(t *testing.T) {
	app, _ := setupTestApp(t)
	const id = "session-stale-00000000"

	// A cursor persisted against a larger deck than the one being restored.
	if err := app.Store.Set(stateKey(id), deck.StateSnapshot{CurrentIndex: 7, Starred: []int{1}}); err != nil {
		t.Fatalf("failed to seed state snapshot: %v", err)
	}

	entry := app.session(id)
	if got := entry.sess.Current(); got != 1 {
		t.Errorf("stale cursor hydrated to %d, want 7 wrapped to 1", got)
	}
	if !entry.sess.IsStarred(1) {
		t.Error("starred index lost during hydration")
	}
}
