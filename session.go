package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"memorkartoj/internal/deck"
)

// Snapshot keys per session. State, content and layout are stored separately
// because they save on different triggers: state after navigation or a star
// toggle, content only after an import, layout on every layout change.
func stateKey(sessionID string) string   { return sessionID + ".state" }
func contentKey(sessionID string) string { return sessionID + ".content" }
func layoutKey(sessionID string) string  { return sessionID + ".layout" }

// getOrCreateSessionID retrieves the session ID from the cookie or creates a
// new one.
func (app *App) getOrCreateSessionID(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.IsProduction
		c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", secure, true)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// session returns the registry entry for a session, hydrating it from stored
// snapshots or from the seed deck on a miss.
func (app *App) session(sessionID string) *sessionEntry {
	app.SessionMutex.RLock()
	entry, ok := app.Sessions[sessionID]
	app.SessionMutex.RUnlock()
	if ok {
		entry.touch()
		return entry
	}

	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()
	if entry, ok := app.Sessions[sessionID]; ok {
		entry.touch()
		return entry
	}
	entry = &sessionEntry{
		sess:       app.hydrateSession(sessionID),
		lastAccess: time.Now(),
	}
	app.Sessions[sessionID] = entry
	return entry
}

// hydrateSession rebuilds a session from its stored snapshots. The order
// matters: content first so the state's cursor wraps against the right deck,
// then state, then layout. Anything missing or unreadable falls back to the
// seed deck and defaults.
func (app *App) hydrateSession(sessionID string) *deck.Session {
	sess := deck.NewSession(app.Seed)

	var content deck.ContentSnapshot
	if app.Store.Get(contentKey(sessionID), &content) {
		sess.RestoreContent(content)
		logInfo("Hydrated session %s with %d stored cards", sessionID, sess.Len())
	}
	var state deck.StateSnapshot
	if app.Store.Get(stateKey(sessionID), &state) {
		sess.RestoreState(state)
	}
	var layout deck.LayoutSnapshot
	if app.Store.Get(layoutKey(sessionID), &layout) {
		sess.RestoreLayout(layout)
	}
	return sess
}

// persistState writes the cursor and star snapshot. Call after navigation or
// a star toggle. The caller must hold the session entry's lock.
func (app *App) persistState(sessionID string, sess *deck.Session) {
	if err := app.Store.Set(stateKey(sessionID), sess.StateSnapshot()); err != nil {
		logWarn("Failed to persist state for session %s: %v", sessionID, err)
	}
}

// persistContent writes the card store snapshot. Call only after a
// successful import. The caller must hold the session entry's lock.
func (app *App) persistContent(sessionID string, sess *deck.Session) {
	if err := app.Store.Set(contentKey(sessionID), sess.ContentSnapshot(time.Now())); err != nil {
		logWarn("Failed to persist content for session %s: %v", sessionID, err)
	}
}

// persistLayout writes the layout snapshot. Call after a layout change. The
// caller must hold the session entry's lock.
func (app *App) persistLayout(sessionID string, sess *deck.Session) {
	if err := app.Store.Set(layoutKey(sessionID), sess.LayoutSnapshot()); err != nil {
		logWarn("Failed to persist layout for session %s: %v", sessionID, err)
	}
}

// dropSession removes a session from the registry and deletes its stored
// snapshots.
func (app *App) dropSession(sessionID string) {
	app.SessionMutex.Lock()
	delete(app.Sessions, sessionID)
	app.SessionMutex.Unlock()

	if n, err := app.Store.DeletePrefix(sessionID + "."); err != nil {
		logWarn("Failed to delete snapshots for session %s: %v", sessionID, err)
	} else if n > 0 {
		logInfo("Deleted %d stored snapshots for session %s", n, sessionID)
	}
}

// sweepSessions drops idle registry entries and expired store files. Returns
// how many in-memory sessions were removed.
func (app *App) sweepSessions() int {
	cutoff := time.Now().Add(-app.SessionTimeout)
	removed := 0

	app.SessionMutex.Lock()
	for id, entry := range app.Sessions {
		entry.mu.Lock()
		idle := entry.lastAccess.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			delete(app.Sessions, id)
			removed++
		}
	}
	app.SessionMutex.Unlock()

	if n, err := app.Store.Sweep(); err != nil {
		logWarn("Snapshot sweep failed: %v", err)
	} else if n > 0 {
		logInfo("Snapshot sweep removed %d expired files", n)
	}
	return removed
}

// sweepLoop runs sweepSessions on a timer until the context is cancelled.
func (app *App) sweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := app.sweepSessions(); n > 0 {
				logInfo("Session sweep removed %d idle sessions", n)
			}
		}
	}
}
