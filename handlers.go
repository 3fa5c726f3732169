package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"memorkartoj/internal/deck"
	"memorkartoj/internal/view"
)

// renderStudy renders the session through its active layout, as a fragment
// for HTMX requests and as the full page otherwise. A non-empty errMsg is
// surfaced twice: inline for the no-script page and as an HX-Trigger payload
// for the toast script.
func (app *App) renderStudy(c *gin.Context, sess *deck.Session, opts view.Options, errMsg string) {
	if errMsg != "" {
		payload := map[string]string{"server_error": errMsg}
		if b, jerr := json.Marshal(payload); jerr == nil {
			c.Header("HX-Trigger", string(b))
		} else {
			logWarn("Failed to marshal HX-Trigger payload: %v", jerr)
		}
	}

	m := view.Build(sess, opts)
	if c.GetHeader("HX-Request") == "true" {
		c.HTML(http.StatusOK, TemplateStudy, gin.H{
			"view":  m,
			"error": errMsg,
		})
		return
	}
	c.HTML(http.StatusOK, TemplatePage, gin.H{
		"title": "Memorkartoj - Study Your Cards",
		"view":  m,
		"error": errMsg,
	})
}

// viewOptions collects the view-local inputs echoed through each request:
// the search query and the table row selection. Neither is session state.
func viewOptions(c *gin.Context, moved bool) view.Options {
	return view.Options{
		Moved:    moved,
		Query:    formQuery(c),
		Selected: formSelection(c),
	}
}

// formQuery reads the search query from the form echo or the URL.
func formQuery(c *gin.Context) string {
	if q, ok := c.GetPostForm("q"); ok {
		return q
	}
	return c.Query("q")
}

// formSelection reads the table layout's checkbox echoes.
func formSelection(c *gin.Context) map[int]bool {
	vals := c.PostFormArray("selected")
	if len(vals) == 0 {
		return nil
	}
	sel := make(map[int]bool, len(vals))
	for _, v := range vals {
		if i, err := strconv.Atoi(v); err == nil {
			sel[i] = true
		}
	}
	return sel
}

// pageHandler renders the full study page for the current session.
func (app *App) pageHandler(c *gin.Context) {
	sessionID := app.getOrCreateSessionID(c)
	entry := app.session(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	app.renderStudy(c, entry.sess, viewOptions(c, false), "")
}

// gotoHandler jumps the cursor to a requested card. Out-of-range indexes
// wrap instead of failing, so stale fragments never strand a click.
func (app *App) gotoHandler(c *gin.Context) {
	sessionID := app.getOrCreateSessionID(c)
	entry := app.session(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	raw := c.PostForm("index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		logWarn("Session %s sent unparseable card index %q", sessionID, raw)
		app.renderStudy(c, entry.sess, viewOptions(c, false), ErrorBadIndex)
		return
	}

	entry.sess.GoTo(i)
	app.persistState(sessionID, entry.sess)
	app.renderStudy(c, entry.sess, viewOptions(c, true), "")
}

// nextHandler advances the cursor, wrapping past the last card.
func (app *App) nextHandler(c *gin.Context) {
	sessionID := app.getOrCreateSessionID(c)
	entry := app.session(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.sess.Next()
	app.persistState(sessionID, entry.sess)
	app.renderStudy(c, entry.sess, viewOptions(c, true), "")
}

// prevHandler moves the cursor back, wrapping before the first card.
func (app *App) prevHandler(c *gin.Context) {
	sessionID := app.getOrCreateSessionID(c)
	entry := app.session(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.sess.Prev()
	app.persistState(sessionID, entry.sess)
	app.renderStudy(c, entry.sess, viewOptions(c, true), "")
}

// flipHandler turns the current card over. Flip state is in-memory only, so
// nothing is persisted here.
func (app *App) flipHandler(c *gin.Context) {
	sessionID := app.getOrCreateSessionID(c)
	entry := app.session(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.sess.Flip()
	app.renderStudy(c, entry.sess, viewOptions(c, false), "")
}

// starHandler toggles the star on one card. Starring is its own route on
// purpose: it can never move the cursor, no matter where the button sits in
// the markup.
func (app *App) starHandler(c *gin.Context) {
	sessionID := app.getOrCreateSessionID(c)
	entry := app.session(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	i := entry.sess.Current()
	if raw := c.PostForm("index"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			logWarn("Session %s sent unparseable star index %q", sessionID, raw)
			app.renderStudy(c, entry.sess, viewOptions(c, false), ErrorBadIndex)
			return
		}
		i = parsed
	}

	entry.sess.ToggleStar(i)
	app.persistState(sessionID, entry.sess)
	app.renderStudy(c, entry.sess, viewOptions(c, false), "")
}

// layoutHandler switches the layout variant. An unknown name is a no-op
// render of the current layout.
func (app *App) layoutHandler(c *gin.Context) {
	sessionID := app.getOrCreateSessionID(c)
	entry := app.session(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	name := c.PostForm("layout")
	if l, ok := deck.ParseLayout(name); ok {
		entry.sess.SetLayout(l)
		app.persistLayout(sessionID, entry.sess)
	} else {
		logWarn("Session %s requested unknown layout %q", sessionID, name)
	}
	app.renderStudy(c, entry.sess, viewOptions(c, false), "")
}

// importHandler replaces the session's deck with pasted text. On failure the
// existing deck is untouched and the user sees why.
func (app *App) importHandler(c *gin.Context) {
	sessionID := app.getOrCreateSessionID(c)
	entry := app.session(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	text := c.PostForm("cards")
	title := c.PostForm("title")
	n, err := entry.sess.Import(text, title)
	if err != nil {
		logWarn("Session %s import rejected: %v (input %q)", sessionID, err, truncateForLog(text, 40))
		app.renderStudy(c, entry.sess, viewOptions(c, false), ErrorEmptyImport)
		return
	}

	logInfo("Session %s imported %d cards (title %q)", sessionID, n, entry.sess.Title())
	app.persistContent(sessionID, entry.sess)
	app.renderStudy(c, entry.sess, viewOptions(c, false), "")
}

// searchHandler renders just the default layout's card list, filtered by the
// query. The query lives in the view, not the session, so nothing here is
// persisted.
func (app *App) searchHandler(c *gin.Context) {
	sessionID := app.getOrCreateSessionID(c)
	entry := app.session(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	list := view.BuildDefault(entry.sess, c.Query("q"))
	c.HTML(http.StatusOK, TemplateCardList, list)
}

// resetHandler discards the session and its snapshots and starts a fresh one
// under a new cookie.
func (app *App) resetHandler(c *gin.Context) {
	sessionID := app.getOrCreateSessionID(c)
	app.dropSession(sessionID)

	secure := app.IsProduction
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)

	newSessionID := uuid.NewString()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, newSessionID, int(app.CookieMaxAge.Seconds()), "/", "", secure, true)
	logInfo("Reset session %s, issued %s", sessionID, newSessionID)

	entry := app.session(newSessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if c.GetHeader("HX-Request") == "true" {
		app.renderStudy(c, entry.sess, view.Options{}, "")
		return
	}
	c.Redirect(http.StatusSeeOther, RouteHome)
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"env":             map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"seed_cards":      len(app.Seed.Cards),
		"active_sessions": app.sessionCount(),
		"generation":      app.Chat != nil,
		"uptime":          formatUptime(uptime),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}
