package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"memorkartoj/internal/deck"
	"memorkartoj/internal/kvstore"
)

// sessionEntry pairs one live study session with its own lock, so requests
// for the same session serialize without blocking other sessions. lastAccess
// is guarded by mu and drives the in-memory sweep.
type sessionEntry struct {
	mu         sync.Mutex
	sess       *deck.Session
	lastAccess time.Time
}

// touch records that the session was just used.
func (e *sessionEntry) touch() {
	e.mu.Lock()
	e.lastAccess = time.Now()
	e.mu.Unlock()
}

// App holds all server state: the session registry, the snapshot store, the
// seed deck, the optional generation client and the per-client rate limiters.
// Handlers hang off App so nothing lives in package globals.
type App struct {
	Sessions     map[string]*sessionEntry
	SessionMutex sync.RWMutex

	Store *kvstore.Store
	Seed  deck.Deck
	Chat  *chatService

	LimiterMap   map[string]*rate.Limiter
	LimiterMutex sync.Mutex

	IsProduction bool
	StartTime    time.Time

	CookieMaxAge   time.Duration
	SessionTimeout time.Duration
	StaticCacheAge time.Duration
	RateLimitRPS   int
	RateLimitBurst int
	APILimitRPS    int
	APILimitBurst  int
}

// NewApp builds the application from the environment. Call after the env
// file has been loaded so overrides from .env are visible.
func NewApp(seed deck.Deck, store *kvstore.Store, isProduction bool) *App {
	return &App{
		Sessions:       make(map[string]*sessionEntry),
		Store:          store,
		Seed:           seed,
		Chat:           newChatService(),
		LimiterMap:     make(map[string]*rate.Limiter),
		IsProduction:   isProduction,
		StartTime:      time.Now(),
		CookieMaxAge:   getEnvDuration("COOKIE_MAX_AGE", 720*time.Hour),
		SessionTimeout: getEnvDuration("SESSION_TIMEOUT", 720*time.Hour),
		StaticCacheAge: getEnvDuration("STATIC_CACHE_AGE", 5*time.Minute),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		APILimitRPS:    getEnvInt("API_RATE_LIMIT_RPS", 1),
		APILimitBurst:  getEnvInt("API_RATE_LIMIT_BURST", 3),
	}
}

// sessionCount returns the number of live sessions in the registry.
func (app *App) sessionCount() int {
	app.SessionMutex.RLock()
	defer app.SessionMutex.RUnlock()
	return len(app.Sessions)
}
