package main

import (
	"context"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"

	"memorkartoj/internal/deck"
	"memorkartoj/internal/kvstore"
)

func main() {
	_ = godotenv.Load()

	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	logInfo("Starting Memorkartoj in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])

	seed := loadSeedDeck()
	logInfo("Seed deck %q loaded with %d cards", seed.Title, len(seed.Cards))

	sessionTimeout := getEnvDuration("SESSION_TIMEOUT", 720*time.Hour)
	store, err := kvstore.New(getEnvString("DATA_DIR", "data/sessions"), sessionTimeout)
	if err != nil {
		logFatal("Failed to open snapshot store: %v", err)
	}

	app := NewApp(seed, store, isProduction)
	router := app.newRouter()

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go app.sweepLoop(sweepCtx, getEnvDuration("SWEEP_INTERVAL", time.Hour))

	startServer(router)
}

// loadSeedDeck reads the deck every new session starts from. A missing or
// unreadable file falls back to the built-in deck so the server always has
// cards to serve.
func loadSeedDeck() deck.Deck {
	path := getEnvString("SEED_DECK", "data/decks/default.yaml")
	d, err := deck.LoadFile(path)
	if err != nil {
		logWarn("Seed deck %s unavailable (%v), using built-in deck", path, err)
		return deck.Builtin()
	}
	return d
}

// newRouter assembles the gin engine: compression, cache headers, static
// assets, templates and all routes. Study mutations go through the shared
// rate limit; the generation endpoints get a stricter one.
func (app *App) newRouter() *gin.Engine {
	router := gin.Default()

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif"}),
		ginGzip.WithExcludedPaths([]string{"/static/fonts"})))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.Use(requestIDMiddleware())
	router.Use(app.applyCacheHeaders)

	router.SetFuncMap(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	})

	if app.IsProduction && dirExists("dist") {
		logInfo("Serving assets from dist/ directory")
		router.LoadHTMLGlob("dist/templates/*.html")
		router.Static("/static", "./dist/static")
	} else {
		logInfo("Serving development assets from source directories")
		router.LoadHTMLGlob("templates/*.html")
		router.Static("/static", "./static")
	}

	router.GET(RouteHome, app.pageHandler)
	router.GET(RouteSearch, app.searchHandler)
	router.GET(RouteHealthz, app.healthzHandler)

	router.POST(RouteGoto, app.rateLimitMiddleware(), app.gotoHandler)
	router.POST(RouteNext, app.rateLimitMiddleware(), app.nextHandler)
	router.POST(RoutePrev, app.rateLimitMiddleware(), app.prevHandler)
	router.POST(RouteFlip, app.rateLimitMiddleware(), app.flipHandler)
	router.POST(RouteStar, app.rateLimitMiddleware(), app.starHandler)
	router.POST(RouteLayout, app.rateLimitMiddleware(), app.layoutHandler)
	router.POST(RouteImport, app.rateLimitMiddleware(), app.importHandler)
	router.POST(RouteReset, app.rateLimitMiddleware(), app.resetHandler)

	router.POST(RouteDefine, app.apiRateLimitMiddleware(), app.defineHandler)
	router.POST(RouteChat, app.apiRateLimitMiddleware(), app.chatHandler)

	return router
}

// applyCacheHeaders lets static assets cache in production and keeps every
// page and fragment response uncacheable, so stale study state never comes
// back from a proxy.
func (app *App) applyCacheHeaders(c *gin.Context) {
	if app.IsProduction && strings.HasPrefix(c.Request.URL.Path, "/static/") {
		cachecontrol.New(cachecontrol.Config{
			Public: true,
			MaxAge: cachecontrol.Duration(app.StaticCacheAge),
		})(c)
		c.Header("Vary", "Accept-Encoding")
		return
	}
	cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})(c)
}

// startServer runs the HTTP server and shuts it down gracefully on SIGINT or
// SIGTERM.
func startServer(router *gin.Engine) {
	port := getEnvString("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}
