package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// getLimiter returns a rate limiter for the given key. Study routes and the
// generation API share the limiter map but use different keys and budgets,
// so a chatty study session cannot starve its own generation calls.
func (app *App) getLimiter(key string, rps, burst int) *rate.Limiter {
	app.LimiterMutex.Lock()
	defer app.LimiterMutex.Unlock()
	if lim, ok := app.LimiterMap[key]; ok {
		return lim
	}

	if rps <= 0 {
		rps = 1
	}
	lim := rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), burst)
	app.LimiterMap[key] = lim
	return lim
}

// rateLimitMiddleware enforces the per-client budget for study routes.
func (app *App) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !app.getLimiter(key, app.RateLimitRPS, app.RateLimitBurst).Allow() {
			if c.GetHeader("HX-Request") == "true" {
				c.Header("HX-Trigger", "rate-limit-exceeded")
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please slow down."})
			return
		}
		c.Next()
	}
}

// apiRateLimitMiddleware enforces the much smaller budget for the generation
// endpoints, which fan out to a paid upstream.
func (app *App) apiRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "api:" + c.ClientIP()
		if !app.getLimiter(key, app.APILimitRPS, app.APILimitBurst).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Error: "Too many requests. Please slow down."})
			return
		}
		c.Next()
	}
}

// requestIDMiddleware injects a request ID into the context for each request.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.Request.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx := context.WithValue(c.Request.Context(), requestIDKey, reqID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-Id", reqID)
		c.Next()
	}
}
