package server

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
)

const (
	headerRequestID = "X-Request-ID"
	ctxKeyRequestID = "request_id"
)

// RequestID tags the request with X-Request-ID (generated when absent) and
// stores a request-scoped logger in the request context.
func RequestID(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(headerRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(headerRequestID, rid)
		c.Set(ctxKeyRequestID, rid)

		ctx := common.WithRequestID(c.Request.Context(), rid)
		ctx = common.WithLogger(ctx, logger.With("req_id", rid))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(ctxKeyRequestID)
}

// Recovery turns a handler panic into a 500 envelope. The stack is logged, never returned.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("http.panic",
					"panic", rec,
					"req_id", requestID(c),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)
				abortWithError(c, nil)
			}
		}()
		c.Next()
	}
}

// RequestLogger writes one access line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"elapsed_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"req_id", requestID(c),
		}
		if query != "" {
			attrs = append(attrs, "query", query)
		}
		switch {
		case status >= 500:
			logger.Error("http.request", attrs...)
		case status >= 400:
			logger.Warn("http.request", attrs...)
		default:
			logger.Info("http.request", attrs...)
		}
	}
}

// ipLimiter hands out one token bucket per client IP: burst max, refilled
// at max per window.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	every    rate.Limit
	burst    int
	idle     time.Duration
	lastGC   time.Time
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(cfg common.RateLimitConfig) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*limiterEntry),
		every:    rate.Every(cfg.Window / time.Duration(cfg.MaxRequests)),
		burst:    cfg.MaxRequests,
		idle:     cfg.Window,
		lastGC:   time.Now(),
		now:      time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastGC) > l.idle {
		for k, e := range l.limiters {
			if now.Sub(e.lastSeen) > l.idle {
				delete(l.limiters, k)
			}
		}
		l.lastGC = now
	}
	e, ok := l.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.every, l.burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// RateLimit rejects a client IP with 429 once it exhausts its budget.
// A non-positive config disables limiting.
func RateLimit(cfg common.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if cfg.MaxRequests <= 0 || cfg.Window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newIPLimiter(cfg)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.allow(ip) {
			logger.Warn("http.rate_limited", "client_ip", ip, "req_id", requestID(c))
			writeEnvelope(c, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded. Please try again later.")
			c.Abort()
			return
		}
		c.Next()
	}
}
