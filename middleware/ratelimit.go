package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"feed-api/pkg/config"
	"feed-api/types"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore maps a client key (user or IP) to its token bucket. Entries
// idle for longer than staleAfter are dropped by the janitor.
type limiterStore struct {
	mu         sync.Mutex
	entries    map[string]*limiterEntry
	staleAfter time.Duration
	limit      rate.Limit
	burst      int
}

func newLimiterStore(limit rate.Limit, burst int, staleAfter time.Duration) *limiterStore {
	return &limiterStore{
		entries:    make(map[string]*limiterEntry),
		staleAfter: staleAfter,
		limit:      limit,
		burst:      burst,
	}
}

func (s *limiterStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		s.cleanup(time.Now())
	}
}

func (s *limiterStore) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.lastSeen = now
		return e.limiter
	}
	lim := rate.NewLimiter(s.limit, s.burst)
	s.entries[key] = &limiterEntry{limiter: lim, lastSeen: now}
	return lim
}

func (s *limiterStore) cleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now.Add(-s.staleAfter)
	for k, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

func (s *limiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

type whitelist struct {
	ips  []net.IP
	nets []*net.IPNet
}

func parseWhitelist(entries []string) whitelist {
	var w whitelist
	for _, p := range entries {
		if ip := net.ParseIP(p); ip != nil {
			w.ips = append(w.ips, ip)
			continue
		}
		if _, n, err := net.ParseCIDR(p); err == nil {
			w.nets = append(w.nets, n)
		}
	}
	return w
}

func (w whitelist) contains(clientIP string) bool {
	ip := net.ParseIP(clientIP)
	if ip == nil {
		return false
	}
	for _, allowed := range w.ips {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, n := range w.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// RateLimitMiddleware applies a token bucket per authenticated user, or per
// client IP for anonymous requests. Preflights, /health and /metrics are not
// limited. It should run after IdentityMiddleware so user keys are available.
func RateLimitMiddleware(cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	store := newLimiterStore(rate.Limit(cfg.RPS), cfg.Burst, 10*time.Minute)
	go store.janitor(time.Minute)
	return rateLimitHandler(store, parseWhitelist(cfg.Whitelist))
}

func rateLimitHandler(store *limiterStore, wl whitelist) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPreflight(c.Request) || c.Request.URL.Path == "/health" || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		clientIP := c.ClientIP()
		if wl.contains(clientIP) {
			c.Next()
			return
		}

		key := "ip:" + clientIP
		if uid := c.GetInt(UserIDKey); uid > 0 {
			key = "uid:" + strconv.Itoa(uid)
		}
		if !store.get(key, time.Now()).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.NewErrorResponse(types.ErrorCodeRateLimited, "Too many requests"))
			return
		}
		c.Next()
	}
}
