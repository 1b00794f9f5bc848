// Package ratelimit caps how many payment holds a caller can open per hour so
// a single client cannot squat on courts with unpaid bookings.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Rankeate/internal/api/apiutil"
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds rate limit configuration.
type Config struct {
	HoldMaxPerActorPerHour int // Max holds opened per actor per hour (default: 10)
	HoldMaxIPPerHour       int // Max holds opened per client IP per hour (default: 30)
	TrustProxy             bool

	// Clock for testing (nil uses real time)
	Clock Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		HoldMaxPerActorPerHour: 10,
		HoldMaxIPPerHour:       30,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

// entry is a fixed one-hour window.
type entry struct {
	count   int
	firstAt time.Time
}

type Limiter struct {
	config *Config
	clock  Clock
	mu     sync.Mutex
	// Keyed by hash of actor id or IP
	byActor map[string]*entry
	byIP    map[string]*entry

	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:        cfg,
		clock:         clock,
		byActor:       make(map[string]*entry),
		byIP:          make(map[string]*entry),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Close stops the cleanup goroutine and releases resources.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// Allow checks both windows and, when allowed, counts the attempt against
// them. actorID 0 skips the per-actor window.
func (l *Limiter) Allow(actorID int64, ip string) LimitResult {
	l.startCleanup()
	now := l.clock.Now()
	actorKey := l.hashKey("actor:", strconv.FormatInt(actorID, 10))
	ipKey := l.hashKey("ip:", ip)

	l.mu.Lock()
	defer l.mu.Unlock()

	if actorID != 0 {
		if res := check(l.byActor[actorKey], now, l.config.HoldMaxPerActorPerHour, "actor_hourly_limit"); !res.Allowed {
			return res
		}
	}
	if res := check(l.byIP[ipKey], now, l.config.HoldMaxIPPerHour, "ip_hourly_limit"); !res.Allowed {
		return res
	}

	if actorID != 0 {
		l.byActor[actorKey] = record(l.byActor[actorKey], now)
	}
	l.byIP[ipKey] = record(l.byIP[ipKey], now)
	return LimitResult{Allowed: true}
}

func check(e *entry, now time.Time, max int, reason string) LimitResult {
	if e == nil || max <= 0 {
		return LimitResult{Allowed: true}
	}
	if age := now.Sub(e.firstAt); age < time.Hour && e.count >= max {
		return LimitResult{Allowed: false, RetryAfter: time.Hour - age, Reason: reason}
	}
	return LimitResult{Allowed: true}
}

func record(e *entry, now time.Time) *entry {
	if e == nil || now.Sub(e.firstAt) >= time.Hour {
		return &entry{count: 1, firstAt: now}
	}
	e.count++
	return e
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
func (l *Limiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID := apiutil.ActorIDFromContext(r.Context())
		ip := GetClientIP(r, l.config.TrustProxy)

		res := l.Allow(actorID, ip)
		if !res.Allowed {
			log.Ctx(r.Context()).Warn().
				Str("event", "rate_limit_exceeded").
				Int64("actor_id", actorID).
				Str("ip", ip).
				Str("reason", res.Reason).
				Msg("Hold rate limit exceeded")
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			apiutil.Respond(w, r, http.StatusTooManyRequests, apiutil.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "too many holds opened, try again later",
			})
			return
		}
		next(w, r)
	}
}

func (l *Limiter) hashKey(prefix, value string) string {
	h := sha256.Sum256([]byte(prefix + value))
	return hex.EncodeToString(h[:16])
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.C:
					l.cleanup()
				}
			}
		}()
	})
}

func (l *Limiter) cleanup() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	for k, e := range l.byActor {
		if now.Sub(e.firstAt) > time.Hour {
			delete(l.byActor, k)
		}
	}
	for k, e := range l.byIP {
		if now.Sub(e.firstAt) > time.Hour {
			delete(l.byIP, k)
		}
	}
}

// GetClientIP extracts the client IP from a request.
// When trustProxy is true, uses the rightmost public IP from X-Forwarded-For.
// When trustProxy is false, ignores X-Forwarded-For entirely (prevents spoofing).
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			for i := len(parts) - 1; i >= 0; i-- {
				ip := strings.TrimSpace(parts[i])
				if ip != "" && !isPrivateIP(ip) {
					return ip
				}
			}
			return strings.TrimSpace(parts[len(parts)-1])
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

var privateNetworks []*net.IPNet

func init() {
	for _, cidr := range []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"::1/128",
		"fc00::/7",
		"fe80::/10",
	} {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic("invalid private CIDR: " + cidr)
		}
		privateNetworks = append(privateNetworks, network)
	}
}

func isPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	if ipv4 := ip.To4(); ipv4 != nil {
		ip = ipv4
	}
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
