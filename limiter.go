package folio

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginLimiter rate-limits failed login attempts per IP address with a
// token bucket: max attempts, refilled evenly over window.
type LoginLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	max      int
	window   time.Duration
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter creates a LoginLimiter that allows max attempts per window.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	if max < 1 {
		max = 1
	}
	return &LoginLimiter{
		visitors: make(map[string]*visitor),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

// visitorFor returns the bucket of ip, creating it and sweeping idle ones.
// Callers hold l.mu.
func (l *LoginLimiter) visitorFor(ip string, now time.Time) *visitor {
	v, ok := l.visitors[ip]
	if !ok {
		l.sweep(now)
		v = &visitor{limiter: rate.NewLimiter(rate.Every(l.window/time.Duration(l.max)), l.max)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v
}

// sweep drops buckets idle for longer than a window; they would be full again.
func (l *LoginLimiter) sweep(now time.Time) {
	cutoff := now.Add(-l.window)
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
		}
	}
}

// Allow checks if the IP has not exceeded the rate limit and records the attempt.
func (l *LoginLimiter) Allow(ip string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visitorFor(ip, now).limiter.AllowN(now, 1)
}

// Check returns true if the IP has not exceeded the rate limit.
// It does not record an attempt; call Record separately on failure.
func (l *LoginLimiter) Check(ip string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visitorFor(ip, now).limiter.TokensAt(now) >= 1
}

// Record registers a failed login attempt for the given IP.
func (l *LoginLimiter) Record(ip string) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visitorFor(ip, now).limiter.AllowN(now, 1)
}

// Len returns the number of IPs currently tracked.
func (l *LoginLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
