package server

import (
	"context"
	"crypto/rand"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/ayusman/ergoguard/internal/app"
	"github.com/ayusman/ergoguard/internal/detector"
)

// RequestIDHeader carries the request ID in requests and responses.
const RequestIDHeader = "X-Request-ID"

type contextKey struct{}

// RequestIDFromContext returns the request ID assigned by the server, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

func newRequestID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return ulid.Make().String()
	}
	return id.String()
}

// requestID assigns each request a ULID unless the client sent one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = newRequestID(time.Now())
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, id)))
	})
}

// accessLogFormatter writes one logrus entry per request.
func accessLogFormatter(log logrus.FieldLogger) handlers.LogFormatter {
	return func(_ io.Writer, p handlers.LogFormatterParams) {
		log.WithFields(logrus.Fields{
			"request_id": RequestIDFromContext(p.Request.Context()),
			"method":     p.Request.Method,
			"path":       p.URL.Path,
			"status":     p.StatusCode,
			"size":       p.Size,
			"duration":   time.Since(p.TimeStamp).String(),
			"remote":     p.Request.RemoteAddr,
		}).Info("request")
	}
}

// limiterIdleTTL is how long a client bucket survives without requests.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per client IP. Idle buckets are evicted
// by a sweep that runs at most once per limiterIdleTTL.
type rateLimiter struct {
	bucket    map[string]*clientLimiter
	rate      rate.Limit
	burstSize int
	mu        sync.Mutex
	log       logrus.FieldLogger
	now       func() time.Time
	lastSweep time.Time
}

func newRateLimiter(perSecond float64, burst int, log logrus.FieldLogger) *rateLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		bucket:    make(map[string]*clientLimiter),
		rate:      limit,
		burstSize: burst,
		log:       log,
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

func (l *rateLimiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterIdleTTL {
		l.sweep(now)
	}

	c, exist := l.bucket[ip]
	if !exist {
		c = &clientLimiter{limiter: rate.NewLimiter(l.rate, l.burstSize)}
		l.bucket[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

// sweep drops buckets idle for at least limiterIdleTTL. Callers hold mu.
func (l *rateLimiter) sweep(now time.Time) {
	for ip, c := range l.bucket {
		if now.Sub(c.lastSeen) >= limiterIdleTTL {
			delete(l.bucket, ip)
		}
	}
	l.lastSweep = now
}

// clients returns the number of tracked client buckets.
func (l *rateLimiter) clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.bucket)
}

func (l *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.limiterFor(ip).Allow() {
			l.log.WithField("ip", ip).Warn("Too many requests")
			w.Header().Set("Retry-After", "1")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{
				"error":  "Too many requests",
				"reason": "rate_limited",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func detectorName(a *app.App) string {
	switch a.Detector().(type) {
	case *detector.MediaPipeDetector:
		return "mediapipe"
	case *detector.CommandDetector:
		return "command"
	case *detector.MockDetector:
		return "mock"
	default:
		return "custom"
	}
}
