package middleware

import (
	"net/http"
	"strconv"
)

const (
	// defaultRequestConcurrency is the fallback slot count when maxConcurrent ≤ 0.
	defaultRequestConcurrency = 256

	// retryAfterSeconds is the value of the Retry-After header sent on 503.
	retryAfterSeconds = "5"

	// capacityErrorPayload is the fixed JSON body returned when the limiter rejects a request.
	capacityErrorPayload = `{"error":"server at capacity — retry in 5s"}`
)

// RequestLimiter caps the number of concurrently in-flight requests for a
// route group using a non-blocking channel semaphore. When the semaphore is
// full, new requests receive HTTP 503 + Retry-After immediately rather than
// queuing — queuing under a large concurrent spike would exhaust memory
// before providing any relief.
type RequestLimiter struct {
	sem chan struct{}
}

// NewRequestLimiter creates a limiter allowing at most maxConcurrent
// simultaneous requests through Limit.
func NewRequestLimiter(maxConcurrent int) *RequestLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultRequestConcurrency
	}
	return &RequestLimiter{sem: make(chan struct{}, maxConcurrent)}
}

// Limit wraps a handler so that each request must acquire a slot from the
// semaphore before proceeding. Requests that cannot acquire immediately get 503.
func (l *RequestLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case l.sem <- struct{}{}:
			defer func() { <-l.sem }()
			next.ServeHTTP(w, r)
		default:
			w.Header().Set("Retry-After", retryAfterSeconds)
			w.Header().Set("X-Active-Requests", strconv.Itoa(len(l.sem)))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(capacityErrorPayload)) //nolint:errcheck
		}
	})
}

// Active returns the number of request slots currently in use.
func (l *RequestLimiter) Active() int { return len(l.sem) }

// Cap returns the maximum number of concurrent request slots.
func (l *RequestLimiter) Cap() int { return cap(l.sem) }
