package middleware

import (
	"bytes"
	"net/http"

	"github.com/motorbook/dealerledger/internal/usecase"
)

// IdempotencyKeyHeader is the header clients send to deduplicate mutations.
const IdempotencyKeyHeader = "Idempotency-Key"

// inFlightMarker matches the placeholder the store writes while the first
// request with a key is still being processed.
const inFlightMarker = "processing"

// IdempotencyMiddleware replays the stored response for a repeated
// Idempotency-Key instead of executing the mutation again.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{store: store}
}

// Wrap applies idempotency checking to mutating requests that carry the key
// header. Requests without the header pass through untouched.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		seen, cached, err := m.store.CheckAndSet(r.Context(), key, nil, usecase.IdempotencyKeyTTL)
		if err != nil {
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}

		if seen && cached != nil && string(cached) != inFlightMarker {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			_, _ = w.Write(cached)
			return
		}

		rec := &bufferingWriter{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			status:         http.StatusOK,
		}
		next.ServeHTTP(rec, r)

		// Only successful responses are worth replaying. A failed mutation
		// left no side effects, so the client may retry it for real.
		if rec.status >= 200 && rec.status < 300 {
			_ = m.store.Update(r.Context(), key, rec.body.Bytes(), usecase.IdempotencyKeyTTL)
		}
	})
}

// bufferingWriter captures the response body so it can be stored for replay.
type bufferingWriter struct {
	http.ResponseWriter
	status int
	body   *bytes.Buffer
}

func (b *bufferingWriter) Write(p []byte) (int, error) {
	b.body.Write(p)
	return b.ResponseWriter.Write(p)
}

func (b *bufferingWriter) WriteHeader(status int) {
	b.status = status
	b.ResponseWriter.WriteHeader(status)
}
