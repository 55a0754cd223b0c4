package server

import (
	"log"
	"net/http"
	"strconv"

	"github.com/ziadkadry99/shopbot/internal/ratelimit"
)

// RateLimit admits requests through a per-client sliding window keyed
// by remote address. Denied requests get a 429 and do not consume the
// window. Health checks are exempt.
func RateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}

			identity := r.RemoteAddr
			if identity == "" {
				identity = "unknown"
			}

			if !limiter.Allow(identity) {
				log.Printf("rate limit exceeded: %s %s", identity, r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"too many requests, please retry later"}`))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(identity)))
			next.ServeHTTP(w, r)
		})
	}
}
