package api

import (
	"net"
	"net/http"
	"strings"

	"shareit/internal/logging"
	"shareit/internal/models"
)

const clientKeyUnknown = "unknown"

// rateLimitMiddleware throttles per acting user, falling back to the remote IP.
// Limiter errors let the request through.
func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil || r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		key := clientKey(r)
		allowed, err := s.limiter.Allow(r.Context(), key)
		if err != nil {
			logging.Ctx(r.Context(), s.logger).Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
		} else if !allowed {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if userID := strings.TrimSpace(r.Header.Get(models.HeaderSharerUserID)); userID != "" {
		return "user:" + userID
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return "ip:" + host
	}
	return clientKeyUnknown
}
