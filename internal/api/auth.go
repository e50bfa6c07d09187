package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// authMiddleware checks the configured API key header. /healthz stays open
// for probes.
func (s *HTTPServer) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.Auth.Enabled || r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		apiKey := strings.TrimSpace(r.Header.Get(s.cfg.Auth.HeaderAPIKey))
		if apiKey == "" {
			writeError(w, http.StatusUnauthorized, "missing api key header")
			return
		}
		if !s.knownAPIKey(apiKey) {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) knownAPIKey(apiKey string) bool {
	found := false
	for _, k := range s.cfg.Auth.APIKeys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(apiKey)) == 1 {
			found = true
		}
	}
	return found
}
