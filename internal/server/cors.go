package server

import (
	"net/http"
	"strings"

	"github.com/renato0307/issuetree/internal/logging"
)

// originAllowed matches origin against patterns. A pattern ending in "*"
// matches by prefix ("chrome-extension://*"); anything else must match exactly.
func originAllowed(origin string, patterns []string) bool {
	for _, pattern := range patterns {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(origin, prefix) {
				return true
			}
			continue
		}
		if origin == pattern {
			return true
		}
	}
	return false
}

// cors answers preflight requests and refuses browser requests from origins
// outside the configured list. Requests without an Origin header (curl, the
// CLI) pass through untouched.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Add("Vary", "Origin")
		if !originAllowed(origin, s.settings.AllowedOrigins()) {
			logging.Logger.Warn("Refusing request from disallowed origin",
				"request_id", requestIDFrom(r.Context()), "origin", origin, "path", r.URL.Path)
			writeJSON(w, http.StatusForbidden, errorResponse{
				Error:   codeForbidden,
				Message: "origin not allowed: " + origin,
			})
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
