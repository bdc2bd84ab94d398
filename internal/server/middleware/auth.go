package middleware

import (
	"crypto/subtle"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/continuity/internal/server/response"
)

// AuthConfig controls API key authentication.
type AuthConfig struct {
	Enabled    bool
	APIKey     string
	HeaderName string
	// ReadOnlyPublic leaves GET and HEAD requests unauthenticated so the
	// site stays readable while write endpoints stay protected.
	ReadOnlyPublic bool
	PublicPaths    []string
}

// DefaultAuthConfig returns a disabled config using the X-API-Key header.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		HeaderName:     "X-API-Key",
		ReadOnlyPublic: true,
		PublicPaths:    []string{"/health"},
	}
}

// Auth rejects requests without the configured API key.
func Auth(config AuthConfig, logger *zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled || isPublic(r, config) {
				next.ServeHTTP(w, r)
				return
			}

			key := extractAPIKey(r, config.HeaderName)
			if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(config.APIKey)) != 1 {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Bool("key_provided", key != "").
					Msg("Authentication failed")
				response.Unauthorized(w, "Invalid or missing API key",
					"Provide a valid API key in the "+config.HeaderName+" header")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPublic(r *http.Request, config AuthConfig) bool {
	if config.ReadOnlyPublic && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		return true
	}
	return slices.Contains(config.PublicPaths, r.URL.Path)
}

// extractAPIKey reads the key from the custom header or an Authorization
// header, with or without a Bearer prefix.
func extractAPIKey(r *http.Request, header string) string {
	if key := r.Header.Get(header); key != "" {
		return key
	}
	auth := r.Header.Get("Authorization")
	return strings.TrimPrefix(auth, "Bearer ")
}
