package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

const WebhookSecretHeader = "x-webhook-secret"

// SecretMatches compares in constant time. An empty expected secret never
// matches.
func SecretMatches(expected, got string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}

// RequireSecret guards internal read endpoints with the webhook secret.
func RequireSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !SecretMatches(secret, r.Header.Get(WebhookSecretHeader)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Unauthorized",
					"code":  "UNAUTHORIZED",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
