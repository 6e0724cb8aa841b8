package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/YANGYUNJIK/my-app/internal/config"
)

// AdminPasswordHeader carries the shared teacher password
const AdminPasswordHeader = "X-Admin-Password"

// AdminPassword rejects requests that do not carry the administrator password
func AdminPassword(cfg config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			password := r.Header.Get(AdminPasswordHeader)

			if password == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized: admin password required")
				return
			}

			if subtle.ConstantTimeCompare([]byte(password), []byte(cfg.AdminPassword)) != 1 {
				writeError(w, http.StatusForbidden, "Forbidden: invalid admin password")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
