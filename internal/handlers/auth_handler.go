package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// RoleTeacher is the only authenticated role
const RoleTeacher = "teacher"

type loginRequest struct {
	Password string `json:"password"`
}

// AuthHandler checks the shared administrator password
type AuthHandler struct {
	password string
	log      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(password string, log *slog.Logger) *AuthHandler {
	return &AuthHandler{password: password, log: log}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, bodyError(err), h.log, "failed to decode login request")
		return
	}

	if req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Password is required", h.log)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) != 1 {
		h.log.Info("teacher login rejected", "remote_addr", r.RemoteAddr)
		WriteError(w, http.StatusUnauthorized, "Invalid password", h.log)
		return
	}

	WriteSuccess(w, map[string]interface{}{"role": RoleTeacher}, h.log)
}
