package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/YANGYUNJIK/my-app/internal/repository"
	"github.com/YANGYUNJIK/my-app/internal/service"
)

var errBodyTooLarge = errors.New("request body too large")

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an {"error": message} response
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, map[string]string{"error": message}, logger)
}

// WriteSuccess writes {"success": true} merged with extra fields
func WriteSuccess(w http.ResponseWriter, extra map[string]interface{}, logger *slog.Logger) {
	body := map[string]interface{}{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	WriteJSON(w, http.StatusOK, body, logger)
}

// writeServiceError maps service and repository errors to HTTP responses
func writeServiceError(w http.ResponseWriter, err error, logger *slog.Logger, msg string, attrs ...any) {
	switch {
	case errors.Is(err, errBodyTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large", logger)
	case errors.Is(err, service.ErrValidation):
		WriteError(w, http.StatusBadRequest, err.Error(), logger)
	case errors.Is(err, repository.ErrItemNotFound):
		WriteError(w, http.StatusNotFound, "Item not found", logger)
	case errors.Is(err, repository.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "Order not found", logger)
	default:
		logger.Error(msg, append(attrs, "error", err)...)
		WriteError(w, http.StatusInternalServerError, "Internal server error", logger)
	}
}

// decodeJSON decodes the request body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errBodyTooLarge
	}
	return err
}

// baseURL returns the scheme://host prefix for asset URLs
func baseURL(r *http.Request, public string) string {
	if public != "" {
		return public
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}

	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return scheme + "://" + host
}
