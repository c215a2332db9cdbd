// Package handlers contains the HTTP handler groups for the Inkwell API.
// Every response is a JSON envelope carrying a boolean success indicator;
// error responses carry a message and nothing else.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// respond writes a JSON envelope with the given status. The payload map is
// extended with the success flag so callers only list the varying fields.
func respond(w http.ResponseWriter, status int, success bool, payload map[string]any) {
	body := map[string]any{"success": success}
	for k, v := range payload {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// respondError writes a failure envelope `{success:false, message}`.
func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, false, map[string]any{"message": message})
}

// respondMessage writes a success envelope carrying only a message.
func respondMessage(w http.ResponseWriter, status int, message string) {
	respond(w, status, true, map[string]any{"message": message})
}

// isOwner is the single authorization predicate: a subject may mutate a
// resource only when it owns it.
func isOwner(subject, owner uuid.UUID) bool {
	return subject == owner
}
