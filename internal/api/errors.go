package api

import (
	"encoding/json"
	"log"
	"net/http"

	"participium/internal/domain"

	"github.com/getsentry/sentry-go"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

var kindStatus = []struct {
	kind   domain.Kind
	status int
}{
	{domain.KindBadRequest, http.StatusBadRequest},
	{domain.KindNotFound, http.StatusNotFound},
	{domain.KindInsufficientRights, http.StatusForbidden},
	{domain.KindUnauthorized, http.StatusUnauthorized},
}

// statusOf maps err to its HTTP status. Errors without a kind are 500.
func statusOf(err error) int {
	for _, ks := range kindStatus {
		if domain.IsKind(err, ks.kind) {
			return ks.status
		}
	}
	return http.StatusInternalServerError
}

// writeDomainError writes err as {"error": message}. Unclassified errors are logged,
// reported to Sentry and hidden behind a generic message.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Printf("[API] Internal error on %s: %v", requestLabel(r), err)
		sentry.CaptureException(err)
		writeError(w, status, "Internal server error")
		return
	}
	writeError(w, status, err.Error())
}
