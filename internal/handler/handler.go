package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/openfrosh/scunt/internal/store"
)

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func parsePathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeStoreError translates store errors into HTTP responses. Conflicts with
// existing state (duplicates, bad transitions, full teams) map to 409, missing
// rows to 404, caller mistakes to 400.
func writeStoreError(w http.ResponseWriter, err error) {
	var tooEarly *store.TooEarlyError
	switch {
	case errors.As(err, &tooEarly):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":     tooEarly.Error(),
			"starts_at": tooEarly.StartsAt.Format(time.RFC3339),
		})
	case errors.Is(err, store.ErrDuplicateName),
		errors.Is(err, store.ErrDuplicateEmail),
		errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrUserAlreadyOnTeam),
		errors.Is(err, store.ErrTeamFull):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrNoRelation):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrValidation), errors.Is(err, store.ErrInvalidStatus):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrAuthFailed):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
