package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kozaktomas/lifeline/internal/constants"
	"github.com/kozaktomas/lifeline/internal/photo"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a size-limited JSON request body into dst and checks its
// validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return validateRequest(dst)
}

// parseDays parses optional YYYY-MM-DD bounds into an inclusive range of whole days.
func parseDays(from, to string, loc *time.Location) (photo.DateRange, error) {
	start, err := photo.ParseDay(from, loc)
	if err != nil {
		return photo.DateRange{}, fmt.Errorf("invalid from date %q, expected YYYY-MM-DD", from)
	}
	end, err := photo.ParseDay(to, loc)
	if err != nil {
		return photo.DateRange{}, fmt.Errorf("invalid to date %q, expected YYYY-MM-DD", to)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return photo.DateRange{}, fmt.Errorf("to date %s is before from date %s", to, from)
	}
	return photo.NewDateRange(start, end, loc), nil
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
