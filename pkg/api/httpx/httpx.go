// Package httpx holds the request parsing and response writing shared by
// every API area.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"manufacturing_kds/pkg/core/envelope"
	"manufacturing_kds/pkg/core/store"
	"manufacturing_kds/pkg/core/utils"
)

// Parameter defaults shared by the areas.
const (
	DefaultStartYear       = 2016
	DefaultEndYear         = 2025
	DefaultMatrixStartYear = 2020
	DefaultYear            = 2025
	DefaultMonths          = 12
	MaxMonths              = 120

	maxBodyBytes = 1 << 20
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("[HTTP] failed to encode response")
	}
}

// WriteError writes a failure envelope.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, envelope.WrapError(message))
}

// Handle mounts fn on path for method. Any other method on the same path is
// answered with a 405 envelope; the fallback route must come after the
// method-bound one so mux picks the handler when the method matches.
func Handle(r *mux.Router, method, path string, fn http.HandlerFunc) {
	r.HandleFunc(path, fn).Methods(method)
	r.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", method)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

// StoreError logs a failed read and answers 503 when the database is
// unreachable, 500 otherwise.
func StoreError(w http.ResponseWriter, r *http.Request, tag string, err error) {
	status := http.StatusInternalServerError
	message := "Query failed"
	if errors.Is(err, store.ErrUnavailable) {
		status = http.StatusServiceUnavailable
		message = "Database unavailable"
	}
	log.Error().Err(err).
		Str("path", r.URL.Path).
		Str("request_id", RequestID(r.Context())).
		Int("status", status).
		Msgf("[%s] store read failed", tag)
	WriteError(w, status, message)
}

// =============================================================================
// QUERY PARAMETERS
// =============================================================================

// Int reads an integer query parameter. Missing or malformed values yield def.
func Int(r *http.Request, name string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// Float reads a float query parameter. Missing or malformed values yield def.
func Float(r *http.Request, name string, def float64) float64 {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

// YearRange reads startYear and endYear. A reversed range is swapped.
func YearRange(r *http.Request, defStart, defEnd int) (int, int) {
	start := Int(r, "startYear", defStart)
	end := Int(r, "endYear", defEnd)
	if start > end {
		start, end = end, start
	}
	return start, end
}

// Year reads yil, then year.
func Year(r *http.Request, def int) int {
	return Int(r, "yil", Int(r, "year", def))
}

// Months reads months, clamped to [0, MaxMonths].
func Months(r *http.Request, def int) int {
	m := Int(r, "months", def)
	return min(max(m, 0), MaxMonths)
}

// PathID reads the {id} path variable. Anything but a positive integer is
// answered with 400 and ok=false.
func PathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid ID: %q", raw))
		return 0, false
	}
	return id, true
}

// =============================================================================
// REQUEST BODIES
// =============================================================================

// DecodeBody reads a JSON request body into v. An empty body leaves v
// untouched. Bodies that are not strict JSON are repaired or read as Hjson
// before being rejected.
func DecodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("BODY_READ_FAILED: %w", err)
	}
	body := strings.TrimSpace(string(data))
	if body == "" {
		return nil
	}
	if _, err := utils.SmartParse(body, v); err != nil {
		return err
	}
	return nil
}
