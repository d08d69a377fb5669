package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/argus/internal/ingest"
	"github.com/wonny/argus/internal/metrics"
	"github.com/wonny/argus/internal/simulation"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondDomainError maps domain sentinels onto HTTP status codes.
// 잘못된 입력 → 400, 없는 전략 → 404, 그 외 → 500
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ingest.ErrTableNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, metrics.ErrInvalidInput),
		errors.Is(err, simulation.ErrInvalidInput),
		errors.Is(err, metrics.ErrInsufficientData),
		errors.Is(err, ingest.ErrNoValidRows),
		errors.Is(err, ingest.ErrBadHeader):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
