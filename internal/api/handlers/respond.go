package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dom/catalog-facade/internal/domain"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps the error taxonomy onto status codes. Remote
// failures never get here; they were absorbed by the fallback.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, op string, kind domain.Kind, err error) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		respondError(w, http.StatusBadRequest, validation.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		logger.Warn("["+op+"] upstream unavailable", zap.String("kind", string(kind)), zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, "The "+kind.Plural()+" service is unavailable")
	case errors.Is(err, context.Canceled):
		logger.Debug("["+op+"] request cancelled", zap.String("kind", string(kind)))
	default:
		logger.Error("["+op+"] internal fault", zap.String("kind", string(kind)), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to load "+kind.Plural())
	}
}

// parseInt returns def for missing or unparsable values.
func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
