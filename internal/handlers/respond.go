// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ammarques/stockroom-be/internal/core/domain"
)

// respondJSON writes a JSON response with the given status
func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

// respondError writes a JSON error body with the given status
func respondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	respondJSON(w, logger, status, map[string]string{"error": message})
}

// respondDomainError maps the core error taxonomy to HTTP statuses.
// Unrecognized errors surface as 500 with a generic body; the caller
// should have logged the original already.
func respondDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, logger, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrValidation):
		respondError(w, logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		var stockErr *domain.InsufficientStockError
		if errors.As(err, &stockErr) {
			respondJSON(w, logger, http.StatusConflict, map[string]interface{}{
				"error":     stockErr.Error(),
				"item_id":   stockErr.ItemID.String(),
				"item_name": stockErr.ItemName,
				"requested": stockErr.Requested,
				"available": stockErr.Available,
			})
			return
		}
		respondError(w, logger, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrStorageConflict):
		respondError(w, logger, http.StatusConflict, "concurrent update, please retry")
	case errors.Is(err, domain.ErrUploadFailure):
		respondError(w, logger, http.StatusBadGateway, err.Error())
	default:
		respondError(w, logger, http.StatusInternalServerError, "internal server error")
	}
}

// parsePageParams reads the page_size and cursor query parameters. Zero
// page size defers to the service default; sizes above 100 are clamped.
func parsePageParams(r *http.Request) (pageSize int, cursor string) {
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			pageSize = n
			if pageSize > 100 {
				pageSize = 100
			}
		}
	}

	return pageSize, r.URL.Query().Get("cursor")
}
