// internal/handlers/ledger.go
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	redis_a "github.com/ammarques/stockroom-be/internal/adapters/redis_adapter"
	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/ammarques/stockroom-be/internal/core/ports"
	"github.com/ammarques/stockroom-be/internal/handlers/middleware"
)

// LedgerHandler handles stock movement HTTP requests
type LedgerHandler struct {
	service ports.LedgerService
	cache   *redis_a.CacheManager
	logger  *slog.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(service ports.LedgerService, cache *redis_a.CacheManager, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		service: service,
		cache:   cache,
		logger:  logger.With(slog.String("handler", "ledger")),
	}
}

// flushCachedReads drops cached dashboard, movement and catalog entries for
// every item a committed transaction touched
func (h *LedgerHandler) flushCachedReads(ctx context.Context, movements []domain.Movement) {
	seen := make(map[uuid.UUID]struct{}, len(movements))
	for _, m := range movements {
		if _, ok := seen[m.ItemID]; ok {
			continue
		}
		seen[m.ItemID] = struct{}{}
		h.cache.InvalidateCatalogCache(ctx, m.ItemID.String())
	}
}

// RecordEntry handles POST /api/v1/movements/entry
func (h *LedgerHandler) RecordEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	var data ports.EntryData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	movements, err := h.service.RecordEntry(ctx, sess, data)
	if err != nil {
		h.logger.ErrorContext(ctx, "entry failed",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	h.flushCachedReads(ctx, movements)

	respondJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"movements": movements,
	})
}

// RecordExit handles POST /api/v1/movements/exit
func (h *LedgerHandler) RecordExit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	var data ports.ExitData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	movements, err := h.service.RecordExit(ctx, sess, data)
	if err != nil {
		h.logger.ErrorContext(ctx, "exit failed",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	h.flushCachedReads(ctx, movements)

	respondJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"movements": movements,
	})
}

// RecordReturn handles POST /api/v1/movements/return
func (h *LedgerHandler) RecordReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	var data ports.ReturnData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	movements, err := h.service.RecordReturn(ctx, sess, data)
	if err != nil {
		h.logger.ErrorContext(ctx, "return failed",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	h.flushCachedReads(ctx, movements)

	respondJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"movements": movements,
	})
}

// ListMovements handles GET /api/v1/movements
func (h *LedgerHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parseMovementFilter(r)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	pageSize, cursor := parsePageParams(r)

	page, err := h.service.ListMovementsPage(ctx, filter, pageSize, cursor)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list movements",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, page)
}

// ItemMovements handles GET /api/v1/items/{id}/movements
func (h *LedgerHandler) ItemMovements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid item id")
		return
	}

	movements, err := h.service.MovementsForItem(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load item movements",
			slog.String("item_id", id.String()),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"movements": movements,
	})
}

// ItemBatches handles GET /api/v1/items/{id}/batches
func (h *LedgerHandler) ItemBatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid item id")
		return
	}

	batches, err := h.service.ActiveBatches(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to reconcile batches",
			slog.String("item_id", id.String()),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"batches": batches,
	})
}

// parseMovementFilter reads the movement filter query parameters. Dates use
// the 2006-01-02 layout; end_date is inclusive through the whole day.
func parseMovementFilter(r *http.Request) (domain.MovementFilter, error) {
	filter := domain.MovementFilter{
		MovementType: domain.MovementType(r.URL.Query().Get("type")),
		MaterialType: domain.MaterialType(r.URL.Query().Get("material_type")),
		Department:   r.URL.Query().Get("department"),
	}

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, &domain.ValidationError{Field: "start_date", Reason: "expected YYYY-MM-DD"}
		}
		filter.StartDate = &t
	}

	if raw := r.URL.Query().Get("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, &domain.ValidationError{Field: "end_date", Reason: "expected YYYY-MM-DD"}
		}
		filter.EndDate = &t
	}

	return filter, nil
}
