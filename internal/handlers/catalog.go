// internal/handlers/catalog.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/ammarques/stockroom-be/internal/core/ports"
	"github.com/ammarques/stockroom-be/internal/handlers/middleware"
)

// CatalogHandler handles catalog-related HTTP requests
type CatalogHandler struct {
	service ports.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service ports.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "catalog")),
	}
}

// GetItem handles GET /api/v1/items/{id}
func (h *CatalogHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.service.GetItem(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get item",
			slog.String("item_id", id.String()),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, item)
}

// ListItems handles GET /api/v1/items
func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := domain.ItemFilter{
		SearchTerm:   r.URL.Query().Get("search"),
		MaterialType: domain.MaterialType(r.URL.Query().Get("type")),
	}

	pageSize, cursor := parsePageParams(r)

	page, err := h.service.ListItemsPage(ctx, filter, pageSize, cursor)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list items",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, page)
}

// CreateItemRequest is the body for POST /api/v1/items
type CreateItemRequest struct {
	Name           string     `json:"name"`
	Code           string     `json:"code"`
	Patrimony      string     `json:"patrimony,omitempty"`
	Type           string     `json:"type,omitempty"`
	Quantity       int64      `json:"quantity"`
	Unit           string     `json:"unit"`
	Category       string     `json:"category,omitempty"`
	IsPerishable   bool       `json:"is_perishable,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	Image          string     `json:"image,omitempty"` // base64 or data URL
	ImageName      string     `json:"image_name,omitempty"`
}

// CreateItem handles POST /api/v1/items
func (h *CatalogHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	imageURL, err := h.service.UploadImage(ctx, req.Image, req.ImageName, "")
	if err != nil {
		h.logger.ErrorContext(ctx, "image upload failed",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	item := &domain.Item{
		Name:           req.Name,
		Code:           req.Code,
		Patrimony:      req.Patrimony,
		Type:           domain.MaterialType(req.Type),
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		Category:       req.Category,
		IsPerishable:   req.IsPerishable,
		ExpirationDate: req.ExpirationDate,
		ImageURL:       imageURL,
	}

	id, err := h.service.CreateItem(ctx, sess, item)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create item",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "item created",
		slog.String("item_id", id.String()),
		slog.String("name", item.Name))

	respondJSON(w, h.logger, http.StatusCreated, item)
}

// UpdateItemRequest is the body for PATCH /api/v1/items/{id}. Absent fields
// are left untouched.
type UpdateItemRequest struct {
	Name           *string    `json:"name,omitempty"`
	Patrimony      *string    `json:"patrimony,omitempty"`
	Type           *string    `json:"type,omitempty"`
	Quantity       *int64     `json:"quantity,omitempty"`
	Unit           *string    `json:"unit,omitempty"`
	Category       *string    `json:"category,omitempty"`
	IsPerishable   *bool      `json:"is_perishable,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	Image          *string    `json:"image,omitempty"`
	ImageName      string     `json:"image_name,omitempty"`
}

// UpdateItem handles PATCH /api/v1/items/{id}
func (h *CatalogHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid item id")
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	update := domain.ItemUpdate{
		Name:           req.Name,
		Patrimony:      req.Patrimony,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		Category:       req.Category,
		IsPerishable:   req.IsPerishable,
		ExpirationDate: req.ExpirationDate,
	}
	if req.Type != nil {
		mt := domain.MaterialType(*req.Type)
		update.Type = &mt
	}

	if req.Image != nil {
		imageURL, err := h.service.UploadImage(ctx, *req.Image, req.ImageName, "")
		if err != nil {
			h.logger.ErrorContext(ctx, "image upload failed",
				slog.String("item_id", id.String()),
				slog.String("error", err.Error()))
			respondDomainError(w, h.logger, err)
			return
		}
		update.ImageURL = &imageURL
	}

	item, err := h.service.UpdateItem(ctx, sess, id, update)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update item",
			slog.String("item_id", id.String()),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/v1/items/{id}
func (h *CatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.service.DeleteItem(ctx, sess, id); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete item",
			slog.String("item_id", id.String()),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{
		"message": "item deleted",
		"item_id": id.String(),
	})
}

// NextCode handles GET /api/v1/items/next-code?prefix=XYZ
func (h *CatalogHandler) NextCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code, err := h.service.NextCode(ctx, r.URL.Query().Get("prefix"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate code",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{"code": code})
}
