// internal/handlers/requests.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/ammarques/stockroom-be/internal/core/ports"
	"github.com/ammarques/stockroom-be/internal/handlers/middleware"
)

// RequestHandler handles consumption request HTTP requests
type RequestHandler struct {
	service ports.RequestService
	logger  *slog.Logger
}

// NewRequestHandler creates a new request workflow handler
func NewRequestHandler(service ports.RequestService, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "requests")),
	}
}

// SubmitRequest is the body for POST /api/v1/requests
type SubmitRequest struct {
	Requester  domain.Actor         `json:"requester"`
	Department string               `json:"department"`
	Purpose    string               `json:"purpose,omitempty"`
	Items      []domain.RequestItem `json:"items"`
}

// Submit handles POST /api/v1/requests
func (h *RequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	request := &domain.Request{
		Requester:  req.Requester,
		Department: req.Department,
		Purpose:    req.Purpose,
		Items:      req.Items,
	}

	id, err := h.service.Submit(ctx, sess, request)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to submit request",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, map[string]string{"id": id.String()})
}

// Get handles GET /api/v1/requests/{id}
func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request id")
		return
	}

	request, err := h.service.GetRequest(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get request",
			slog.String("request_id", id.String()),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, request)
}

// ListPending handles GET /api/v1/requests/pending
func (h *RequestHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requests, err := h.service.ListPending(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list pending requests",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

// Approve handles POST /api/v1/requests/{id}/approve
func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request id")
		return
	}

	request, err := h.service.Approve(ctx, sess, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to approve request",
			slog.String("request_id", id.String()),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, request)
}

// RejectRequest is the body for POST /api/v1/requests/{id}/reject
type RejectRequest struct {
	Reason string `json:"reason"`
}

// Reject handles POST /api/v1/requests/{id}/reject
func (h *RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request id")
		return
	}

	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.service.Reject(ctx, sess, id, req.Reason)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to reject request",
			slog.String("request_id", id.String()),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, request)
}

// History handles GET /api/v1/requests/history
func (h *RequestHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromContext(ctx)

	pageSize, cursor := parsePageParams(r)

	page, err := h.service.History(ctx, sess, pageSize, cursor)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load request history",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, page)
}
