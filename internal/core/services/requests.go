// internal/core/services/requests.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/ammarques/stockroom-be/internal/core/ports"
)

// RequestService handles the consumption request workflow. Approval marks
// intent only; the operator finalizes an approved request by recording an
// exit that carries the request id.
type RequestService struct {
	requests ports.RequestRepository
	logger   *slog.Logger
}

// Statically assert that *RequestService implements the RequestService port.
var _ ports.RequestService = (*RequestService)(nil)

// NewRequestService creates a new request workflow service
func NewRequestService(requests ports.RequestRepository, logger *slog.Logger) *RequestService {
	return &RequestService{
		requests: requests,
		logger:   logger.With(slog.String("service", "requests")),
	}
}

// Submit stores a new pending request
func (s *RequestService) Submit(ctx context.Context, sess domain.Session, request *domain.Request) (uuid.UUID, error) {
	if err := sess.Validate(); err != nil {
		return uuid.Nil, err
	}
	if request.TenantID == "" {
		request.TenantID = sess.TenantID
	}
	if err := request.Validate(); err != nil {
		return uuid.Nil, err
	}

	request.PrepareForStorage()

	if err := s.requests.Save(ctx, request); err != nil {
		return uuid.Nil, fmt.Errorf("failed to save request: %w", err)
	}

	s.logger.InfoContext(ctx, "consumption request submitted",
		slog.String("request_id", request.ID.String()),
		slog.String("department", request.Department),
		slog.Int("lines", len(request.Items)))

	return request.ID, nil
}

// Approve transitions a pending request to approved
func (s *RequestService) Approve(ctx context.Context, sess domain.Session, id uuid.UUID) (*domain.Request, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}

	request, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := request.Approve(sess.ActorID, time.Now()); err != nil {
		return nil, err
	}

	if err := s.requests.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to persist approval: %w", err)
	}

	s.logger.InfoContext(ctx, "request approved",
		slog.String("request_id", id.String()),
		slog.String("actor", sess.ActorID))

	return request, nil
}

// Reject transitions a pending request to rejected with a mandatory reason
func (s *RequestService) Reject(ctx context.Context, sess domain.Session, id uuid.UUID, reason string) (*domain.Request, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}

	request, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := request.Reject(sess.ActorID, reason, time.Now()); err != nil {
		return nil, err
	}

	if err := s.requests.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to persist rejection: %w", err)
	}

	s.logger.InfoContext(ctx, "request rejected",
		slog.String("request_id", id.String()),
		slog.String("actor", sess.ActorID),
		slog.String("reason", reason))

	return request, nil
}

// GetRequest retrieves one request by id
func (s *RequestService) GetRequest(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	return s.load(ctx, id)
}

// ListPending returns all pending requests ordered by submission date
func (s *RequestService) ListPending(ctx context.Context) ([]domain.Request, error) {
	requests, err := s.requests.FindPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return requests, nil
}

// History pages through the session tenant's processed requests
func (s *RequestService) History(ctx context.Context, sess domain.Session, pageSize int, cursor string) (*ports.RequestPage, error) {
	if sess.TenantID == "" {
		return nil, &domain.ValidationError{Field: "tenant_id", Reason: "is required"}
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	requests, next, err := s.requests.FindProcessedPage(ctx, sess.TenantID, pageSize, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to page request history: %w", err)
	}

	return &ports.RequestPage{Requests: requests, PageSize: pageSize, NextCursor: next}, nil
}

func (s *RequestService) load(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	if request == nil {
		return nil, &domain.NotFoundError{Entity: "request", ID: id}
	}
	return request, nil
}
