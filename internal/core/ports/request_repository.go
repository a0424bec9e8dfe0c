// internal/core/ports/request_repository.go
package ports

import (
	"context"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/google/uuid"
)

// RequestRepository defines the persistence port for consumption requests
type RequestRepository interface {
	Save(ctx context.Context, request *domain.Request) error
	// Update persists a state transition (approve, reject, fulfill). The
	// row is written whole; line items are immutable after submission.
	Update(ctx context.Context, request *domain.Request) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Request, error)
	// FindPending returns all pending requests ordered by submission date.
	FindPending(ctx context.Context) ([]domain.Request, error)
	// FindProcessedPage pages through approved and rejected requests of one
	// tenant, newest first, with an opaque cursor.
	FindProcessedPage(ctx context.Context, tenantID string, pageSize int, cursor string) ([]domain.Request, string, error)
}

// RequestService is the application port for the request workflow
type RequestService interface {
	Submit(ctx context.Context, sess domain.Session, request *domain.Request) (uuid.UUID, error)
	Approve(ctx context.Context, sess domain.Session, id uuid.UUID) (*domain.Request, error)
	Reject(ctx context.Context, sess domain.Session, id uuid.UUID, reason string) (*domain.Request, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*domain.Request, error)
	ListPending(ctx context.Context) ([]domain.Request, error)
	History(ctx context.Context, sess domain.Session, pageSize int, cursor string) (*RequestPage, error)
}

// RequestPage is one forward page of processed requests
type RequestPage struct {
	Requests   []domain.Request `json:"requests"`
	PageSize   int              `json:"page_size"`
	NextCursor string           `json:"next_cursor,omitempty"`
}
