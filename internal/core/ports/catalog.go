// internal/core/ports/catalog.go
package ports

import (
	"context"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/google/uuid"
)

// CatalogService is the application port for catalog maintenance
type CatalogService interface {
	CreateItem(ctx context.Context, sess domain.Session, item *domain.Item) (uuid.UUID, error)
	// UpdateItem merges the given fields and records an audit movement
	// describing the diff against the prior snapshot.
	UpdateItem(ctx context.Context, sess domain.Session, id uuid.UUID, update domain.ItemUpdate) (*domain.Item, error)
	DeleteItem(ctx context.Context, sess domain.Session, id uuid.UUID) error
	GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error)
	ListItemsPage(ctx context.Context, filter domain.ItemFilter, pageSize int, cursor string) (*ItemPage, error)
	NextCode(ctx context.Context, prefix string) (string, error)
	// UploadImage stores a base64 payload in the blob store and returns its
	// URL; an empty payload yields the fixed placeholder URL.
	UploadImage(ctx context.Context, payload, fileName, contentType string) (string, error)
}

// ItemPage is one forward page of catalog entries
type ItemPage struct {
	Items      []domain.Item `json:"items"`
	PageSize   int           `json:"page_size"`
	NextCursor string        `json:"next_cursor,omitempty"`
}
