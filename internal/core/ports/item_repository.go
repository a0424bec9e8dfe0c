// internal/core/ports/item_repository.go
package ports

import (
	"context"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/google/uuid"
)

// ItemRepository defines the persistence port for the item catalog.
// This interface is implemented by the database adapter.
type ItemRepository interface {
	Save(ctx context.Context, item *domain.Item) error
	// Update merges the given fields and returns the updated row. It does
	// not emit an audit movement; that is the caller's job.
	Update(ctx context.Context, id uuid.UUID, update domain.ItemUpdate) (*domain.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	FindAll(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error)
	// FindPage returns one forward page ordered by lowercase name. An empty
	// cursor starts from the beginning; the returned cursor is opaque and
	// empty when no further pages exist.
	FindPage(ctx context.Context, filter domain.ItemFilter, pageSize int, cursor string) ([]domain.Item, string, error)
	// MaxCode returns the lexicographically greatest code with the given
	// prefix, or "" when none exists.
	MaxCode(ctx context.Context, prefix string) (string, error)
	Count(ctx context.Context) (int64, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
