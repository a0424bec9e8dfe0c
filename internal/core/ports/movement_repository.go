// internal/core/ports/movement_repository.go
package ports

import (
	"context"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/google/uuid"
)

// MovementRepository defines the persistence port for the movement ledger.
// Movements are append-only; no update or delete exists.
type MovementRepository interface {
	// Append inserts one movement. Entry/exit/return rows are written only
	// by the ledger transaction adapter; standalone appends are reserved
	// for audit records accompanying a catalog edit.
	Append(ctx context.Context, movement *domain.Movement) error
	// FindByItem returns all movements referencing the item, newest first.
	// The item itself may no longer exist; the reference is weak.
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Movement, error)
	FindAll(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error)
	// FindPage returns one forward page ordered by date descending, with an
	// opaque cursor as in ItemRepository.FindPage.
	FindPage(ctx context.Context, filter domain.MovementFilter, pageSize int, cursor string) ([]domain.Movement, string, error)
	Count(ctx context.Context) (int64, error)
}
