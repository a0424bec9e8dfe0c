// internal/core/ports/ledger.go
package ports

import (
	"context"
	"time"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/google/uuid"
)

// EntryLine is one received batch of a single item
type EntryLine struct {
	ItemID         uuid.UUID  `json:"item_id"`
	Quantity       int64      `json:"quantity"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// ExitLine is one issued or returned quantity of a single item
type ExitLine struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int64     `json:"quantity"`
}

// EntryData describes one stock receipt across one or more items
type EntryData struct {
	Date        time.Time        `json:"date"`
	Supplier    string           `json:"supplier"`
	Invoice     string           `json:"invoice,omitempty"`
	EntryType   domain.EntryKind `json:"entry_type"`
	Responsible domain.Actor     `json:"responsible"`
	Items       []EntryLine      `json:"items"`
}

// ExitData describes one stock issue across one or more items. RequestID
// optionally correlates the exit to an approved consumption request; the
// correlation is advisory and not part of the atomic write.
type ExitData struct {
	Date        time.Time    `json:"date"`
	Requester   domain.Actor `json:"requester"`
	Department  string       `json:"department"`
	Purpose     string       `json:"purpose,omitempty"`
	Responsible domain.Actor `json:"responsible"`
	RequestID   *uuid.UUID   `json:"request_id,omitempty"`
	Items       []ExitLine   `json:"items"`
}

// ReturnData describes stock given back to the stockroom
type ReturnData struct {
	Date        time.Time    `json:"date"`
	Department  string       `json:"department"`
	Reason      string       `json:"reason,omitempty"`
	Responsible domain.Actor `json:"responsible"`
	Items       []ExitLine   `json:"items"`
}

// LedgerRepository executes the atomic catalog-mutation + ledger-append
// operations. Each call is one all-or-nothing transaction: every line is
// read, validated and applied inside the same transaction scope, and a
// conflicting concurrent transaction surfaces as domain.ErrStorageConflict
// for the caller to retry.
type LedgerRepository interface {
	RecordEntry(ctx context.Context, data EntryData) ([]domain.Movement, error)
	RecordExit(ctx context.Context, data ExitData) ([]domain.Movement, error)
	RecordReturn(ctx context.Context, data ReturnData) ([]domain.Movement, error)
}

// LedgerService is the application port for stock-affecting operations
type LedgerService interface {
	RecordEntry(ctx context.Context, sess domain.Session, data EntryData) ([]domain.Movement, error)
	RecordExit(ctx context.Context, sess domain.Session, data ExitData) ([]domain.Movement, error)
	RecordReturn(ctx context.Context, sess domain.Session, data ReturnData) ([]domain.Movement, error)
	ListMovements(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error)
	ListMovementsPage(ctx context.Context, filter domain.MovementFilter, pageSize int, cursor string) (*MovementPage, error)
	MovementsForItem(ctx context.Context, itemID uuid.UUID) ([]domain.Movement, error)
	// ActiveBatches reconciles one item's dated entry batches against its
	// exits and classifies expiration proximity for display.
	ActiveBatches(ctx context.Context, itemID uuid.UUID) ([]domain.EntryBatch, error)
}

// MovementPage is one forward page of ledger records. NextCursor is opaque
// and empty when the page is short, which signals no further pages.
type MovementPage struct {
	Movements  []domain.Movement `json:"movements"`
	PageSize   int               `json:"page_size"`
	NextCursor string            `json:"next_cursor,omitempty"`
}
