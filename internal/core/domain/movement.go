// internal/core/domain/movement.go
package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// MovementType identifies the kind of ledger record
type MovementType string

// Movement type constants
const (
	MovementEntry  MovementType = "entry"
	MovementExit   MovementType = "exit"
	MovementReturn MovementType = "return"
	MovementAudit  MovementType = "audit"
)

// EntryKind distinguishes official from unofficial stock receipts
type EntryKind string

// Entry kind constants
const (
	EntryOfficial   EntryKind = "official"
	EntryUnofficial EntryKind = "unofficial"
)

// Actor identifies who performed or asked for an operation. Primary is the
// operator recorded against the movement; Secondary optionally names the
// person the operator acted for (the requester on an exit, for example).
type Actor struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
}

// Display renders the legacy single-string form used by older UI callers.
func (a Actor) Display() string {
	if a.Secondary == "" {
		return a.Primary
	}
	return fmt.Sprintf("%s (%s)", a.Primary, a.Secondary)
}

// Movement is one immutable ledger record. Entry, exit and return movements
// are created only inside a ledger transaction, paired 1:1 with a quantity
// change on exactly one item. Audit movements carry quantity zero and record
// a catalog field change. Movements are never updated or deleted; ItemID is
// a weak reference that may dangle after the item is removed.
type Movement struct {
	ID             uuid.UUID    `json:"id"`
	ItemID         uuid.UUID    `json:"item_id"`
	Date           time.Time    `json:"date"`
	Type           MovementType `json:"type"`
	EntryType      EntryKind    `json:"entry_type,omitempty"`
	Quantity       int64        `json:"quantity"`
	Responsible    Actor        `json:"responsible"`
	Department     string       `json:"department,omitempty"`
	Supplier       string       `json:"supplier,omitempty"`
	Invoice        string       `json:"invoice,omitempty"`
	MaterialType   MaterialType `json:"material_type,omitempty"`
	Changes        string       `json:"changes,omitempty"`
	ExpirationDate *time.Time   `json:"expiration_date,omitempty"`
	RequestID      *uuid.UUID   `json:"request_id,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// SignedQuantity returns the algebraic stock effect of the movement
func (m *Movement) SignedQuantity() int64 {
	switch m.Type {
	case MovementEntry, MovementReturn:
		return m.Quantity
	case MovementExit:
		return -m.Quantity
	default:
		return 0
	}
}

// MovementFilter narrows ledger listings. EndDate is inclusive through the
// end of that calendar day.
type MovementFilter struct {
	StartDate    *time.Time
	EndDate      *time.Time
	MovementType MovementType
	MaterialType MaterialType
	Department   string
}

// ExpiryAlert classifies how close an active entry batch is to expiring
type ExpiryAlert string

// Expiry alert levels
const (
	AlertUrgent   ExpiryAlert = "urgent"   // less than one month
	AlertWarning  ExpiryAlert = "warning"  // less than two months
	AlertReminder ExpiryAlert = "reminder" // less than three months
	AlertNone     ExpiryAlert = "none"
)

// EntryBatch is a derived view of one dated entry movement, flagged active
// when FIFO depletion leaves it with remaining stock.
type EntryBatch struct {
	Movement Movement    `json:"movement"`
	Active   bool        `json:"active"`
	Alert    ExpiryAlert `json:"alert"`
}

// ReconcileEntryBatches walks one item's movements and flags which dated
// entry batches still hold stock under FIFO depletion. Entries with an
// expiration date are consumed oldest-expiry-first against the total exit
// quantity; the first entry that is only partially consumed is flagged
// active and absorbs the remaining exit total, so at most one partially
// consumed batch is ever flagged. Later batches are active whenever the
// running exit total has already reached zero. The flag drives the expiry
// alert classification only; it has no bearing on the stock invariant.
func ReconcileEntryBatches(movements []Movement, now time.Time) []EntryBatch {
	var entries []Movement
	var exitTotal int64

	for _, m := range movements {
		switch m.Type {
		case MovementEntry:
			if m.ExpirationDate != nil {
				entries = append(entries, m)
			}
		case MovementExit:
			exitTotal += m.Quantity
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ExpirationDate.Before(*entries[j].ExpirationDate)
	})

	batches := make([]EntryBatch, 0, len(entries))
	remaining := exitTotal

	for _, e := range entries {
		b := EntryBatch{Movement: e, Active: true}

		if remaining > 0 {
			if e.Quantity <= remaining {
				remaining -= e.Quantity
				b.Active = false
			} else {
				remaining = 0
			}
		}

		if b.Active {
			b.Alert = ClassifyExpiry(*e.ExpirationDate, now)
		} else {
			b.Alert = AlertNone
		}

		batches = append(batches, b)
	}

	return batches
}

// ClassifyExpiry maps time-to-expiry to an alert level
func ClassifyExpiry(expiration, now time.Time) ExpiryAlert {
	switch {
	case expiration.Before(now.AddDate(0, 1, 0)):
		return AlertUrgent
	case expiration.Before(now.AddDate(0, 2, 0)):
		return AlertWarning
	case expiration.Before(now.AddDate(0, 3, 0)):
		return AlertReminder
	default:
		return AlertNone
	}
}
