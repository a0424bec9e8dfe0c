// test/benchmarks/helpers.go
package benchmarks

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ammarques/stockroom-be/internal/core/domain"
)

// createMovementHistory builds one item's ledger: dated entry batches
// followed by exits, the shape ReconcileEntryBatches walks in production.
func createMovementHistory(itemID uuid.UUID, numEntries, numExits int) []domain.Movement {
	movements := make([]domain.Movement, 0, numEntries+numExits)

	for i := 0; i < numEntries; i++ {
		expiry := time.Now().AddDate(0, i%12, 0)
		movements = append(movements, domain.Movement{
			ID:             uuid.New(),
			ItemID:         itemID,
			Date:           time.Now().AddDate(0, 0, -numEntries+i),
			Type:           domain.MovementEntry,
			EntryType:      domain.EntryOfficial,
			Quantity:       int64(10 + i%40),
			Responsible:    domain.Actor{Primary: "bench@stockroom.app"},
			Supplier:       fmt.Sprintf("Supplier %d", i%5),
			ExpirationDate: &expiry,
			CreatedAt:      time.Now(),
		})
	}

	for i := 0; i < numExits; i++ {
		movements = append(movements, domain.Movement{
			ID:          uuid.New(),
			ItemID:      itemID,
			Date:        time.Now().AddDate(0, 0, -numExits+i),
			Type:        domain.MovementExit,
			Quantity:    int64(5 + i%20),
			Responsible: domain.Actor{Primary: "bench@stockroom.app"},
			Department:  "Secretaria",
			CreatedAt:   time.Now(),
		})
	}

	return movements
}
