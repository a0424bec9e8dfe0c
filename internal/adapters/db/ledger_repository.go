// internal/adapters/db/ledger_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/ammarques/stockroom-be/internal/core/ports"
)

// ledgerRepository implements ports.LedgerRepository. Every record call runs
// one repeatable-read transaction that row-locks each touched item, applies
// the quantity change and appends the paired movement, so a batch either
// lands whole or not at all.
type ledgerRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *Database, logger *slog.Logger) ports.LedgerRepository {
	return &ledgerRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "ledger")),
	}
}

// lockedItem is the slice of an item row a ledger transaction needs
type lockedItem struct {
	ID             uuid.UUID
	Name           string
	Type           domain.MaterialType
	IsPerishable   bool
	ExpirationDate *time.Time
	Quantity       int64
}

// RecordEntry receives one or more batches into stock. Perishable items
// keep the nearest expiration date between their current one and the
// incoming batch's.
func (r *ledgerRepository) RecordEntry(ctx context.Context, data ports.EntryData) ([]domain.Movement, error) {
	var movements []domain.Movement

	err := r.db.TransactionWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead}, func(tx pgx.Tx) error {
		movements = movements[:0]

		for _, line := range data.Items {
			item, err := lockItem(ctx, tx, line.ItemID)
			if err != nil {
				return err
			}

			expiration := item.ExpirationDate
			if item.IsPerishable && line.ExpirationDate != nil {
				if expiration == nil || line.ExpirationDate.Before(*expiration) {
					expiration = line.ExpirationDate
				}
			}

			_, err = tx.Exec(ctx, `
				UPDATE items
				SET quantity = quantity + $2, expiration_date = $3, updated_at = NOW()
				WHERE id = $1`,
				item.ID, line.Quantity, expiration)
			if err != nil {
				return fmt.Errorf("failed to apply entry to item %s: %w", item.ID, err)
			}

			movement := domain.Movement{
				ID:             uuid.New(),
				ItemID:         item.ID,
				Date:           data.Date,
				Type:           domain.MovementEntry,
				EntryType:      data.EntryType,
				Quantity:       line.Quantity,
				Responsible:    data.Responsible,
				Supplier:       data.Supplier,
				Invoice:        data.Invoice,
				MaterialType:   item.Type,
				ExpirationDate: line.ExpirationDate,
				CreatedAt:      time.Now(),
			}
			if err := appendMovement(ctx, tx, &movement); err != nil {
				return err
			}

			movements = append(movements, movement)
		}

		return nil
	})
	if err != nil {
		return nil, r.mapTxError(ctx, "entry", err)
	}

	return movements, nil
}

// RecordExit issues one or more quantities out of stock. Any line exceeding
// available stock aborts the whole batch with no partial effect.
func (r *ledgerRepository) RecordExit(ctx context.Context, data ports.ExitData) ([]domain.Movement, error) {
	var movements []domain.Movement

	err := r.db.TransactionWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead}, func(tx pgx.Tx) error {
		movements = movements[:0]

		for _, line := range data.Items {
			item, err := lockItem(ctx, tx, line.ItemID)
			if err != nil {
				return err
			}

			if item.Quantity < line.Quantity {
				return &domain.InsufficientStockError{
					ItemID:    item.ID,
					ItemName:  item.Name,
					Requested: line.Quantity,
					Available: item.Quantity,
				}
			}

			_, err = tx.Exec(ctx, `
				UPDATE items
				SET quantity = quantity - $2, updated_at = NOW()
				WHERE id = $1`,
				item.ID, line.Quantity)
			if err != nil {
				return fmt.Errorf("failed to apply exit to item %s: %w", item.ID, err)
			}

			movement := domain.Movement{
				ID:           uuid.New(),
				ItemID:       item.ID,
				Date:         data.Date,
				Type:         domain.MovementExit,
				Quantity:     line.Quantity,
				Responsible:  data.Responsible,
				Department:   data.Department,
				MaterialType: item.Type,
				Changes:      data.Purpose,
				RequestID:    data.RequestID,
				CreatedAt:    time.Now(),
			}
			if err := appendMovement(ctx, tx, &movement); err != nil {
				return err
			}

			movements = append(movements, movement)
		}

		return nil
	})
	if err != nil {
		return nil, r.mapTxError(ctx, "exit", err)
	}

	return movements, nil
}

// RecordReturn takes quantities back into stock. There is no upper bound
// check against past exits.
func (r *ledgerRepository) RecordReturn(ctx context.Context, data ports.ReturnData) ([]domain.Movement, error) {
	var movements []domain.Movement

	err := r.db.TransactionWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead}, func(tx pgx.Tx) error {
		movements = movements[:0]

		for _, line := range data.Items {
			item, err := lockItem(ctx, tx, line.ItemID)
			if err != nil {
				return err
			}

			_, err = tx.Exec(ctx, `
				UPDATE items
				SET quantity = quantity + $2, updated_at = NOW()
				WHERE id = $1`,
				item.ID, line.Quantity)
			if err != nil {
				return fmt.Errorf("failed to apply return to item %s: %w", item.ID, err)
			}

			movement := domain.Movement{
				ID:           uuid.New(),
				ItemID:       item.ID,
				Date:         data.Date,
				Type:         domain.MovementReturn,
				Quantity:     line.Quantity,
				Responsible:  data.Responsible,
				Department:   data.Department,
				MaterialType: item.Type,
				Changes:      data.Reason,
				CreatedAt:    time.Now(),
			}
			if err := appendMovement(ctx, tx, &movement); err != nil {
				return err
			}

			movements = append(movements, movement)
		}

		return nil
	})
	if err != nil {
		return nil, r.mapTxError(ctx, "return", err)
	}

	return movements, nil
}

// lockItem reads and row-locks one item inside the transaction
func lockItem(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*lockedItem, error) {
	item := &lockedItem{}

	err := tx.QueryRow(ctx, `
		SELECT id, name, material_type, is_perishable, expiration_date, quantity
		FROM items
		WHERE id = $1
		FOR UPDATE`, id).Scan(
		&item.ID, &item.Name, &item.Type, &item.IsPerishable,
		&item.ExpirationDate, &item.Quantity,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &domain.NotFoundError{Entity: "item", ID: id}
		}
		return nil, fmt.Errorf("failed to lock item %s: %w", id, err)
	}

	return item, nil
}

// appendMovement inserts one ledger record inside the transaction
func appendMovement(ctx context.Context, tx pgx.Tx, m *domain.Movement) error {
	_, err := tx.Exec(ctx, insertMovementSQL, movementArgs(m)...)
	if err != nil {
		return fmt.Errorf("failed to append movement for item %s: %w", m.ItemID, err)
	}
	return nil
}

// mapTxError surfaces serialization failures and deadlocks as the retryable
// storage conflict sentinel; domain errors pass through untouched.
func (r *ledgerRepository) mapTxError(ctx context.Context, op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			r.logger.WarnContext(ctx, "ledger transaction conflicted",
				slog.String("operation", op),
				slog.String("sqlstate", pgErr.Code))
			return fmt.Errorf("%s transaction conflicted: %w", op, domain.ErrStorageConflict)
		}
	}
	return err
}
