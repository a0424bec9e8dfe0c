// internal/adapters/db/movement_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/ammarques/stockroom-be/internal/core/ports"
)

// movementRepository implements ports.MovementRepository. The movements
// table is insert-only; no update or delete path exists here.
type movementRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewMovementRepository creates a new movement repository
func NewMovementRepository(db *Database, logger *slog.Logger) ports.MovementRepository {
	return &movementRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "movements")),
	}
}

const movementColumns = `
	id, item_id, occurred_at, movement_type, entry_type, quantity,
	operator, on_behalf_of, department, supplier, invoice,
	material_type, changes, expiration_date, request_id, created_at`

const insertMovementSQL = `
	INSERT INTO movements (
		id, item_id, occurred_at, movement_type, entry_type, quantity,
		operator, on_behalf_of, department, supplier, invoice,
		material_type, changes, expiration_date, request_id, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
	)`

// Append inserts one ledger record outside a stock transaction. Used for
// audit movements; stock-affecting records go through the ledger repository.
func (r *movementRepository) Append(ctx context.Context, movement *domain.Movement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(ctx, insertMovementSQL, movementArgs(movement)...)
	if err != nil {
		return fmt.Errorf("failed to append movement: %w", err)
	}

	r.logger.DebugContext(ctx, "movement appended",
		slog.String("movement_id", movement.ID.String()),
		slog.String("type", string(movement.Type)))

	return nil
}

// FindByItem returns every movement for one item, newest first
func (r *movementRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Movement, error) {
	query := `
		SELECT` + movementColumns + `
		FROM movements
		WHERE item_id = $1
		ORDER BY occurred_at DESC, id DESC`

	return r.queryMovements(ctx, query, itemID)
}

// FindAll returns movements matching the filter, newest first
func (r *movementRepository) FindAll(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error) {
	qb := r.baseSelect(filter).OrderBy("occurred_at DESC", "id DESC")

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return r.queryMovements(ctx, query, args...)
}

// FindPage returns one forward page of movements ordered newest first by
// (occurred_at, id). The returned cursor is empty on the last page.
func (r *movementRepository) FindPage(ctx context.Context, filter domain.MovementFilter, pageSize int, cursor string) ([]domain.Movement, string, error) {
	pos, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", &domain.ValidationError{Field: "cursor", Reason: err.Error()}
	}

	qb := r.baseSelect(filter).
		OrderBy("occurred_at DESC", "id DESC").
		Limit(uint64(pageSize) + 1)

	if pos != nil {
		key, err := parseTimeKey(pos.Key)
		if err != nil {
			return nil, "", &domain.ValidationError{Field: "cursor", Reason: err.Error()}
		}
		qb = qb.Where(squirrel.Expr("(occurred_at, id) < (?, ?)", key, pos.ID))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, "", fmt.Errorf("failed to build page query: %w", err)
	}

	movements, err := r.queryMovements(ctx, query, args...)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(movements) > pageSize {
		movements = movements[:pageSize]
		last := movements[len(movements)-1]
		next = encodeCursor(timeKey(last.Date), last.ID)
	}

	return movements, next, nil
}

// Count returns the total number of ledger records
func (r *movementRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM movements`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count movements: %w", err)
	}

	return count, nil
}

// baseSelect builds the filtered select shared by FindAll and FindPage.
// EndDate is widened to the end of its calendar day so a same-day range
// covers the whole day.
func (r *movementRepository) baseSelect(filter domain.MovementFilter) squirrel.SelectBuilder {
	qb := squirrel.Select(
		"id", "item_id", "occurred_at", "movement_type", "entry_type", "quantity",
		"operator", "on_behalf_of", "department", "supplier", "invoice",
		"material_type", "changes", "expiration_date", "request_id", "created_at",
	).From("movements").
		PlaceholderFormat(squirrel.Dollar)

	if filter.StartDate != nil {
		qb = qb.Where(squirrel.GtOrEq{"occurred_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		end := filter.EndDate.Truncate(24 * time.Hour).Add(24*time.Hour - time.Millisecond)
		qb = qb.Where(squirrel.LtOrEq{"occurred_at": end})
	}
	if filter.MovementType != "" {
		qb = qb.Where(squirrel.Eq{"movement_type": filter.MovementType})
	}
	if filter.MaterialType != "" {
		qb = qb.Where(squirrel.Eq{"material_type": filter.MaterialType})
	}
	if filter.Department != "" {
		qb = qb.Where(squirrel.Eq{"department": filter.Department})
	}

	return qb
}

func (r *movementRepository) queryMovements(ctx context.Context, query string, args ...any) ([]domain.Movement, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.Movement
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, *movement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return movements, nil
}

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	movement := &domain.Movement{}
	var entryType, onBehalfOf sql.NullString
	var department, supplier, invoice, changes sql.NullString

	err := row.Scan(
		&movement.ID, &movement.ItemID, &movement.Date, &movement.Type,
		&entryType, &movement.Quantity,
		&movement.Responsible.Primary, &onBehalfOf,
		&department, &supplier, &invoice,
		&movement.MaterialType, &changes,
		&movement.ExpirationDate, &movement.RequestID, &movement.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	movement.EntryType = domain.EntryKind(entryType.String)
	movement.Responsible.Secondary = onBehalfOf.String
	movement.Department = department.String
	movement.Supplier = supplier.String
	movement.Invoice = invoice.String
	movement.Changes = changes.String

	return movement, nil
}

func movementArgs(m *domain.Movement) []any {
	return []any{
		m.ID, m.ItemID, m.Date, m.Type,
		nullString(string(m.EntryType)), m.Quantity,
		m.Responsible.Primary, nullString(m.Responsible.Secondary),
		nullString(m.Department), nullString(m.Supplier), nullString(m.Invoice),
		m.MaterialType, nullString(m.Changes),
		m.ExpirationDate, m.RequestID, m.CreatedAt,
	}
}
