// internal/adapters/db/item_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/ammarques/stockroom-be/internal/core/ports"
)

// itemRepository implements ports.ItemRepository
type itemRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewItemRepository creates a new catalog item repository
func NewItemRepository(db *Database, logger *slog.Logger) ports.ItemRepository {
	return &itemRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "items")),
	}
}

const itemColumns = `
	id, name, name_lowercase, code, patrimony, material_type,
	quantity, unit, category, is_perishable, expiration_date,
	image_url, created_at, updated_at`

// Save creates a new catalog item
func (r *itemRepository) Save(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (
			id, name, name_lowercase, code, patrimony, material_type,
			quantity, unit, category, is_perishable, expiration_date,
			image_url, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)`

	_, err := r.db.Exec(ctx, query,
		item.ID, item.Name, item.NameLowercase, item.Code, nullString(item.Patrimony),
		item.Type, item.Quantity, item.Unit, item.Category, item.IsPerishable,
		item.ExpirationDate, nullString(item.ImageURL), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}

	r.logger.DebugContext(ctx, "item saved",
		slog.String("item_id", item.ID.String()),
		slog.String("code", item.Code))

	return nil
}

// Update applies a partial edit and returns the merged row. Only the fields
// carried by the update appear in the SET list; name changes also refresh
// the lowercase search column.
func (r *itemRepository) Update(ctx context.Context, id uuid.UUID, update domain.ItemUpdate) (*domain.Item, error) {
	qb := squirrel.Update("items").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING" + itemColumns).
		PlaceholderFormat(squirrel.Dollar)

	if update.Name != nil {
		qb = qb.Set("name", *update.Name).
			Set("name_lowercase", strings.ToLower(*update.Name))
	}
	if update.Patrimony != nil {
		qb = qb.Set("patrimony", nullString(*update.Patrimony))
	}
	if update.Type != nil {
		qb = qb.Set("material_type", *update.Type)
	}
	if update.Quantity != nil {
		qb = qb.Set("quantity", *update.Quantity)
	}
	if update.Unit != nil {
		qb = qb.Set("unit", *update.Unit)
	}
	if update.Category != nil {
		qb = qb.Set("category", *update.Category)
	}
	if update.IsPerishable != nil {
		qb = qb.Set("is_perishable", *update.IsPerishable)
	}
	if update.ExpirationDate != nil {
		qb = qb.Set("expiration_date", *update.ExpirationDate)
	}
	if update.ImageURL != nil {
		qb = qb.Set("image_url", nullString(*update.ImageURL))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	item, err := scanItem(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &domain.NotFoundError{Entity: "item", ID: id}
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	r.logger.DebugContext(ctx, "item updated",
		slog.String("item_id", id.String()))

	return item, nil
}

// Delete removes a catalog item. Movements referencing it are kept.
func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "item", ID: id}
	}

	r.logger.InfoContext(ctx, "item deleted",
		slog.String("item_id", id.String()))

	return nil
}

// FindByID retrieves one item by id, nil when absent
func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `SELECT` + itemColumns + ` FROM items WHERE id = $1`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}

	return item, nil
}

// FindAll retrieves catalog items matching the filter, ordered by name
func (r *itemRepository) FindAll(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	qb := r.baseSelect(filter).OrderBy("name_lowercase ASC", "id ASC")

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return r.queryItems(ctx, query, args...)
}

// FindPage retrieves one forward page of items ordered by (name_lowercase, id).
// The returned cursor is empty on the last page.
func (r *itemRepository) FindPage(ctx context.Context, filter domain.ItemFilter, pageSize int, cursor string) ([]domain.Item, string, error) {
	pos, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", &domain.ValidationError{Field: "cursor", Reason: err.Error()}
	}

	qb := r.baseSelect(filter).
		OrderBy("name_lowercase ASC", "id ASC").
		Limit(uint64(pageSize) + 1)

	if pos != nil {
		qb = qb.Where(squirrel.Expr("(name_lowercase, id) > (?, ?)", pos.Key, pos.ID))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, "", fmt.Errorf("failed to build page query: %w", err)
	}

	items, err := r.queryItems(ctx, query, args...)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(items) > pageSize {
		items = items[:pageSize]
		last := items[len(items)-1]
		next = encodeCursor(last.NameLowercase, last.ID)
	}

	return items, next, nil
}

// MaxCode returns the lexicographically greatest code carrying the prefix,
// empty when none exists
func (r *itemRepository) MaxCode(ctx context.Context, prefix string) (string, error) {
	query := `
		SELECT code FROM items
		WHERE code LIKE $1 || '-%'
		ORDER BY code DESC
		LIMIT 1`

	var code string
	err := r.db.QueryRow(ctx, query, prefix).Scan(&code)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to find max code: %w", err)
	}

	return code, nil
}

// Count returns the total number of catalog items
func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}

	return count, nil
}

// Exists checks whether a catalog item exists
func (r *itemRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM items WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}

	return exists, nil
}

// baseSelect builds the filtered select shared by FindAll and FindPage.
// A search term matches items whose lowercase name starts with the lowered
// term or whose code equals the raw term.
func (r *itemRepository) baseSelect(filter domain.ItemFilter) squirrel.SelectBuilder {
	qb := squirrel.Select(
		"id", "name", "name_lowercase", "code", "patrimony", "material_type",
		"quantity", "unit", "category", "is_perishable", "expiration_date",
		"image_url", "created_at", "updated_at",
	).From("items").
		PlaceholderFormat(squirrel.Dollar)

	if filter.SearchTerm != "" {
		qb = qb.Where(squirrel.Or{
			squirrel.Expr("name_lowercase LIKE ? || '%'", strings.ToLower(filter.SearchTerm)),
			squirrel.Eq{"code": filter.SearchTerm},
		})
	}
	if filter.MaterialType != "" {
		qb = qb.Where(squirrel.Eq{"material_type": filter.MaterialType})
	}

	return qb
}

func (r *itemRepository) queryItems(ctx context.Context, query string, args ...any) ([]domain.Item, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	item := &domain.Item{}
	var patrimony, imageURL sql.NullString

	err := row.Scan(
		&item.ID, &item.Name, &item.NameLowercase, &item.Code, &patrimony,
		&item.Type, &item.Quantity, &item.Unit, &item.Category,
		&item.IsPerishable, &item.ExpirationDate,
		&imageURL, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Patrimony = patrimony.String
	item.ImageURL = imageURL.String

	return item, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
