// internal/core/services/catalog.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/ammarques/stockroom-be/internal/core/ports"
)

// CatalogService handles item catalog business logic
type CatalogService struct {
	items     ports.ItemRepository
	movements ports.MovementRepository
	blobs     ports.BlobStore
	logger    *slog.Logger
}

// Statically assert that *CatalogService implements the CatalogService port.
var _ ports.CatalogService = (*CatalogService)(nil)

// NewCatalogService creates a new catalog service
func NewCatalogService(items ports.ItemRepository, movements ports.MovementRepository, blobs ports.BlobStore, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		items:     items,
		movements: movements,
		blobs:     blobs,
		logger:    logger.With(slog.String("service", "catalog")),
	}
}

// CreateItem validates and stores a new catalog entry
func (s *CatalogService) CreateItem(ctx context.Context, sess domain.Session, item *domain.Item) (uuid.UUID, error) {
	if err := sess.Validate(); err != nil {
		return uuid.Nil, err
	}
	if err := item.Validate(); err != nil {
		return uuid.Nil, err
	}

	item.PrepareForStorage()

	if err := s.items.Save(ctx, item); err != nil {
		return uuid.Nil, fmt.Errorf("failed to save item: %w", err)
	}

	s.logger.InfoContext(ctx, "catalog item created",
		slog.String("item_id", item.ID.String()),
		slog.String("code", item.Code),
		slog.String("actor", sess.ActorID))

	return item.ID, nil
}

// UpdateItem merges the given fields into an existing item and records an
// audit movement describing the change. The update and the audit append are
// two separate writes; the quantity invariant is unaffected because admin
// edits are the only non-transactional quantity path and are audited.
func (s *CatalogService) UpdateItem(ctx context.Context, sess domain.Session, id uuid.UUID, update domain.ItemUpdate) (*domain.Item, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return nil, &domain.ValidationError{Field: "update", Reason: "no fields given"}
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	current, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	if current == nil {
		return nil, &domain.NotFoundError{Entity: "item", ID: id}
	}

	diff := update.Diff(current)

	updated, err := s.items.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	if diff != "" {
		audit := &domain.Movement{
			ID:           uuid.New(),
			ItemID:       id,
			Date:         time.Now(),
			Type:         domain.MovementAudit,
			Quantity:     0,
			Responsible:  domain.Actor{Primary: sess.ActorID},
			MaterialType: updated.Type,
			Changes:      diff,
		}
		if err := s.movements.Append(ctx, audit); err != nil {
			// The edit itself committed; losing the audit row is logged
			// loudly but does not roll the edit back.
			s.logger.ErrorContext(ctx, "failed to append audit movement",
				slog.String("item_id", id.String()),
				slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "catalog item updated",
		slog.String("item_id", id.String()),
		slog.String("changes", diff),
		slog.String("actor", sess.ActorID))

	return updated, nil
}

// DeleteItem removes an item. Ledger history referencing it is kept; reads
// tolerate the dangling reference.
func (s *CatalogService) DeleteItem(ctx context.Context, sess domain.Session, id uuid.UUID) error {
	if err := sess.Validate(); err != nil {
		return err
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.logger.InfoContext(ctx, "catalog item deleted",
		slog.String("item_id", id.String()),
		slog.String("actor", sess.ActorID))

	return nil
}

// GetItem retrieves one catalog entry by id
func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, &domain.NotFoundError{Entity: "item", ID: id}
	}
	return item, nil
}

// ListItems returns catalog entries matching the filter
func (s *CatalogService) ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	items, err := s.items.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// ListItemsPage returns one forward page of catalog entries
func (s *CatalogService) ListItemsPage(ctx context.Context, filter domain.ItemFilter, pageSize int, cursor string) (*ports.ItemPage, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	items, next, err := s.items.FindPage(ctx, filter, pageSize, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to page items: %w", err)
	}

	return &ports.ItemPage{Items: items, PageSize: pageSize, NextCursor: next}, nil
}

// NextCode derives the next sequential code for a prefix. Generation is not
// transactional: two concurrent calls with the same prefix may return the
// same code.
func (s *CatalogService) NextCode(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", &domain.ValidationError{Field: "prefix", Reason: "is required"}
	}

	last, err := s.items.MaxCode(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to look up last code: %w", err)
	}

	return domain.NextCode(prefix, last), nil
}

// UploadImage stores a base64 image payload and returns its URL
func (s *CatalogService) UploadImage(ctx context.Context, payload, fileName, contentType string) (string, error) {
	url, err := s.blobs.StoreBase64(ctx, payload, fileName, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return url, nil
}

const defaultPageSize = 20
