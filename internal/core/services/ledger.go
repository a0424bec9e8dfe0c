// internal/core/services/ledger.go
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

// LedgerService handles the stock-affecting operations. Each record call
// validates its input up front, then hands the batch to the ledger
// repository, which applies every line and its movement inside one
// all-or-nothing transaction.
type LedgerService struct {
	ledger    ports.LedgerRepository
	movements ports.MovementRepository
	requests  ports.RequestRepository
	logger    *slog.Logger
}

// Statically assert that *LedgerService implements the LedgerService port.
var _ ports.LedgerService = (*LedgerService)(nil)

// NewLedgerService creates a new ledger service
func NewLedgerService(ledger ports.LedgerRepository, movements ports.MovementRepository, requests ports.RequestRepository, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		ledger:    ledger,
		movements: movements,
		requests:  requests,
		logger:    logger.With(slog.String("service", "ledger")),
	}
}

// RecordEntry receives stock into the catalog
func (s *LedgerService) RecordEntry(ctx context.Context, sess domain.Session, data ports.EntryData) ([]domain.Movement, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if err := validateLines(entryLines(data.Items)); err != nil {
		return nil, err
	}
	if data.Supplier == "" {
		return nil, &domain.ValidationError{Field: "supplier", Reason: "is required"}
	}
	if data.EntryType == "" {
		data.EntryType = domain.EntryOfficial
	}
	if data.Date.IsZero() {
		data.Date = time.Now()
	}
	if data.Responsible.Primary == "" {
		data.Responsible.Primary = sess.ActorID
	}

	movements, err := s.ledger.RecordEntry(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("entry transaction failed: %w", err)
	}

	s.logger.InfoContext(ctx, "stock entry recorded",
		slog.Int("lines", len(movements)),
		slog.String("supplier", data.Supplier),
		slog.String("actor", sess.ActorID))

	return movements, nil
}

// RecordExit issues stock. The whole batch aborts when any line exceeds
// available stock. When the exit correlates to an approved request, the
// request is marked fulfilled after the transaction commits; that marker is
// advisory and its failure does not undo the exit.
func (s *LedgerService) RecordExit(ctx context.Context, sess domain.Session, data ports.ExitData) ([]domain.Movement, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if err := validateLines(data.Items); err != nil {
		return nil, err
	}
	if data.Department == "" {
		return nil, &domain.ValidationError{Field: "department", Reason: "is required"}
	}
	if data.Date.IsZero() {
		data.Date = time.Now()
	}
	if data.Responsible.Primary == "" {
		data.Responsible.Primary = sess.ActorID
	}
	if data.Responsible.Secondary == "" {
		data.Responsible.Secondary = data.Requester.Display()
	}

	movements, err := s.ledger.RecordExit(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("exit transaction failed: %w", err)
	}

	if data.RequestID != nil {
		s.markRequestFulfilled(ctx, *data.RequestID)
	}

	s.logger.InfoContext(ctx, "stock exit recorded",
		slog.Int("lines", len(movements)),
		slog.String("department", data.Department),
		slog.String("actor", sess.ActorID))

	return movements, nil
}

// RecordReturn takes stock back. Returns are always acceptable; there is no
// upper bound check.
func (s *LedgerService) RecordReturn(ctx context.Context, sess domain.Session, data ports.ReturnData) ([]domain.Movement, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if err := validateLines(data.Items); err != nil {
		return nil, err
	}
	if data.Date.IsZero() {
		data.Date = time.Now()
	}
	if data.Responsible.Primary == "" {
		data.Responsible.Primary = sess.ActorID
	}

	movements, err := s.ledger.RecordReturn(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("return transaction failed: %w", err)
	}

	s.logger.InfoContext(ctx, "stock return recorded",
		slog.Int("lines", len(movements)),
		slog.String("department", data.Department),
		slog.String("actor", sess.ActorID))

	return movements, nil
}

// ListMovements returns ledger records matching the filter, newest first
func (s *LedgerService) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error) {
	movements, err := s.movements.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return movements, nil
}

// ListMovementsPage returns one forward page of ledger records
func (s *LedgerService) ListMovementsPage(ctx context.Context, filter domain.MovementFilter, pageSize int, cursor string) (*ports.MovementPage, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	movements, next, err := s.movements.FindPage(ctx, filter, pageSize, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to page movements: %w", err)
	}

	return &ports.MovementPage{Movements: movements, PageSize: pageSize, NextCursor: next}, nil
}

// MovementsForItem returns all movements for one item, newest first
func (s *LedgerService) MovementsForItem(ctx context.Context, itemID uuid.UUID) ([]domain.Movement, error) {
	movements, err := s.movements.FindByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item movements: %w", err)
	}
	return movements, nil
}

// ActiveBatches reconciles one item's entry batches against its exits
func (s *LedgerService) ActiveBatches(ctx context.Context, itemID uuid.UUID) ([]domain.EntryBatch, error) {
	movements, err := s.movements.FindByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item movements: %w", err)
	}

	return domain.ReconcileEntryBatches(movements, time.Now()), nil
}

// markRequestFulfilled stamps the correlated request after a successful
// exit. Failures are logged and swallowed: the stock change is committed
// and authoritative.
func (s *LedgerService) markRequestFulfilled(ctx context.Context, requestID uuid.UUID) {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil || request == nil {
		s.logger.WarnContext(ctx, "correlated request not found after exit",
			slog.String("request_id", requestID.String()))
		return
	}

	if err := request.MarkFulfilled(time.Now()); err != nil {
		s.logger.WarnContext(ctx, "correlated request not in fulfillable state",
			slog.String("request_id", requestID.String()),
			slog.String("status", string(request.Status)))
		return
	}

	if err := s.requests.Update(ctx, request); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist request fulfillment",
			slog.String("request_id", requestID.String()),
			slog.String("error", err.Error()))
	}
}

func validateLines(items []ports.ExitLine) error {
	if len(items) == 0 {
		return &domain.ValidationError{Field: "items", Reason: "at least one line item is required"}
	}
	for _, line := range items {
		if line.ItemID == uuid.Nil {
			return &domain.ValidationError{Field: "items", Reason: "line item id is required"}
		}
		if line.Quantity <= 0 {
			return &domain.ValidationError{Field: "items", Reason: "line quantity must be positive"}
		}
	}
	return nil
}

func entryLines(lines []ports.EntryLine) []ports.ExitLine {
	out := make([]ports.ExitLine, len(lines))
	for i, l := range lines {
		out[i] = ports.ExitLine{ItemID: l.ItemID, Quantity: l.Quantity}
	}
	return out
}
