// internal/adapters/db/request_repository.go
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

// requestRepository implements ports.RequestRepository. Line items are
// written once at submission and never touched again; status transitions
// update the request row only.
type requestRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewRequestRepository creates a new consumption request repository
func NewRequestRepository(db *Database, logger *slog.Logger) ports.RequestRepository {
	return &requestRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "requests")),
	}
}

const requestColumns = `
	id, tenant_id, requester, requester_detail, department, purpose,
	status, rejection_reason, submitted_at, decided_by, decided_at, fulfilled_at`

// Save stores a new request and its line items in one transaction
func (r *requestRepository) Save(ctx context.Context, request *domain.Request) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO requests (
				id, tenant_id, requester, requester_detail, department, purpose,
				status, rejection_reason, submitted_at, decided_by, decided_at, fulfilled_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
			)`,
			request.ID, request.TenantID,
			request.Requester.Primary, nullString(request.Requester.Secondary),
			request.Department, nullString(request.Purpose),
			request.Status, nullString(request.RejectionReason),
			request.SubmittedAt, nullString(request.DecidedBy),
			request.DecidedAt, request.FulfilledAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save request: %w", err)
		}

		batch := &pgx.Batch{}
		for i, line := range request.Items {
			batch.Queue(`
				INSERT INTO request_items (
					request_id, position, item_id, name, quantity, unit,
					is_perishable, expiration_date
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				request.ID, i, line.ItemID, line.Name, line.Quantity, line.Unit,
				line.IsPerishable, line.ExpirationDate,
			)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for range request.Items {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to save request line: %w", err)
			}
		}

		return nil
	})
}

// Update persists a status transition on the request row
func (r *requestRepository) Update(ctx context.Context, request *domain.Request) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE requests SET
			status = $2, rejection_reason = $3, decided_by = $4,
			decided_at = $5, fulfilled_at = $6
		WHERE id = $1`,
		request.ID, request.Status, nullString(request.RejectionReason),
		nullString(request.DecidedBy), request.DecidedAt, request.FulfilledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "request", ID: request.ID}
	}

	r.logger.DebugContext(ctx, "request updated",
		slog.String("request_id", request.ID.String()),
		slog.String("status", string(request.Status)))

	return nil
}

// FindByID retrieves one request with its line items, nil when absent
func (r *requestRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	query := `SELECT` + requestColumns + ` FROM requests WHERE id = $1`

	request, err := scanRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find request: %w", err)
	}

	if err := r.loadItems(ctx, []*domain.Request{request}); err != nil {
		return nil, err
	}

	return request, nil
}

// FindPending returns all pending requests, oldest submission first
func (r *requestRepository) FindPending(ctx context.Context) ([]domain.Request, error) {
	query := `
		SELECT` + requestColumns + `
		FROM requests
		WHERE status = $1
		ORDER BY submitted_at ASC, id ASC`

	return r.queryRequests(ctx, query, domain.RequestPending)
}

// FindProcessedPage returns one forward page of a tenant's approved and
// rejected requests, newest submission first. The returned cursor is empty
// on the last page.
func (r *requestRepository) FindProcessedPage(ctx context.Context, tenantID string, pageSize int, cursor string) ([]domain.Request, string, error) {
	pos, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", &domain.ValidationError{Field: "cursor", Reason: err.Error()}
	}

	qb := squirrel.Select(
		"id", "tenant_id", "requester", "requester_detail", "department", "purpose",
		"status", "rejection_reason", "submitted_at", "decided_by", "decided_at", "fulfilled_at",
	).From("requests").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Eq{"status": []domain.RequestStatus{domain.RequestApproved, domain.RequestRejected}}).
		OrderBy("submitted_at DESC", "id DESC").
		Limit(uint64(pageSize) + 1).
		PlaceholderFormat(squirrel.Dollar)

	if pos != nil {
		key, err := parseTimeKey(pos.Key)
		if err != nil {
			return nil, "", &domain.ValidationError{Field: "cursor", Reason: err.Error()}
		}
		qb = qb.Where(squirrel.Expr("(submitted_at, id) < (?, ?)", key, pos.ID))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, "", fmt.Errorf("failed to build page query: %w", err)
	}

	requests, err := r.queryRequests(ctx, query, args...)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(requests) > pageSize {
		requests = requests[:pageSize]
		last := requests[len(requests)-1]
		next = encodeCursor(timeKey(last.SubmittedAt), last.ID)
	}

	return requests, next, nil
}

func (r *requestRepository) queryRequests(ctx context.Context, query string, args ...any) ([]domain.Request, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []*domain.Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if err := r.loadItems(ctx, requests); err != nil {
		return nil, err
	}

	out := make([]domain.Request, len(requests))
	for i, req := range requests {
		out[i] = *req
	}

	return out, nil
}

// loadItems fetches line items for a set of requests in one query
func (r *requestRepository) loadItems(ctx context.Context, requests []*domain.Request) error {
	if len(requests) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(requests))
	byID := make(map[uuid.UUID]*domain.Request, len(requests))
	for i, req := range requests {
		ids[i] = req.ID
		byID[req.ID] = req
	}

	rows, err := r.db.Query(ctx, `
		SELECT request_id, item_id, name, quantity, unit, is_perishable, expiration_date
		FROM request_items
		WHERE request_id = ANY($1)
		ORDER BY request_id, position`, ids)
	if err != nil {
		return fmt.Errorf("failed to query request lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var requestID uuid.UUID
		var line domain.RequestItem

		err := rows.Scan(&requestID, &line.ItemID, &line.Name, &line.Quantity,
			&line.Unit, &line.IsPerishable, &line.ExpirationDate)
		if err != nil {
			return fmt.Errorf("failed to scan request line: %w", err)
		}

		if req, ok := byID[requestID]; ok {
			req.Items = append(req.Items, line)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	return nil
}

func scanRequest(row pgx.Row) (*domain.Request, error) {
	request := &domain.Request{}
	var requesterDetail, purpose, rejectionReason, decidedBy sql.NullString
	var decidedAt, fulfilledAt *time.Time

	err := row.Scan(
		&request.ID, &request.TenantID,
		&request.Requester.Primary, &requesterDetail,
		&request.Department, &purpose,
		&request.Status, &rejectionReason,
		&request.SubmittedAt, &decidedBy,
		&decidedAt, &fulfilledAt,
	)
	if err != nil {
		return nil, err
	}

	request.Requester.Secondary = requesterDetail.String
	request.Purpose = purpose.String
	request.RejectionReason = rejectionReason.String
	request.DecidedBy = decidedBy.String
	request.DecidedAt = decidedAt
	request.FulfilledAt = fulfilledAt

	return request, nil
}
