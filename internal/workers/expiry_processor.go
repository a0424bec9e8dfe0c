// internal/workers/expiry_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammarques/stockroom-be/internal/adapters/db"
	"github.com/ammarques/stockroom-be/internal/core/domain"
)

// ExpiryProcessor scans perishable stock and raises expiration alerts.
// Scheduled daily; each run emails one digest of everything inside the
// three-month alert window.
type ExpiryProcessor struct {
	db     *db.Database
	client *asynq.Client
	config ExpiryConfig
	logger *slog.Logger
}

// ExpiryConfig holds alert digest settings
type ExpiryConfig struct {
	Recipient string
}

// NewExpiryProcessor creates a new expiration scan processor
func NewExpiryProcessor(database *db.Database, client *asynq.Client, config ExpiryConfig, logger *slog.Logger) *ExpiryProcessor {
	return &ExpiryProcessor{
		db:     database,
		client: client,
		config: config,
		logger: logger.With(slog.String("processor", "expiry")),
	}
}

// expiryFinding is one perishable item inside the alert window
type expiryFinding struct {
	ItemID         string             `json:"item_id"`
	Name           string             `json:"name"`
	Quantity       int64              `json:"quantity"`
	ExpirationDate time.Time          `json:"expiration_date"`
	Alert          domain.ExpiryAlert `json:"alert"`
}

// ScanExpirations finds perishable items expiring within three months and
// enqueues an alert digest email
func (p *ExpiryProcessor) ScanExpirations(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "scanning perishable stock")

	query := `
		SELECT id, name, quantity, expiration_date
		FROM items
		WHERE is_perishable
		  AND expiration_date IS NOT NULL
		  AND expiration_date <= NOW() + INTERVAL '3 months'
		  AND quantity > 0
		ORDER BY expiration_date ASC`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query perishable items: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	var findings []expiryFinding

	for rows.Next() {
		var f expiryFinding
		if err := rows.Scan(&f.ItemID, &f.Name, &f.Quantity, &f.ExpirationDate); err != nil {
			return fmt.Errorf("failed to scan perishable item: %w", err)
		}
		f.Alert = domain.ClassifyExpiry(f.ExpirationDate, now)
		findings = append(findings, f)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	p.logger.InfoContext(ctx, "expiry scan completed",
		slog.Int("findings", len(findings)))

	if len(findings) == 0 || p.config.Recipient == "" {
		return nil
	}

	return p.enqueueDigest(ctx, findings)
}

func (p *ExpiryProcessor) enqueueDigest(ctx context.Context, findings []expiryFinding) error {
	body, err := json.Marshal(findings)
	if err != nil {
		return fmt.Errorf("failed to marshal digest: %w", err)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"to":      p.config.Recipient,
		"subject": fmt.Sprintf("Stock expiration alert: %d item(s)", len(findings)),
		"body":    string(body),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	task := asynq.NewTask(TypeSendEmail, payload)
	if _, err := p.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue digest email: %w", err)
	}

	p.logger.InfoContext(ctx, "expiry digest enqueued",
		slog.String("recipient", p.config.Recipient),
		slog.Int("findings", len(findings)))

	return nil
}
