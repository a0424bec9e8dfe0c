// internal/workers/excel_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/ammarques/stockroom-be/internal/core/ports"
)

// ExcelProcessor imports catalog items from uploaded spreadsheets. Expected
// columns: name, code, patrimony, type, quantity, unit, category,
// perishable (yes/no), expiration date (2006-01-02).
type ExcelProcessor struct {
	catalog ports.CatalogService
	logger  *slog.Logger
}

// NewExcelProcessor creates a new Excel import processor
func NewExcelProcessor(catalog ports.CatalogService, logger *slog.Logger) *ExcelProcessor {
	return &ExcelProcessor{
		catalog: catalog,
		logger:  logger.With(slog.String("processor", "excel")),
	}
}

// ProcessExcel imports catalog items from an Excel file
func (p *ExcelProcessor) ProcessExcel(ctx context.Context, t *asynq.Task) error {
	var payload struct {
		JobID    string `json:"job_id"`
		FilePath string `json:"file_path"`
		ActorID  string `json:"actor_id"`
	}
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "processing Excel file",
		slog.String("job_id", payload.JobID),
		slog.String("file_path", payload.FilePath))

	file, err := xlsx.OpenFile(payload.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open Excel file: %w", err)
	}

	sess := domain.Session{ActorID: payload.ActorID}
	if sess.ActorID == "" {
		sess.ActorID = "importer"
	}

	var imported, skipped int

	if len(file.Sheets) > 0 {
		sheet := file.Sheets[0]
		rowIdx := 0

		err = sheet.ForEachRow(func(r *xlsx.Row) error {
			// Skip header row
			if rowIdx == 0 {
				rowIdx++
				return nil
			}
			rowIdx++

			item := p.parseRow(r)
			if item == nil {
				skipped++
				return nil
			}

			if _, err := p.catalog.CreateItem(ctx, sess, item); err != nil {
				p.logger.WarnContext(ctx, "failed to import row",
					slog.Int("row", rowIdx),
					slog.String("name", item.Name),
					slog.String("error", err.Error()))
				skipped++
				return nil
			}

			imported++
			return nil
		})

		if err != nil {
			return fmt.Errorf("failed to process Excel rows: %w", err)
		}
	}

	// Clean up temp file
	if strings.HasPrefix(payload.FilePath, "/tmp/") {
		os.Remove(payload.FilePath)
	}

	p.logger.InfoContext(ctx, "Excel import completed",
		slog.String("job_id", payload.JobID),
		slog.Int("imported", imported),
		slog.Int("skipped", skipped))

	return nil
}

func (p *ExcelProcessor) parseRow(r *xlsx.Row) *domain.Item {
	get := func(i int) string {
		c := r.GetCell(i)
		if c == nil {
			return ""
		}
		return strings.TrimSpace(c.String())
	}

	name := get(0)
	if name == "" {
		return nil
	}

	quantity, _ := strconv.ParseInt(get(4), 10, 64)
	if quantity < 0 {
		quantity = 0
	}

	item := &domain.Item{
		Name:         name,
		Code:         get(1),
		Patrimony:    get(2),
		Type:         domain.MaterialType(strings.ToLower(get(3))),
		Quantity:     quantity,
		Unit:         get(5),
		Category:     get(6),
		IsPerishable: strings.EqualFold(get(7), "yes"),
	}

	if raw := get(8); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			item.ExpirationDate = &t
		}
	}

	return item
}
