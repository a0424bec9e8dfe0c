// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	redis_a "github.com/ammarques/stockroom-be/internal/adapters/redis_adapter"
	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/ammarques/stockroom-be/internal/core/ports"
)

// ExportHandler serves movement history downloads
type ExportHandler struct {
	ledger ports.LedgerService
	cache  ports.CacheRepository
	logger *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(ledger ports.LedgerService, cache ports.CacheRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		ledger: ledger,
		cache:  cache,
		logger: logger.With(slog.String("handler", "export")),
	}
}

// ExportExcel handles GET /api/v1/export/movements/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parseMovementFilter(r)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	movements, err := h.ledger.ListMovements(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load movements for export",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "failed to retrieve data")
		return
	}

	excelData, err := h.generateExcelFile(movements)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("movements_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "Excel export completed",
		slog.Int("total_rows", len(movements)),
		slog.String("filename", filename))
}

// ExportJSON handles GET /api/v1/export/movements/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parseMovementFilter(r)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	// Check cache first
	cacheKey := redis_a.BuildKey(redis_a.PrefixExport, "json", cacheKeyFromFilter(filter))
	var cachedData []byte
	if err := h.cache.Get(ctx, cacheKey, &cachedData); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Content-Length", strconv.Itoa(len(cachedData)))
		w.Write(cachedData)
		return
	}

	movements, err := h.ledger.ListMovements(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load movements for export",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "failed to retrieve data")
		return
	}

	response := map[string]interface{}{
		"movements": movements,
		"metadata": map[string]interface{}{
			"export_date": time.Now(),
			"total_rows":  len(movements),
		},
	}

	responseData, err := json.Marshal(response)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal export",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "failed to generate JSON")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseData)))

	if _, err := w.Write(responseData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write JSON response",
			slog.String("error", err.Error()))
		return
	}

	// Cache the result (async)
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := h.cache.SetWithTTL(cacheCtx, cacheKey, responseData, 5*time.Minute); err != nil {
			h.logger.WarnContext(cacheCtx, "failed to cache export",
				slog.String("error", err.Error()))
		}
	}()

	h.logger.InfoContext(ctx, "JSON export completed",
		slog.Int("total_rows", len(movements)))
}

var excelHeaders = []string{
	"Date", "Type", "Entry Kind", "Item ID", "Quantity", "Responsible",
	"On Behalf Of", "Department", "Supplier", "Invoice", "Material",
	"Notes", "Expiration Date",
}

// generateExcelFile creates an Excel workbook in memory from the movements
func (h *ExportHandler) generateExcelFile(movements []domain.Movement) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Movements")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range excelHeaders {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for i := range movements {
		m := &movements[i]
		row := sheet.AddRow()
		for _, value := range []string{
			m.Date.Format("2006-01-02 15:04:05"),
			string(m.Type),
			string(m.EntryType),
			m.ItemID.String(),
			strconv.FormatInt(m.Quantity, 10),
			m.Responsible.Primary,
			m.Responsible.Secondary,
			m.Department,
			m.Supplier,
			m.Invoice,
			string(m.MaterialType),
			m.Changes,
			safeDateValue(m.ExpirationDate),
		} {
			row.AddCell().Value = value
		}
	}

	for i := range excelHeaders {
		sheet.SetColWidth(i, i, 18)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}

func safeDateValue(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format("2006-01-02")
}

func cacheKeyFromFilter(filter domain.MovementFilter) string {
	key := fmt.Sprintf("type_%s_mat_%s_dept_%s", filter.MovementType, filter.MaterialType, filter.Department)
	if filter.StartDate != nil {
		key += "_from_" + filter.StartDate.Format("20060102")
	}
	if filter.EndDate != nil {
		key += "_to_" + filter.EndDate.Format("20060102")
	}
	return key
}
