package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammarques/stockroom-be/internal/adapters/db"
	redis_a "github.com/ammarques/stockroom-be/internal/adapters/redis_adapter"
	"github.com/ammarques/stockroom-be/internal/core/ports"
)

// DashboardHandler serves the aggregated stockroom overview
type DashboardHandler struct {
	db     *db.Database
	cache  ports.CacheRepository
	logger *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(db *db.Database, cache ports.CacheRepository, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		db:     db,
		cache:  cache,
		logger: logger.With(slog.String("handler", "dashboard")),
	}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Try cache first
	cacheKey := redis_a.BuildKey(redis_a.PrefixDashboard, "main")
	var dashboard DashboardData

	err := h.cache.GetOrSet(ctx, cacheKey, &dashboard, func() (interface{}, error) {
		return h.loadDashboardData(ctx)
	}, 5*time.Minute)

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load dashboard",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, dashboard)
}

// GetConsumption handles GET /api/v1/dashboard/consumption
func (h *DashboardHandler) GetConsumption(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "30d"
	}

	days, ok := consumptionPeriods[period]
	if !ok {
		respondError(w, h.logger, http.StatusBadRequest, "unknown period, expected 7d, 30d or 90d")
		return
	}

	cacheKey := redis_a.BuildKey(redis_a.PrefixDashboard, "consumption", period)
	var stats ConsumptionData

	err := h.cache.GetOrSet(ctx, cacheKey, &stats, func() (interface{}, error) {
		return h.loadConsumptionData(ctx, period, days)
	}, 15*time.Minute)

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load consumption stats",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "failed to load consumption stats")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, stats)
}

var consumptionPeriods = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

func (h *DashboardHandler) loadDashboardData(ctx context.Context) (*DashboardData, error) {
	dashboard := &DashboardData{
		Timestamp: time.Now(),
	}

	summaryQuery := `
		SELECT
			COUNT(*) as total_items,
			COALESCE(SUM(quantity), 0) as total_units,
			COUNT(CASE WHEN quantity = 0 THEN 1 END) as out_of_stock,
			COUNT(CASE WHEN is_perishable THEN 1 END) as perishable_items,
			(SELECT COUNT(*) FROM requests WHERE status = 'pending') as pending_requests
		FROM items
	`

	err := h.db.QueryRow(ctx, summaryQuery).Scan(
		&dashboard.Summary.TotalItems,
		&dashboard.Summary.TotalUnits,
		&dashboard.Summary.OutOfStock,
		&dashboard.Summary.PerishableItems,
		&dashboard.Summary.PendingRequests,
	)
	if err != nil {
		return nil, err
	}

	// Category breakdown, largest first
	categoryQuery := `
		SELECT category, COUNT(*) as count, COALESCE(SUM(quantity), 0) as units
		FROM items
		GROUP BY category
		ORDER BY count DESC
		LIMIT 10
	`

	rows, err := h.db.Query(ctx, categoryQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var cat CategoryBreakdown
		if err := rows.Scan(&cat.Category, &cat.Count, &cat.Units); err != nil {
			continue
		}
		dashboard.CategoryBreakdown = append(dashboard.CategoryBreakdown, cat)
	}

	// Perishables expiring within three months, soonest first
	expiringQuery := `
		SELECT id, name, quantity, expiration_date
		FROM items
		WHERE is_perishable
		  AND expiration_date IS NOT NULL
		  AND expiration_date <= NOW() + INTERVAL '3 months'
		  AND quantity > 0
		ORDER BY expiration_date ASC
		LIMIT 20
	`

	expRows, err := h.db.Query(ctx, expiringQuery)
	if err == nil {
		defer expRows.Close()
		for expRows.Next() {
			var item ExpiringItem
			if err := expRows.Scan(&item.ID, &item.Name, &item.Quantity, &item.ExpirationDate); err == nil {
				dashboard.ExpiringSoon = append(dashboard.ExpiringSoon, item)
			}
		}
	}

	return dashboard, nil
}

func (h *DashboardHandler) loadConsumptionData(ctx context.Context, period string, days int) (*ConsumptionData, error) {
	stats := &ConsumptionData{Period: period}

	query := `
		SELECT department, COALESCE(SUM(quantity), 0) as units, COUNT(*) as exits
		FROM movements
		WHERE movement_type = 'exit'
		  AND occurred_at >= NOW() - ($1 || ' days')::INTERVAL
		  AND department IS NOT NULL
		GROUP BY department
		ORDER BY units DESC
	`

	rows, err := h.db.Query(ctx, query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	span := decimal.NewFromInt(int64(days))
	for rows.Next() {
		var dept DepartmentConsumption
		if err := rows.Scan(&dept.Department, &dept.Units, &dept.Exits); err != nil {
			continue
		}
		dept.UnitsPerDay = decimal.NewFromInt(dept.Units).DivRound(span, 2)
		stats.Departments = append(stats.Departments, dept)
	}

	return stats, rows.Err()
}

// Type definitions

type DashboardData struct {
	Summary           DashboardSummary    `json:"summary"`
	CategoryBreakdown []CategoryBreakdown `json:"category_breakdown"`
	ExpiringSoon      []ExpiringItem      `json:"expiring_soon"`
	Timestamp         time.Time           `json:"timestamp"`
}

type DashboardSummary struct {
	TotalItems      int64 `json:"total_items"`
	TotalUnits      int64 `json:"total_units"`
	OutOfStock      int64 `json:"out_of_stock"`
	PerishableItems int64 `json:"perishable_items"`
	PendingRequests int64 `json:"pending_requests"`
}

type CategoryBreakdown struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
	Units    int64  `json:"units"`
}

type ExpiringItem struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Quantity       int64     `json:"quantity"`
	ExpirationDate time.Time `json:"expiration_date"`
}

type ConsumptionData struct {
	Period      string                  `json:"period"`
	Departments []DepartmentConsumption `json:"departments"`
}

type DepartmentConsumption struct {
	Department  string          `json:"department"`
	Units       int64           `json:"units"`
	Exits       int64           `json:"exits"`
	UnitsPerDay decimal.Decimal `json:"units_per_day"`
}
