package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tealeg/xlsx/v3"
)

// SeedItem is one catalog row read from the workbook
type SeedItem struct {
	ID             uuid.UUID
	Name           string
	Code           string
	Patrimony      string
	MaterialType   string
	Quantity       int64
	Unit           string
	Category       string
	IsPerishable   bool
	ExpirationDate *time.Time
}

// SheetLoader reads catalog rows from an Excel workbook
type SheetLoader struct {
	logger *slog.Logger
}

func NewSheetLoader(logger *slog.Logger) *SheetLoader {
	return &SheetLoader{logger: logger}
}

// LoadItems reads the first sheet of the workbook. Expected columns:
// name, code, patrimony, type, quantity, unit, category, perishable (yes/no),
// expiration date (2006-01-02).
func (l *SheetLoader) LoadItems(path string) ([]SeedItem, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in workbook")
	}
	sheet := file.Sheets[0]

	var items []SeedItem
	rowIdx := 0

	err = sheet.ForEachRow(func(r *xlsx.Row) error {
		// Skip header
		if rowIdx == 0 {
			rowIdx++
			return nil
		}
		rowIdx++

		get := func(i int) string {
			c := r.GetCell(i)
			if c == nil {
				return ""
			}
			if s, err := c.FormattedValue(); err == nil {
				return strings.TrimSpace(s)
			}
			return strings.TrimSpace(c.String())
		}

		name := get(0)
		if name == "" {
			return nil
		}

		materialType := strings.ToLower(get(3))
		if materialType != "consumable" && materialType != "durable" {
			l.logger.Warn("skipping row with unknown material type",
				slog.Int("row", rowIdx),
				slog.String("type", materialType))
			return nil
		}

		quantity, _ := strconv.ParseInt(get(4), 10, 64)
		if quantity < 0 {
			quantity = 0
		}

		item := SeedItem{
			ID:           uuid.New(),
			Name:         name,
			Code:         get(1),
			Patrimony:    get(2),
			MaterialType: materialType,
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

		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	l.logger.Info("Loaded catalog rows", slog.Int("count", len(items)))
	return items, nil
}

// Seeder persists catalog items and their opening stock movements
type Seeder struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewSeeder(db *pgxpool.Pool, logger *slog.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// SaveItems inserts the items and, for each positive quantity, an official
// opening entry in the movement ledger. Everything commits in one
// transaction so a partial seed never leaves items without their entry.
func (s *Seeder) SaveItems(ctx context.Context, items []SeedItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	batch := &pgx.Batch{}
	queued := 0

	for _, item := range items {
		batch.Queue(`
			INSERT INTO items (
				id, name, name_lowercase, code, patrimony, material_type,
				quantity, unit, category, is_perishable, expiration_date,
				image_url, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
			)`,
			item.ID, item.Name, strings.ToLower(item.Name), item.Code,
			nullable(item.Patrimony), item.MaterialType, item.Quantity,
			item.Unit, item.Category, item.IsPerishable, item.ExpirationDate,
			nil, now, now,
		)
		queued++

		if item.Quantity > 0 {
			batch.Queue(`
				INSERT INTO movements (
					id, item_id, occurred_at, movement_type, entry_type,
					quantity, operator, material_type, expiration_date, created_at
				) VALUES (
					$1, $2, $3, 'entry', 'official', $4, 'seeder', $5, $6, $7
				)`,
				uuid.New(), item.ID, now, item.Quantity, item.MaterialType,
				item.ExpirationDate, now,
			)
			queued++
		}
	}

	br := tx.SendBatch(ctx, batch)

	for i := 0; i < queued; i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}

	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Saved items to database", slog.Int("count", len(items)))
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func main() {
	// Parse flags
	var (
		seedFile  = flag.String("file", "./seed.xlsx", "Excel workbook with catalog rows")
		stateFile = flag.String("state", "./.seed_state.json", "State file for tracking progress")
		logLevel  = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun    = flag.Bool("dry-run", false, "Preview changes without modifying database")
		force     = flag.Bool("force", false, "Reseed rows already recorded in the state file")
	)
	flag.Parse()

	// Setup logging
	var slogLevel slog.Level
	switch *logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(logger)

	// Database connection
	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "stockroom"),
		getEnv("DB_PASSWORD", "stockroom_dev_2025"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "stockroom_inventory"),
		getEnv("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()

	var db *pgxpool.Pool
	var err error

	if !*dryRun {
		db, err = pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Error("Failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer db.Close()
	}

	loader := NewSheetLoader(logger)
	seeder := NewSeeder(db, logger)

	// Load state
	type SeederState struct {
		SeededCodes []string  `json:"seeded_codes"`
		SeededCount int       `json:"seeded_count"`
		LastUpdate  time.Time `json:"last_update"`
	}

	var state SeederState
	if !*force {
		if stateData, err := os.ReadFile(*stateFile); err == nil {
			json.Unmarshal(stateData, &state)
		}
	}

	seeded := make(map[string]bool, len(state.SeededCodes))
	for _, code := range state.SeededCodes {
		seeded[code] = true
	}

	// Load workbook
	allItems, err := loader.LoadItems(*seedFile)
	if err != nil {
		logger.Error("Failed to load workbook", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Filter out rows seeded on a previous run
	var items []SeedItem
	skipped := 0
	for _, item := range allItems {
		if !*force && item.Code != "" && seeded[item.Code] {
			skipped++
			continue
		}
		items = append(items, item)
	}

	fmt.Printf("PROGRESS: Seeding %d rows (%d already seeded)\n", len(items), skipped)

	withStock := 0
	for _, item := range items {
		if item.Quantity > 0 {
			withStock++
		}
	}

	if !*dryRun && len(items) > 0 {
		if err := seeder.SaveItems(ctx, items); err != nil {
			logger.Error("Failed to save items", slog.String("error", err.Error()))
			fmt.Printf("ERROR: Failed to seed catalog - %v\n", err)
			os.Exit(1)
		}

		for _, item := range items {
			if item.Code != "" {
				state.SeededCodes = append(state.SeededCodes, item.Code)
			}
		}
		state.SeededCount = len(state.SeededCodes)
		state.LastUpdate = time.Now()

		stateData, _ := json.MarshalIndent(state, "", "  ")
		os.WriteFile(*stateFile, stateData, 0644)
	}

	// Summary
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("📊 SEEDING OPERATION SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Catalog Items Seeded: %d\n", len(items))
	fmt.Printf("Opening Entries Recorded: %d\n", withStock)
	fmt.Printf("Rows Skipped (already seeded): %d\n", skipped)

	logger.Info("Seed operation completed",
		slog.Int("items_created", len(items)),
		slog.Int("opening_entries", withStock),
		slog.Int("skipped", skipped))

	if *dryRun {
		fmt.Println("\n[DRY RUN] No changes were made to the database")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
