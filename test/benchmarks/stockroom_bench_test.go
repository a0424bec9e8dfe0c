package benchmarks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ammarques/stockroom-be/internal/adapters/db"
	"github.com/ammarques/stockroom-be/internal/core/domain"
	"github.com/ammarques/stockroom-be/internal/core/ports"
	"github.com/ammarques/stockroom-be/internal/core/services"
	"github.com/ammarques/stockroom-be/test/helpers"
)

func BenchmarkCatalogOperations(b *testing.B) {
	// Setup
	testDB := helpers.SetupTestDB(&testing.T{})
	defer testDB.Database.Close()

	items := db.NewItemRepository(testDB.Database, helpers.TestLogger())
	movements := db.NewMovementRepository(testDB.Database, helpers.TestLogger())
	service := services.NewCatalogService(items, movements, nil, helpers.TestLogger())
	sess := helpers.TestSession()
	ctx := context.Background()

	b.Run("Create", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			item := helpers.CreateTestItem(func(it *domain.Item) {
				it.ID = uuid.Nil
				it.Name = fmt.Sprintf("Benchmark Item %d", i)
				it.Code = fmt.Sprintf("BEN-%06d", i)
			})
			_, _ = service.CreateItem(ctx, sess, item)
		}
	})

	// Pre-create items for read benchmarks
	var itemIDs []uuid.UUID
	for i := 0; i < 100; i++ {
		item := helpers.CreateTestItem(func(it *domain.Item) {
			it.ID = uuid.Nil
			it.Name = fmt.Sprintf("Read Item %03d", i)
			it.Code = fmt.Sprintf("RDB-%03d", i)
		})
		id, _ := service.CreateItem(ctx, sess, item)
		itemIDs = append(itemIDs, id)
	}

	b.Run("Read", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			id := itemIDs[i%len(itemIDs)]
			_, _ = service.GetItem(ctx, id)
		}
	})

	b.Run("Page", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.ListItemsPage(ctx, domain.ItemFilter{}, 50, "")
		}
	})

	b.Run("Search", func(b *testing.B) {
		filter := domain.ItemFilter{SearchTerm: "read item"}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.ListItemsPage(ctx, filter, 50, "")
		}
	})
}

func BenchmarkLedgerTransactions(b *testing.B) {
	testDB := helpers.SetupTestDB(&testing.T{})
	defer testDB.Database.Close()

	_ = db.NewItemRepository(testDB.Database, helpers.TestLogger())
	movements := db.NewMovementRepository(testDB.Database, helpers.TestLogger())
	requests := db.NewRequestRepository(testDB.Database, helpers.TestLogger())
	ledger := db.NewLedgerRepository(testDB.Database, helpers.TestLogger())
	service := services.NewLedgerService(ledger, movements, requests, helpers.TestLogger())
	sess := helpers.TestSession()
	ctx := context.Background()

	item := helpers.CreateTestItem(func(it *domain.Item) {
		it.Quantity = 0
		it.Code = "LED-001"
	})
	helpers.SeedTestItems(&testing.T{}, testDB.PgxPool, []domain.Item{*item})

	b.Run("Entry", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.RecordEntry(ctx, sess, ports.EntryData{
				Supplier: "Benchmark Supplier",
				Items:    []ports.EntryLine{{ItemID: item.ID, Quantity: 10}},
			})
		}
	})

	// Entries above leave ample stock for the exit and return loops.
	b.Run("Exit", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.RecordExit(ctx, sess, ports.ExitData{
				Requester:  domain.Actor{Primary: "requester@stockroom.app"},
				Department: "Secretaria",
				Items:      []ports.ExitLine{{ItemID: item.ID, Quantity: 1}},
			})
		}
	})

	b.Run("Return", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.RecordReturn(ctx, sess, ports.ReturnData{
				Department: "Secretaria",
				Items:      []ports.ExitLine{{ItemID: item.ID, Quantity: 1}},
			})
		}
	})
}

func BenchmarkReconcileEntryBatches(b *testing.B) {
	sizes := []struct {
		name    string
		entries int
		exits   int
	}{
		{"10x5", 10, 5},
		{"100x50", 100, 50},
		{"1000x500", 1000, 500},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			history := createMovementHistory(uuid.New(), size.entries, size.exits)
			now := time.Now()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = domain.ReconcileEntryBatches(history, now)
			}
		})
	}
}

func BenchmarkNextCode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = domain.NextCode("MAT", "MAT-041")
	}
}

func BenchmarkClassifyExpiry(b *testing.B) {
	now := time.Now()
	expirations := []time.Time{
		now.AddDate(0, 0, 10),
		now.AddDate(0, 1, 15),
		now.AddDate(0, 2, 15),
		now.AddDate(1, 0, 0),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = domain.ClassifyExpiry(expirations[i%len(expirations)], now)
	}
}
