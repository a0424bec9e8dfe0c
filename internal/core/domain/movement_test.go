package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammarques/stockroom-be/internal/core/domain"
)

func entry(qty int64, expires time.Time) domain.Movement {
	return domain.Movement{
		ID:             uuid.New(),
		ItemID:         uuid.New(),
		Type:           domain.MovementEntry,
		Quantity:       qty,
		ExpirationDate: &expires,
	}
}

func exit(qty int64) domain.Movement {
	return domain.Movement{
		ID:       uuid.New(),
		Type:     domain.MovementExit,
		Quantity: qty,
	}
}

func TestMovement_SignedQuantity(t *testing.T) {
	tests := []struct {
		name     string
		movement domain.Movement
		want     int64
	}{
		{name: "entry_is_positive", movement: domain.Movement{Type: domain.MovementEntry, Quantity: 5}, want: 5},
		{name: "return_is_positive", movement: domain.Movement{Type: domain.MovementReturn, Quantity: 3}, want: 3},
		{name: "exit_is_negative", movement: domain.Movement{Type: domain.MovementExit, Quantity: 4}, want: -4},
		{name: "audit_is_zero", movement: domain.Movement{Type: domain.MovementAudit, Quantity: 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.movement.SignedQuantity())
		})
	}
}

func TestReconcileEntryBatches_FIFODepletion(t *testing.T) {
	now := time.Now()
	oldest := now.AddDate(0, 0, 10)
	middle := now.AddDate(0, 1, 15)
	newest := now.AddDate(0, 4, 0)

	// 10 exits consume the oldest batch (8) and part of the middle one (5)
	movements := []domain.Movement{
		entry(5, middle),
		entry(8, oldest),
		entry(20, newest),
		exit(6),
		exit(4),
	}

	batches := domain.ReconcileEntryBatches(movements, now)
	require.Len(t, batches, 3)

	// Returned oldest-expiry-first
	assert.Equal(t, int64(8), batches[0].Movement.Quantity)
	assert.False(t, batches[0].Active, "fully consumed batch should be inactive")
	assert.Equal(t, domain.AlertNone, batches[0].Alert)

	assert.Equal(t, int64(5), batches[1].Movement.Quantity)
	assert.True(t, batches[1].Active, "partially consumed batch stays active")
	assert.Equal(t, domain.AlertWarning, batches[1].Alert)

	assert.True(t, batches[2].Active)
	assert.Equal(t, domain.AlertNone, batches[2].Alert)
}

func TestReconcileEntryBatches_OnlyOnePartialBatchFlagged(t *testing.T) {
	now := time.Now()

	// Exit total spills past the first batch; the second absorbs the
	// remainder and zeroes the counter, so the third is active untouched.
	movements := []domain.Movement{
		entry(10, now.AddDate(0, 0, 5)),
		entry(10, now.AddDate(0, 1, 10)),
		entry(10, now.AddDate(0, 2, 10)),
		exit(12),
	}

	batches := domain.ReconcileEntryBatches(movements, now)
	require.Len(t, batches, 3)

	assert.False(t, batches[0].Active)
	assert.True(t, batches[1].Active)
	assert.True(t, batches[2].Active)
}

func TestReconcileEntryBatches_NoExits(t *testing.T) {
	now := time.Now()
	movements := []domain.Movement{
		entry(3, now.AddDate(0, 0, 20)),
	}

	batches := domain.ReconcileEntryBatches(movements, now)
	require.Len(t, batches, 1)
	assert.True(t, batches[0].Active)
	assert.Equal(t, domain.AlertUrgent, batches[0].Alert)
}

func TestReconcileEntryBatches_IgnoresUndatedEntriesAndAudits(t *testing.T) {
	now := time.Now()
	undated := domain.Movement{Type: domain.MovementEntry, Quantity: 7}
	audit := domain.Movement{Type: domain.MovementAudit, Quantity: 0}

	batches := domain.ReconcileEntryBatches([]domain.Movement{undated, audit}, now)
	assert.Empty(t, batches)
}

func TestClassifyExpiry(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		expiration time.Time
		want       domain.ExpiryAlert
	}{
		{name: "under_one_month", expiration: now.AddDate(0, 0, 15), want: domain.AlertUrgent},
		{name: "under_two_months", expiration: now.AddDate(0, 1, 10), want: domain.AlertWarning},
		{name: "under_three_months", expiration: now.AddDate(0, 2, 10), want: domain.AlertReminder},
		{name: "three_months_or_more", expiration: now.AddDate(0, 6, 0), want: domain.AlertNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ClassifyExpiry(tt.expiration, now))
		})
	}
}

func TestActor_Display(t *testing.T) {
	assert.Equal(t, "maria@prefeitura.gov.br", domain.Actor{Primary: "maria@prefeitura.gov.br"}.Display())
	assert.Equal(t, "João Silva (1234)", domain.Actor{Primary: "João Silva", Secondary: "1234"}.Display())
}
