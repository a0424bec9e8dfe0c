package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammarques/stockroom-be/internal/core/domain"
)

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name      string
		item      *domain.Item
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid_consumable",
			item: &domain.Item{
				Name:     "A4 Paper",
				Code:     "OFF-001",
				Type:     domain.MaterialConsumable,
				Quantity: 10,
				Unit:     "ream",
				Category: "office",
			},
			wantError: false,
		},
		{
			name: "valid_durable_with_patrimony",
			item: &domain.Item{
				Name:      "Office Chair",
				Code:      "FUR-003",
				Type:      domain.MaterialDurable,
				Patrimony: "PAT-9920",
				Quantity:  2,
				Unit:      "unit",
				Category:  "furniture",
			},
			wantError: false,
		},
		{
			name: "missing_name",
			item: &domain.Item{
				Unit:     "unit",
				Quantity: 1,
			},
			wantError: true,
			errorMsg:  "invalid name",
		},
		{
			name: "missing_unit",
			item: &domain.Item{
				Name:     "Stapler",
				Quantity: 1,
			},
			wantError: true,
			errorMsg:  "invalid unit",
		},
		{
			name: "negative_quantity",
			item: &domain.Item{
				Name:     "Stapler",
				Unit:     "unit",
				Quantity: -1,
			},
			wantError: true,
			errorMsg:  "invalid quantity",
		},
		{
			name: "patrimony_on_consumable",
			item: &domain.Item{
				Name:      "Toner",
				Unit:      "unit",
				Type:      domain.MaterialConsumable,
				Patrimony: "PAT-1",
			},
			wantError: true,
			errorMsg:  "invalid patrimony",
		},
		{
			name: "unknown_material_type",
			item: &domain.Item{
				Name: "Toner",
				Unit: "unit",
				Type: domain.MaterialType("rented"),
			},
			wantError: true,
			errorMsg:  "invalid type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()

			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.ErrorIs(t, err, domain.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestItem_Validate_DefaultsMaterialType(t *testing.T) {
	item := &domain.Item{Name: "Pens", Unit: "box"}

	require.NoError(t, item.Validate())
	assert.Equal(t, domain.MaterialConsumable, item.Type)
}

func TestItem_PrepareForStorage(t *testing.T) {
	item := &domain.Item{Name: "Luva Cirúrgica", Unit: "pair"}

	item.PrepareForStorage()

	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, "luva cirúrgica", item.NameLowercase)
	assert.False(t, item.CreatedAt.IsZero())
	assert.False(t, item.UpdatedAt.IsZero())

	// A second call keeps identity and creation time stable
	id, created := item.ID, item.CreatedAt
	item.PrepareForStorage()
	assert.Equal(t, id, item.ID)
	assert.Equal(t, created, item.CreatedAt)
}

func TestNextCode(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		lastCode string
		want     string
	}{
		{name: "empty_catalog_starts_at_001", prefix: "ABC-DEF", lastCode: "", want: "ABC-DEF-001"},
		{name: "increments_existing_suffix", prefix: "ABC-DEF", lastCode: "ABC-DEF-007", want: "ABC-DEF-008"},
		{name: "zero_pads_small_numbers", prefix: "OFF", lastCode: "OFF-009", want: "OFF-010"},
		{name: "grows_past_three_digits", prefix: "OFF", lastCode: "OFF-999", want: "OFF-1000"},
		{name: "unparseable_suffix_restarts", prefix: "OFF", lastCode: "OFF-XYZ", want: "OFF-001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.NextCode(tt.prefix, tt.lastCode))
		})
	}
}

func TestItemUpdate_Validate(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	qtyPtr := func(q int64) *int64 { return &q }
	typePtr := func(m domain.MaterialType) *domain.MaterialType { return &m }

	tests := []struct {
		name      string
		update    domain.ItemUpdate
		wantError bool
		errorMsg  string
	}{
		{
			name:   "valid_partial_update",
			update: domain.ItemUpdate{Name: strPtr("Papel A4"), Quantity: qtyPtr(30)},
		},
		{
			name:   "nil_fields_are_not_judged",
			update: domain.ItemUpdate{Category: strPtr("office")},
		},
		{
			name:      "negative_quantity",
			update:    domain.ItemUpdate{Quantity: qtyPtr(-5)},
			wantError: true,
			errorMsg:  "invalid quantity",
		},
		{
			name:      "empty_name",
			update:    domain.ItemUpdate{Name: strPtr("")},
			wantError: true,
			errorMsg:  "invalid name",
		},
		{
			name:      "empty_unit",
			update:    domain.ItemUpdate{Unit: strPtr("")},
			wantError: true,
			errorMsg:  "invalid unit",
		},
		{
			name:      "unknown_material_type",
			update:    domain.ItemUpdate{Type: typePtr(domain.MaterialType("rented"))},
			wantError: true,
			errorMsg:  "invalid type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.update.Validate()

			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.ErrorIs(t, err, domain.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestItemUpdate_Diff(t *testing.T) {
	current := &domain.Item{
		Name:     "Printer Paper",
		Quantity: 50,
		Unit:     "ream",
		Category: "office",
		Type:     domain.MaterialConsumable,
	}

	name := "Printer Paper A4"
	qty := int64(45)
	update := domain.ItemUpdate{Name: &name, Quantity: &qty}

	diff := update.Diff(current)
	assert.Contains(t, diff, "name: Printer Paper -> Printer Paper A4")
	assert.Contains(t, diff, "quantity: 50 -> 45")

	// Unchanged fields produce no clauses
	same := domain.ItemUpdate{Unit: &current.Unit}
	assert.Empty(t, same.Diff(current))
	assert.True(t, domain.ItemUpdate{}.IsEmpty())
}
