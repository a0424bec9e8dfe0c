// internal/core/domain/item.go
package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaterialType classifies catalog items
type MaterialType string

// Material type constants
const (
	MaterialConsumable MaterialType = "consumable"
	MaterialDurable    MaterialType = "durable"
)

// Item represents a single stock-keeping unit in the catalog.
// Quantity is mutated only through ledger transactions or an explicit
// admin edit, which itself emits an audit movement.
type Item struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	NameLowercase  string       `json:"name_lowercase"`
	Code           string       `json:"code"`
	Patrimony      string       `json:"patrimony,omitempty"`
	Type           MaterialType `json:"type"`
	Quantity       int64        `json:"quantity"`
	Unit           string       `json:"unit"`
	Category       string       `json:"category"`
	IsPerishable   bool         `json:"is_perishable"`
	ExpirationDate *time.Time   `json:"expiration_date,omitempty"`
	ImageURL       string       `json:"image_url,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Validate performs domain validation on the item
func (i *Item) Validate() error {
	if i.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if i.Unit == "" {
		return &ValidationError{Field: "unit", Reason: "is required"}
	}
	if i.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "cannot be negative"}
	}
	switch i.Type {
	case MaterialConsumable, MaterialDurable:
	case "":
		i.Type = MaterialConsumable
	default:
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown material type %q", i.Type)}
	}
	if i.Patrimony != "" && i.Type != MaterialDurable {
		return &ValidationError{Field: "patrimony", Reason: "only durable items carry an asset tag"}
	}
	return nil
}

// PrepareForStorage assigns identity and derived fields before persistence
func (i *Item) PrepareForStorage() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}

	i.NameLowercase = strings.ToLower(i.Name)

	now := time.Now()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now
}

// ItemUpdate carries a partial catalog edit. Nil fields are left untouched.
type ItemUpdate struct {
	Name           *string       `json:"name,omitempty"`
	Patrimony      *string       `json:"patrimony,omitempty"`
	Type           *MaterialType `json:"type,omitempty"`
	Quantity       *int64        `json:"quantity,omitempty"`
	Unit           *string       `json:"unit,omitempty"`
	Category       *string       `json:"category,omitempty"`
	IsPerishable   *bool         `json:"is_perishable,omitempty"`
	ExpirationDate *time.Time    `json:"expiration_date,omitempty"`
	ImageURL       *string       `json:"image_url,omitempty"`
}

// Validate checks the fields an update carries; nil fields are not judged.
func (u ItemUpdate) Validate() error {
	if u.Name != nil && *u.Name == "" {
		return &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if u.Unit != nil && *u.Unit == "" {
		return &ValidationError{Field: "unit", Reason: "cannot be empty"}
	}
	if u.Quantity != nil && *u.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "cannot be negative"}
	}
	if u.Type != nil {
		switch *u.Type {
		case MaterialConsumable, MaterialDurable:
		default:
			return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown material type %q", *u.Type)}
		}
	}
	return nil
}

// IsEmpty reports whether the update carries no fields
func (u ItemUpdate) IsEmpty() bool {
	return u.Name == nil && u.Patrimony == nil && u.Type == nil &&
		u.Quantity == nil && u.Unit == nil && u.Category == nil &&
		u.IsPerishable == nil && u.ExpirationDate == nil && u.ImageURL == nil
}

// Diff describes the fields an update would change on the current item,
// one "field: old -> new" clause per change. The result feeds the audit
// movement recorded alongside an admin edit.
func (u ItemUpdate) Diff(current *Item) string {
	var changes []string

	if u.Name != nil && *u.Name != current.Name {
		changes = append(changes, fmt.Sprintf("name: %s -> %s", current.Name, *u.Name))
	}
	if u.Patrimony != nil && *u.Patrimony != current.Patrimony {
		changes = append(changes, fmt.Sprintf("patrimony: %s -> %s", current.Patrimony, *u.Patrimony))
	}
	if u.Type != nil && *u.Type != current.Type {
		changes = append(changes, fmt.Sprintf("type: %s -> %s", current.Type, *u.Type))
	}
	if u.Quantity != nil && *u.Quantity != current.Quantity {
		changes = append(changes, fmt.Sprintf("quantity: %d -> %d", current.Quantity, *u.Quantity))
	}
	if u.Unit != nil && *u.Unit != current.Unit {
		changes = append(changes, fmt.Sprintf("unit: %s -> %s", current.Unit, *u.Unit))
	}
	if u.Category != nil && *u.Category != current.Category {
		changes = append(changes, fmt.Sprintf("category: %s -> %s", current.Category, *u.Category))
	}
	if u.IsPerishable != nil && *u.IsPerishable != current.IsPerishable {
		changes = append(changes, fmt.Sprintf("is_perishable: %t -> %t", current.IsPerishable, *u.IsPerishable))
	}
	if u.ExpirationDate != nil {
		old := "none"
		if current.ExpirationDate != nil {
			old = current.ExpirationDate.Format("2006-01-02")
		}
		if current.ExpirationDate == nil || !u.ExpirationDate.Equal(*current.ExpirationDate) {
			changes = append(changes, fmt.Sprintf("expiration_date: %s -> %s", old, u.ExpirationDate.Format("2006-01-02")))
		}
	}
	if u.ImageURL != nil && *u.ImageURL != current.ImageURL {
		changes = append(changes, "image updated")
	}

	return strings.Join(changes, "; ")
}

// ItemFilter narrows catalog listings. A non-empty SearchTerm returns the
// union of items whose lowercase name has the lowercased term as a prefix
// and items whose code equals the raw term, deduplicated by id.
type ItemFilter struct {
	SearchTerm   string
	MaterialType MaterialType
}

// NextCode derives the next sequential item code for a prefix from the
// lexicographically greatest existing code. Codes take the form
// "PREFIX-NNN" with a zero-padded 3-digit suffix; an empty lastCode
// starts the sequence at 001. Two concurrent generations for the same
// prefix can return the same code; the catalog does not enforce code
// uniqueness beyond this sequence.
func NextCode(prefix, lastCode string) string {
	if lastCode == "" {
		return fmt.Sprintf("%s-001", prefix)
	}

	parts := strings.Split(lastCode, "-")
	last, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		last = 0
	}

	return fmt.Sprintf("%s-%03d", prefix, last+1)
}
