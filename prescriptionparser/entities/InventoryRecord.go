package entities

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// InventoryRecord is a medication as stored by the pharmacy inventory.
type InventoryRecord struct {
	Name              string          `json:"name"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	QuantityAvailable int             `json:"quantityAvailable"`
}

// InStock reports whether at least one unit can be sold.
func (r InventoryRecord) InStock() bool {
	return r.QuantityAvailable > 0
}

// NameKey folds a medicine name for case-insensitive matching.
func NameKey(name string) string {
	// Casers keep state and cannot be shared between goroutines
	return cases.Fold().String(strings.TrimSpace(name))
}
