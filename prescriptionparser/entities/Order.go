package entities

import "github.com/shopspring/decimal"

// ResolvedLine is a medicine confirmed available and priced.
type ResolvedLine struct {
	Name      string          `json:"name"`
	Dosage    string          `json:"dosage"`
	Frequency string          `json:"frequency"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// OrderSummary is the aggregate of one prescription run.
// Lines and Unavailable keep the row order of the source table.
type OrderSummary struct {
	Lines       []ResolvedLine  `json:"lines"`
	Total       decimal.Decimal `json:"total"`
	Unavailable []string        `json:"unavailable"`
}

// Availability is the stock status of one medicine after the inventory lookup.
type Availability int

const (
	NotChecked Availability = iota
	InStock
	OutOfStock
	NotInDatabase
)

func (a Availability) String() string {
	switch a {
	case InStock:
		return "In Stock"
	case OutOfStock:
		return "Out of Stock"
	case NotInDatabase:
		return "Not in Database"
	default:
		return "Not Checked"
	}
}

func (a Availability) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// AvailabilityOf maps a lookup outcome to a stock status.
func AvailabilityOf(record InventoryRecord, found bool) Availability {
	switch {
	case !found:
		return NotInDatabase
	case !record.InStock():
		return OutOfStock
	default:
		return InStock
	}
}

// MedicineStatus pairs a parsed entry with what the inventory said about it.
type MedicineStatus struct {
	MedicineEntry
	Stock Availability `json:"stock"`
}

// OrderResult is everything one prescription run produces.
type OrderResult struct {
	Summary   OrderSummary     `json:"order"`
	Rendered  string           `json:"response"`
	Medicines []MedicineStatus `json:"medicines"`
}
