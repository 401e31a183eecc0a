package order

import (
	"fmt"

	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
	"github.com/shopspring/decimal"
)

// NewResolvedLine prices one unit of an in-stock medicine. The unit price is
// rounded to cents so the rendered lines add up to the rendered total.
func NewResolvedLine(entry entities.MedicineEntry, record entities.InventoryRecord) entities.ResolvedLine {
	const quantity = 1
	unitPrice := record.UnitPrice.Round(2)
	return entities.ResolvedLine{
		Name:      entry.Name,
		Dosage:    entry.Dosage,
		Frequency: entry.Frequency,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		LineTotal: unitPrice.Mul(decimal.NewFromInt(quantity)),
	}
}

// BuildSummary splits resolutions into order lines and unavailable names,
// keeping their order, and totals the lines.
func BuildSummary(resolutions []Resolution) entities.OrderSummary {
	summary := entities.OrderSummary{
		Lines:       make([]entities.ResolvedLine, 0, len(resolutions)),
		Total:       decimal.Zero,
		Unavailable: make([]string, 0),
	}

	for _, res := range resolutions {
		if res.Stock != entities.InStock {
			summary.Unavailable = append(summary.Unavailable, res.Entry.Name)
			continue
		}

		line := NewResolvedLine(res.Entry, res.Record)
		summary.Lines = append(summary.Lines, line)
		summary.Total = summary.Total.Add(line.LineTotal)
	}

	mustBeConsistent(summary)
	return summary
}

// mustBeConsistent panics when the summary breaks its pricing or membership rules.
func mustBeConsistent(summary entities.OrderSummary) {
	if err := CheckSummary(summary); err != nil {
		panic(fmt.Sprintf("order summary invariant violated: %v", err))
	}
}

// CheckSummary verifies line totals, the order total and that no name is
// both ordered and unavailable.
func CheckSummary(summary entities.OrderSummary) error {
	total := decimal.Zero
	ordered := make(map[string]struct{}, len(summary.Lines))

	for i, line := range summary.Lines {
		expected := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		if !line.LineTotal.Equal(expected) {
			return fmt.Errorf("line %d (%s): total %s, expected %s", i+1, line.Name, line.LineTotal, expected)
		}
		total = total.Add(line.LineTotal)
		ordered[line.Name] = struct{}{}
	}

	if !total.Equal(summary.Total) {
		return fmt.Errorf("order total %s, lines sum to %s", summary.Total, total)
	}

	for _, name := range summary.Unavailable {
		if _, ok := ordered[name]; ok {
			return fmt.Errorf("%s is both ordered and unavailable", name)
		}
	}

	return nil
}
