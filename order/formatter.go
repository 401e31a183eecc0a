package order

import (
	"fmt"
	"strings"

	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
	"github.com/shopspring/decimal"
)

// NoAvailableMedicines replaces the order table when nothing can be ordered
const NoAvailableMedicines = "**No available medicines.**"

// Render formats the summary as the markdown report shown to the pharmacist.
// The same summary always renders to the same text.
func Render(summary entities.OrderSummary) string {
	var b strings.Builder

	if len(summary.Lines) == 0 {
		b.WriteString(NoAvailableMedicines)
	} else {
		b.WriteString("**Generated Order:**\n\n")
		b.WriteString("| # | Medicine | Dosage | Frequency | Quantity | Price |\n")
		b.WriteString("|---|----------|--------|-----------|----------|-------|\n")

		for i, line := range summary.Lines {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %d | %s |\n",
				i+1, line.Name, line.Dosage, line.Frequency, line.Quantity, FormatPrice(line.LineTotal))
		}

		fmt.Fprintf(&b, "\n**Total Price: %s**\n", FormatPrice(summary.Total))
	}

	if len(summary.Unavailable) > 0 {
		b.WriteString("\n**Unavailable Medicines:**\n")
		for _, name := range summary.Unavailable {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}

	return b.String()
}

// FormatPrice renders an amount in dollars with exactly two decimals
func FormatPrice(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
