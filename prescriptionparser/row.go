package prescriptionparser

import (
	"strings"

	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
)

// Serial No | Medicine | Dosage | Frequency | Notes | Valid/Invalid
const minColumns = 6

// ParseRow converts one table row into a MedicineEntry.
// Separator rows, rows with fewer than six non-empty cells and rows
// without a medicine name are rejected.
func ParseRow(row string) (entities.MedicineEntry, bool) {
	if ClassifyLine(row) == LineSeparator {
		return entities.MedicineEntry{}, false
	}

	fields := splitRow(row)

	nonEmpty := 0
	for _, f := range fields {
		if f != "" {
			nonEmpty++
		}
	}
	if nonEmpty < minColumns {
		return entities.MedicineEntry{}, false
	}

	entry := entities.MedicineEntry{
		SerialNo:  fields[0],
		Name:      fields[1],
		Dosage:    fields[2],
		Frequency: fields[3],
		Notes:     fields[4],
		Validity:  entities.ParseValidity(fields[5]),
	}
	if entry.Name == "" {
		return entities.MedicineEntry{}, false
	}

	return entry, true
}

// splitRow splits on the delimiter and trims every cell. The empty cells
// produced by a leading or trailing delimiter are dropped.
func splitRow(row string) []string {
	fields := strings.Split(strings.TrimSpace(row), columnDelimiter)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	if len(fields) > 0 && fields[0] == "" {
		fields = fields[1:]
	}
	if len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}

	return fields
}
