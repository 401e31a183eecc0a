package prescriptionparser

import (
	"github.com/giygas/pharmacist-api/interfaces"
	"github.com/giygas/pharmacist-api/logging"
	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
)

// Compile-time check to ensure PrescriptionParser implements Parser interface
var _ interfaces.Parser = (*PrescriptionParser)(nil)

// PrescriptionParser implements the Parser interface
type PrescriptionParser struct{}

// NewPrescriptionParser creates a new PrescriptionParser instance
func NewPrescriptionParser() *PrescriptionParser {
	return &PrescriptionParser{}
}

// ParseMedicines extracts the medicine table from the model output and parses its rows.
// It never fails: a missing table gives an empty result and bad rows are skipped.
func (p *PrescriptionParser) ParseMedicines(text string) ([]entities.MedicineEntry, interfaces.ParseReport) {
	table := ExtractTable(text)
	if len(table) == 0 {
		logging.Warn("No medicine table found in model output", "text_length", len(text))
		return []entities.MedicineEntry{}, interfaces.ParseReport{}
	}

	entries, report := ParseTable(table)
	report.TableFound = true
	return entries, report
}

// ParseTable parses extracted table lines, skipping the header, separators and
// malformed rows. Only the first line can be the header. A later line that
// repeats the header counts as a skipped row, any other line is parsed as data
// even when it mentions a serial number and a medicine.
func ParseTable(lines []string) ([]entities.MedicineEntry, interfaces.ParseReport) {
	entries := make([]entities.MedicineEntry, 0, len(lines))
	report := interfaces.ParseReport{}
	skippedSeparators := 0

	for i, line := range lines {
		kind := ClassifyLine(line)
		switch kind {
		case LineHeader:
			if i == 0 {
				continue
			}
		case LineSeparator:
			skippedSeparators++
			continue
		}

		report.Rows++
		entry, ok := ParseRow(line)
		if !ok {
			report.SkippedRows++
			logging.Debug("Skipping malformed prescription row", "row", line)
			continue
		}
		if kind == LineHeader && hasSerialToken(entry.SerialNo) {
			report.SkippedRows++
			logging.Debug("Skipping repeated prescription header", "row", line)
			continue
		}

		entries = append(entries, entry)
	}

	if report.SkippedRows > 0 || skippedSeparators > 0 {
		logging.Info("Prescription table skip statistics",
			"separators", skippedSeparators,
			"malformed_rows", report.SkippedRows,
			"total_rows", report.Rows,
			"entries_parsed", len(entries))
	}

	return entries, report
}
