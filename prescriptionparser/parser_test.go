package prescriptionparser

import (
	"strings"
	"testing"

	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
)

func TestParseMedicines(t *testing.T) {
	parser := NewPrescriptionParser()

	entries, report := parser.ParseMedicines(sampleOutput)

	if !report.TableFound {
		t.Error("Expected table to be found")
	}
	if report.Rows != 2 || report.SkippedRows != 0 {
		t.Errorf("Unexpected report: %+v", report)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "Paracetamol" || entries[1].Name != "Amoxicillin" {
		t.Errorf("Entries out of source order: %+v", entries)
	}
}

func TestParseMedicinesNoTable(t *testing.T) {
	parser := NewPrescriptionParser()

	inputs := []string{
		"",
		"The image is not a prescription.",
		"| 1 | Paracetamol | 500mg | 2x/day | - | Valid |",
	}

	for _, input := range inputs {
		entries, report := parser.ParseMedicines(input)
		if entries == nil {
			t.Errorf("Expected empty slice, got nil for %q", input)
		}
		if len(entries) != 0 {
			t.Errorf("Expected no entries for %q, got %+v", input, entries)
		}
		if report.TableFound {
			t.Errorf("Expected no table for %q", input)
		}
	}
}

func TestParseTableSkipsMalformedRows(t *testing.T) {
	lines := []string{
		"| Serial No | Medicine | Dosage | Frequency | Notes | Valid/Invalid |",
		"|---|---|---|---|---|---|",
		"| 1 | Paracetamol | 500mg | 2x/day | - | Valid |",
		"| 2 | broken row |",
		"| 3 | Ibuprofen | 200mg | 1x/day | - | Invalid |",
		"|---|---|---|---|---|---|",
		"| 4 | Cetirizine | 10mg | 1x/day | - | ??? |",
	}

	entries, report := ParseTable(lines)

	if report.Rows != 4 {
		t.Errorf("Expected 4 rows, got %d", report.Rows)
	}
	if report.SkippedRows != 1 {
		t.Errorf("Expected 1 skipped row, got %d", report.SkippedRows)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if got := strings.Join(names, ","); got != "Paracetamol,Ibuprofen,Cetirizine" {
		t.Errorf("Unexpected entries: %s", got)
	}

	if entries[2].Validity != entities.ValidityUnknown {
		t.Errorf("Expected unknown validity, got %v", entries[2].Validity)
	}
}

func TestParseMedicinesDuplicateRows(t *testing.T) {
	text := "| Serial No | Medicine | Dosage | Frequency | Notes | Validity |\n" +
		"| 1 | Paracetamol | 500mg | 2x/day | - | Valid |\n" +
		"| 2 | Paracetamol | 500mg | 2x/day | - | Valid |"

	entries, _ := NewPrescriptionParser().ParseMedicines(text)
	if len(entries) != 2 {
		t.Errorf("Expected duplicate rows to stay separate entries, got %d", len(entries))
	}
}

func TestParseTableHeaderOnlyOnFirstLine(t *testing.T) {
	lines := []string{
		"| Serial No | Medicine | Dosage | Frequency | Notes | Valid/Invalid |",
		"|---|---|---|---|---|---|",
		"| 1 | Paracetamol | 500mg | 2x/day | - | Valid |",
		"| 2 | Serial medicine sampler | 1 pack | 1x/day | - | Valid |",
		"| Serial No | Medicine | Dosage | Frequency | Notes | Valid/Invalid |",
		"| 3 | Ibuprofen | 200mg | 1x/day | - | Valid |",
	}

	entries, report := ParseTable(lines)

	if report.Rows != 4 {
		t.Errorf("Expected 4 rows, got %d", report.Rows)
	}
	if report.SkippedRows != 1 {
		t.Errorf("Expected the repeated header counted as skipped, got %d", report.SkippedRows)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if got := strings.Join(names, ","); got != "Paracetamol,Serial medicine sampler,Ibuprofen" {
		t.Errorf("Unexpected entries: %s", got)
	}
	if report.Rows != len(entries)+report.SkippedRows {
		t.Errorf("Rows %d should equal entries %d plus skipped %d", report.Rows, len(entries), report.SkippedRows)
	}
}
