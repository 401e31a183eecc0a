// Package prescriptionparser extracts the medicine table from the free-form text
// returned by the prescription reading model and parses its rows into entries.
package prescriptionparser

import "strings"

// LineKind classifies one line of model output.
type LineKind int

const (
	LineText LineKind = iota
	LineBlank
	LineHeader
	LineSeparator
	LineData
)

const columnDelimiter = "|"

// Header cells the model uses for the serial number column
var serialTokens = []string{"serial", "s.no", "s. no", "sr no", "sr. no", "sl no", "sl. no"}

// ClassifyLine places a line in the table grammar:
// header, separator (only dashes, pipes, colons), data row, blank or plain text.
func ClassifyLine(line string) LineKind {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return LineBlank
	}

	if isSeparator(trimmed) {
		return LineSeparator
	}

	if !strings.Contains(trimmed, columnDelimiter) {
		return LineText
	}

	if isHeader(trimmed) {
		return LineHeader
	}

	return LineData
}

func isSeparator(trimmed string) bool {
	if !strings.Contains(trimmed, "-") {
		return false
	}
	for _, r := range trimmed {
		switch r {
		case '-', '|', ':', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

func isHeader(trimmed string) bool {
	lower := strings.ToLower(trimmed)
	if !strings.Contains(lower, "medicine") {
		return false
	}
	return hasSerialToken(lower)
}

// hasSerialToken reports whether text names the serial number column
func hasSerialToken(text string) bool {
	lower := strings.ToLower(text)
	for _, token := range serialTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// ExtractTable returns the lines of the medicine table, header and separator
// included, in source order. The table starts at the first header line and
// stops at the first blank line after it. Text without a header yields nil.
func ExtractTable(text string) []string {
	var table []string
	started := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		kind := ClassifyLine(line)

		if !started {
			if kind == LineHeader {
				started = true
				table = append(table, line)
			}
			continue
		}

		if kind == LineBlank {
			break
		}
		table = append(table, line)
	}

	return table
}
