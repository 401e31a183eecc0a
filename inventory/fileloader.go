// Package inventory reads the pharmacy inventory from its backends: a TSV
// export from disk or over HTTP, or the medications table in PostgreSQL.
package inventory

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/giygas/pharmacist-api/interfaces"
	"github.com/giygas/pharmacist-api/logging"
	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// Compile-time check to ensure FileLoader implements InventoryLoader interface
var _ interfaces.InventoryLoader = (*FileLoader)(nil)

// FileLoader loads an inventory export with one name<TAB>price<TAB>quantity
// record per line. A header line is skipped.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader for the TSV file at path
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// LoadInventory reads and parses the whole file. Malformed lines are
// skipped and counted; only an unreadable file is an error.
func (l *FileLoader) LoadInventory(ctx context.Context) ([]entities.InventoryRecord, error) {
	content, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory file %s: %w", l.path, err)
	}

	return ParseInventory(ctx, bytes.NewReader(content))
}

// ParseInventory parses TSV inventory data. Exports from the old till system
// are ISO-8859-1, so input that is not valid UTF-8 is decoded from it.
func ParseInventory(ctx context.Context, r io.Reader) ([]entities.InventoryRecord, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory data: %w", err)
	}

	var reader io.Reader
	if utf8.Valid(raw) {
		reader = bytes.NewReader(raw)
	} else {
		reader = charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(raw))
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	records := make([]entities.InventoryRecord, 0)
	lineCount := 0
	skippedEmptyLines := 0
	skippedMissingColumns := 0
	skippedFormatErrors := 0

	for scanner.Scan() {
		if lineCount%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		lineCount++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			skippedEmptyLines++
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			skippedMissingColumns++
			continue
		}

		if lineCount == 1 && isHeader(fields) {
			continue
		}

		record, err := parseRecord(fields)
		if err != nil {
			skippedFormatErrors++
			logging.Debug("Skipping inventory line", "line", lineCount, "error", err)
			continue
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error in inventory data: %w", err)
	}

	if skippedEmptyLines > 0 || skippedMissingColumns > 0 || skippedFormatErrors > 0 {
		logging.Info("Inventory file skip statistics",
			"empty_lines", skippedEmptyLines,
			"missing_columns", skippedMissingColumns,
			"format_errors", skippedFormatErrors,
			"total_lines", lineCount,
			"records_parsed", len(records))
	}

	return records, nil
}

func isHeader(fields []string) bool {
	return strings.EqualFold(strings.TrimSpace(fields[0]), "name")
}

func parseRecord(fields []string) (entities.InventoryRecord, error) {
	name := strings.TrimSpace(fields[0])
	if name == "" {
		return entities.InventoryRecord{}, fmt.Errorf("empty name")
	}

	price, err := ParsePrice(fields[1])
	if err != nil {
		return entities.InventoryRecord{}, err
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return entities.InventoryRecord{}, fmt.Errorf("invalid quantity %q: %w", fields[2], err)
	}

	return entities.InventoryRecord{
		Name:              name,
		UnitPrice:         price,
		QuantityAvailable: quantity,
	}, nil
}

// ParsePrice reads a price written with a dot or a comma as decimal separator.
// When several commas appear, all but the last are thousands separators.
// An empty price is zero. Prices are rounded to cents.
func ParsePrice(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}

	if numCommas := strings.Count(value, ","); numCommas > 0 {
		if strings.Contains(value, ".") {
			// 1,234.50
			value = strings.ReplaceAll(value, ",", "")
		} else {
			value = strings.Replace(value, ",", "", numCommas-1)
			value = strings.Replace(value, ",", ".", 1)
		}
	}

	price, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price value '%s': %w", value, err)
	}
	return price.Round(2), nil
}
