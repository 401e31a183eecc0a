// Package validation checks inventory records and the input the API receives.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/giygas/pharmacist-api/interfaces"
	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
)

// MaxInputLength caps the model output accepted for one order
const MaxInputLength = 64 * 1024

// Pre-compiled at package initialization and reused for all validations
var (
	// Medicine names: letters of any script, digits, spaces and the
	// punctuation found in strengths like "Co-Amoxiclav 500/125mg"
	nameRegex = regexp.MustCompile(`^[\p{L}\p{N}\s\-\.\+'/%,]+$`)

	// Substring matching is faster than regex for these
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"eval(", "expression(", "url(", "@import",
		// SQL injection patterns
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"--", "/*", "*/",
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://",
	}
)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateRecord checks if an inventory record is usable
func (v *DataValidatorImpl) ValidateRecord(r *entities.InventoryRecord) error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}

	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("empty medicine name")
	}

	if len(r.Name) > 200 {
		return fmt.Errorf("name too long for %.20s...: %d characters", r.Name, len(r.Name))
	}

	if r.UnitPrice.IsNegative() {
		return fmt.Errorf("negative price for %s: %s", r.Name, r.UnitPrice)
	}

	if r.QuantityAvailable < 0 {
		return fmt.Errorf("negative quantity for %s: %d", r.Name, r.QuantityAvailable)
	}

	return nil
}

// ReportDataQuality generates a data quality report with all issues found
func (v *DataValidatorImpl) ReportDataQuality(records []entities.InventoryRecord) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		TotalRecords:   len(records),
		DuplicateNames: []string{},
		NegativePrices: []string{},
	}

	// Each duplicated name is reported once, spelled as first seen
	seen := make(map[string]int, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Name) == "" {
			report.EmptyNames++
			continue
		}

		key := entities.NameKey(r.Name)
		seen[key]++
		if seen[key] == 2 {
			report.DuplicateNames = append(report.DuplicateNames, r.Name)
		}

		if r.UnitPrice.IsNegative() {
			report.NegativePrices = append(report.NegativePrices, r.Name)
		}

		if !r.InStock() {
			report.OutOfStock++
		}
	}

	return report
}

// ValidateInput validates the model output submitted for an order.
// The text is markdown, so only size and encoding are checked.
func (v *DataValidatorImpl) ValidateInput(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if len(text) > MaxInputLength {
		return fmt.Errorf("input too long: maximum %d bytes", MaxInputLength)
	}

	if !utf8.ValidString(text) {
		return fmt.Errorf("input must be valid UTF-8")
	}

	if strings.ContainsRune(text, 0) {
		return fmt.Errorf("input contains null bytes")
	}

	return nil
}

// ValidateName validates a medicine name used in a lookup URL
func (v *DataValidatorImpl) ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if utf8.RuneCountInString(name) < 2 {
		return fmt.Errorf("input too short: minimum 2 characters")
	}

	if len(name) > 100 {
		return fmt.Errorf("input too long: maximum 100 characters")
	}

	if len(strings.Fields(name)) > 8 {
		return fmt.Errorf("name too complex: maximum 8 words allowed")
	}

	lowerName := strings.ToLower(name)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerName, pattern) {
			return fmt.Errorf("input contains potentially dangerous content")
		}
	}

	if !nameRegex.MatchString(name) {
		return fmt.Errorf("input contains invalid characters. Only letters, numbers, spaces and - . + ' / %% , are allowed")
	}

	if hasExcessiveRepetition(name) {
		return fmt.Errorf("input contains excessive character repetition")
	}

	return nil
}

// hasExcessiveRepetition reports the same byte repeated more than 10 times in a row
func hasExcessiveRepetition(input string) bool {
	for i := 0; i < len(input)-10; i++ {
		allSame := true
		for j := 1; j <= 10; j++ {
			if input[i] != input[i+j] {
				allSame = false
				break
			}
		}
		if allSame {
			return true
		}
	}
	return false
}
