package entities

import "strings"

// Validity is the marking the upstream model gave a medicine row.
type Validity int

const (
	ValidityUnknown Validity = iota
	ValidityValid
	ValidityInvalid
)

// ParseValidity normalizes a validity cell case-insensitively.
// Anything other than "valid" or "invalid" is Unknown.
func ParseValidity(s string) Validity {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, "valid"):
		return ValidityValid
	case strings.EqualFold(s, "invalid"):
		return ValidityInvalid
	default:
		return ValidityUnknown
	}
}

// Orderable reports whether an entry with this marking is considered for the order.
// Invalid and Unknown entries never reach the inventory lookup.
func (v Validity) Orderable() bool {
	return v == ValidityValid
}

func (v Validity) String() string {
	switch v {
	case ValidityValid:
		return "Valid"
	case ValidityInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

func (v Validity) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// MedicineEntry is one parsed row of the prescription table.
type MedicineEntry struct {
	SerialNo  string   `json:"serialNo"`
	Name      string   `json:"name"`
	Dosage    string   `json:"dosage"`
	Frequency string   `json:"frequency"`
	Notes     string   `json:"notes"`
	Validity  Validity `json:"validity"`
}
