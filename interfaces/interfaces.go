// Package interfaces defines core abstractions for the pharmacist API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
)

// DataQualityReport provides a summary of inventory data quality issues
type DataQualityReport struct {
	TotalRecords   int
	DuplicateNames []string // Names present more than once after case folding
	NegativePrices []string
	EmptyNames     int
	OutOfStock     int
}

// ParseReport describes what the parser found in one model output
type ParseReport struct {
	TableFound  bool
	Rows        int // Rows seen after the header, separators excluded
	SkippedRows int
}

// Parser defines the contract for turning model output into medicine entries.
type Parser interface {
	// ParseMedicines extracts and parses the medicine table. It never fails.
	ParseMedicines(text string) ([]entities.MedicineEntry, ParseReport)
}

// InventoryLookup is the read-only, name-keyed view of the pharmacy inventory.
// Names match exactly, ignoring case.
type InventoryLookup interface {
	LookupByName(ctx context.Context, name string) (entities.InventoryRecord, bool, error)
}

// InventoryStore is an inventory backend the API can serve from.
type InventoryStore interface {
	InventoryLookup
	ListRecords(ctx context.Context) ([]entities.InventoryRecord, error)
	Ping(ctx context.Context) error
}

// InventorySnapshot is an in-memory inventory replaced atomically on refresh.
type InventorySnapshot interface {
	InventoryStore

	GetLastUpdated() time.Time
	IsUpdating() bool
	GetDataQualityReport() *DataQualityReport

	UpdateData(records []entities.InventoryRecord, report *DataQualityReport)
	BeginUpdate() bool
	EndUpdate()
}

// InventoryLoader reads a complete inventory from its source.
type InventoryLoader interface {
	LoadInventory(ctx context.Context) ([]entities.InventoryRecord, error)
}

// PrescriptionImage is one photographed prescription page sent to a model
type PrescriptionImage struct {
	Data     []byte
	MIMEType string
}

// TextGenerator reads prescription images and answers with the model text
// that holds the medicine table.
type TextGenerator interface {
	GenerateText(ctx context.Context, images []PrescriptionImage) (string, error)
}

// OrderProcessor runs the whole prescription pipeline for one model output.
type OrderProcessor interface {
	Process(ctx context.Context, text string) (*entities.OrderResult, error)
}

// HTTPHandler defines the contract for the HTTP endpoints.
type HTTPHandler interface {
	ProcessPrescription(w http.ResponseWriter, r *http.Request)
	ServeInventory(w http.ResponseWriter, r *http.Request)
	FindInventoryRecord(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// Scheduler defines the contract for job scheduling and health monitoring.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns the status word, details and the HTTP code to answer with
	HealthCheck(ctx context.Context) (status string, details map[string]any, httpStatus int)
}

// DataValidator defines the contract for data validation operations.
type DataValidator interface {
	// ValidateRecord checks if an inventory record is usable
	ValidateRecord(r *entities.InventoryRecord) error

	// ReportDataQuality generates a data quality report with all issues found
	ReportDataQuality(records []entities.InventoryRecord) *DataQualityReport

	// ValidateInput validates the model text submitted for an order
	ValidateInput(text string) error

	// ValidateName validates a medicine name used in a lookup URL
	ValidateName(name string) error
}
