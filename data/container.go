// Package data provides thread-safe in-memory storage for the pharmacy inventory.
// The InventoryContainer swaps whole snapshots atomically so readers never see
// a half-loaded inventory.
package data

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/giygas/pharmacist-api/interfaces"
	"github.com/giygas/pharmacist-api/logging"
	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
)

// Compile-time check to ensure InventoryContainer implements InventorySnapshot
var _ interfaces.InventorySnapshot = (*InventoryContainer)(nil)

// ErrNotLoaded is returned by Ping before the first successful load
var ErrNotLoaded = errors.New("inventory not loaded")

// snapshot is one complete inventory, never mutated after it is stored
type snapshot struct {
	records []entities.InventoryRecord
	byName  map[string]entities.InventoryRecord
}

// InventoryContainer holds the inventory with atomic values for zero-downtime updates
type InventoryContainer struct {
	inventory   atomic.Value // *snapshot
	report      atomic.Value // *interfaces.DataQualityReport
	lastUpdated atomic.Value // time.Time
	updating    atomic.Bool
}

// NewInventoryContainer creates a new InventoryContainer with an empty inventory
func NewInventoryContainer() *InventoryContainer {
	ic := &InventoryContainer{}
	ic.inventory.Store(&snapshot{
		records: make([]entities.InventoryRecord, 0),
		byName:  make(map[string]entities.InventoryRecord),
	})
	ic.report.Store(&interfaces.DataQualityReport{})
	ic.lastUpdated.Store(time.Time{})
	return ic
}

func (ic *InventoryContainer) current() *snapshot {
	if v := ic.inventory.Load(); v != nil {
		if snap, ok := v.(*snapshot); ok && snap != nil {
			return snap
		}
	}

	logging.Warn("Inventory snapshot is empty or invalid")
	return &snapshot{byName: make(map[string]entities.InventoryRecord)}
}

// LookupByName finds a record by name, ignoring case and surrounding spaces
func (ic *InventoryContainer) LookupByName(_ context.Context, name string) (entities.InventoryRecord, bool, error) {
	record, ok := ic.current().byName[entities.NameKey(name)]
	return record, ok, nil
}

// ListRecords returns the records in load order. Callers must not modify the slice.
func (ic *InventoryContainer) ListRecords(_ context.Context) ([]entities.InventoryRecord, error) {
	return ic.current().records, nil
}

// Ping fails until an inventory has been loaded
func (ic *InventoryContainer) Ping(_ context.Context) error {
	if ic.GetLastUpdated().IsZero() {
		return ErrNotLoaded
	}
	return nil
}

// GetDataQualityReport returns the report computed for the current inventory
func (ic *InventoryContainer) GetDataQualityReport() *interfaces.DataQualityReport {
	if v := ic.report.Load(); v != nil {
		if report, ok := v.(*interfaces.DataQualityReport); ok && report != nil {
			return report
		}
	}
	return &interfaces.DataQualityReport{}
}

// GetLastUpdated returns the timestamp of the last data update
func (ic *InventoryContainer) GetLastUpdated() time.Time {
	if v := ic.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a data update is currently in progress
func (ic *InventoryContainer) IsUpdating() bool {
	return ic.updating.Load()
}

// UpdateData atomically replaces the inventory. When a name appears more
// than once the first record wins the lookup.
func (ic *InventoryContainer) UpdateData(records []entities.InventoryRecord, report *interfaces.DataQualityReport) {
	if records == nil {
		records = make([]entities.InventoryRecord, 0)
	}

	byName := make(map[string]entities.InventoryRecord, len(records))
	for _, record := range records {
		key := entities.NameKey(record.Name)
		if _, exists := byName[key]; !exists {
			byName[key] = record
		}
	}

	if report == nil {
		report = &interfaces.DataQualityReport{TotalRecords: len(records)}
	}

	// Atomic swap (zero downtime replacement)
	ic.inventory.Store(&snapshot{records: records, byName: byName})
	ic.report.Store(report)
	ic.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a data update operation
// Returns true if update can proceed, false if another update is in progress
func (ic *InventoryContainer) BeginUpdate() bool {
	return ic.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a data update operation
func (ic *InventoryContainer) EndUpdate() {
	ic.updating.Store(false)
}
