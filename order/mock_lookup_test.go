package order

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
	"github.com/shopspring/decimal"
)

// mockLookup is a name-keyed inventory for tests
type mockLookup struct {
	records  map[string]entities.InventoryRecord
	errs     map[string]error
	delay    time.Duration
	calls    atomic.Int32
	inFlight atomic.Int32
	peak     atomic.Int32
}

func newMockLookup(records ...entities.InventoryRecord) *mockLookup {
	m := &mockLookup{
		records: make(map[string]entities.InventoryRecord),
		errs:    make(map[string]error),
	}
	for _, r := range records {
		m.records[strings.ToLower(r.Name)] = r
	}
	return m
}

func (m *mockLookup) withError(name string, err error) *mockLookup {
	m.errs[strings.ToLower(name)] = err
	return m
}

func (m *mockLookup) withDelay(d time.Duration) *mockLookup {
	m.delay = d
	return m
}

func (m *mockLookup) LookupByName(ctx context.Context, name string) (entities.InventoryRecord, bool, error) {
	m.calls.Add(1)
	current := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.peak.Load()
		if current <= peak || m.peak.CompareAndSwap(peak, current) {
			break
		}
	}

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return entities.InventoryRecord{}, false, ctx.Err()
		}
	}

	key := strings.ToLower(name)
	if err, ok := m.errs[key]; ok {
		return entities.InventoryRecord{}, false, err
	}
	record, ok := m.records[key]
	return record, ok, nil
}

func record(name, price string, quantity int) entities.InventoryRecord {
	return entities.InventoryRecord{
		Name:              name,
		UnitPrice:         decimal.RequireFromString(price),
		QuantityAvailable: quantity,
	}
}

func validEntry(serial, name string) entities.MedicineEntry {
	return entities.MedicineEntry{
		SerialNo:  serial,
		Name:      name,
		Dosage:    "1 tab",
		Frequency: "1x/day",
		Notes:     "-",
		Validity:  entities.ValidityValid,
	}
}

// sellingLookup hands out its last unit: the first lookup sees it in stock,
// every later one sees it sold out.
type sellingLookup struct {
	record entities.InventoryRecord
	calls  atomic.Int32
}

func (s *sellingLookup) LookupByName(_ context.Context, name string) (entities.InventoryRecord, bool, error) {
	if !strings.EqualFold(strings.TrimSpace(name), s.record.Name) {
		return entities.InventoryRecord{}, false, nil
	}
	r := s.record
	if s.calls.Add(1) > 1 {
		r.QuantityAvailable = 0
	}
	return r, true, nil
}
