package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
)

func TestResolveKeepsInputOrder(t *testing.T) {
	lookup := newMockLookup(
		record("paracetamol", "2.50", 10),
		record("ibuprofen", "3.00", 0),
	).withDelay(5 * time.Millisecond)

	entries := []entities.MedicineEntry{
		validEntry("1", "Paracetamol"),
		validEntry("2", "Ibuprofen"),
		validEntry("3", "Unobtainium"),
	}

	results, err := NewResolver(lookup, 3).Resolve(context.Background(), entries)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := []entities.Availability{entities.InStock, entities.OutOfStock, entities.NotInDatabase}
	if len(results) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(results))
	}
	for i, res := range results {
		if res.Entry.Name != entries[i].Name {
			t.Errorf("Result %d is %s, want %s", i, res.Entry.Name, entries[i].Name)
		}
		if res.Stock != want[i] {
			t.Errorf("Result %d stock = %v, want %v", i, res.Stock, want[i])
		}
	}
}

func TestResolveSharesLookupForRepeatedNames(t *testing.T) {
	lookup := &sellingLookup{record: record("Amoxicillin", "4.20", 1)}

	entries := []entities.MedicineEntry{
		validEntry("1", "Amoxicillin"),
		validEntry("2", "  amoxicillin "),
		validEntry("3", "AMOXICILLIN"),
	}

	results, err := NewResolver(lookup, 3).Resolve(context.Background(), entries)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if got := lookup.calls.Load(); got != 1 {
		t.Errorf("Expected 1 lookup for one medicine, got %d", got)
	}
	for i, res := range results {
		if res.Entry.Name != entries[i].Name {
			t.Errorf("Result %d is %q, want %q", i, res.Entry.Name, entries[i].Name)
		}
		if res.Stock != entities.InStock {
			t.Errorf("Result %d stock = %v, want In Stock", i, res.Stock)
		}
	}
}

func TestResolveBoundsConcurrency(t *testing.T) {
	lookup := newMockLookup().withDelay(10 * time.Millisecond)

	entries := make([]entities.MedicineEntry, 20)
	for i := range entries {
		entries[i] = validEntry(fmt.Sprint(i+1), fmt.Sprintf("med-%d", i))
	}

	if _, err := NewResolver(lookup, 3).Resolve(context.Background(), entries); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if got := lookup.calls.Load(); got != 20 {
		t.Errorf("Expected 20 lookups, got %d", got)
	}
	if peak := lookup.peak.Load(); peak > 3 {
		t.Errorf("Expected at most 3 concurrent lookups, got %d", peak)
	}
}

func TestResolveLookupError(t *testing.T) {
	dbErr := errors.New("connection refused")
	lookup := newMockLookup(record("paracetamol", "2.50", 10)).withError("Broken", dbErr)

	entries := []entities.MedicineEntry{
		validEntry("1", "Paracetamol"),
		validEntry("2", "Broken"),
	}

	results, err := NewResolver(lookup, 2).Resolve(context.Background(), entries)
	if err == nil {
		t.Fatal("Expected lookup error")
	}
	if !errors.Is(err, dbErr) {
		t.Errorf("Expected wrapped lookup error, got %v", err)
	}
	if !strings.Contains(err.Error(), `"Broken"`) {
		t.Errorf("Expected medicine name in error, got %v", err)
	}
	if results != nil {
		t.Errorf("Expected no partial results, got %+v", results)
	}
}

func TestResolveCancelledContext(t *testing.T) {
	lookup := newMockLookup().withDelay(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewResolver(lookup, 1).Resolve(ctx, []entities.MedicineEntry{validEntry("1", "A")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestResolveEmpty(t *testing.T) {
	results, err := NewResolver(newMockLookup(), 0).Resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestNewResolverDefaultsWorkers(t *testing.T) {
	if r := NewResolver(newMockLookup(), -1); r.workers != DefaultWorkers {
		t.Errorf("Expected %d workers, got %d", DefaultWorkers, r.workers)
	}
}
