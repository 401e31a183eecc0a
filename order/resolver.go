// Package order resolves parsed prescription entries against the inventory,
// aggregates them into an order summary and renders the textual report.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/giygas/pharmacist-api/interfaces"
	"github.com/giygas/pharmacist-api/metrics"
	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent inventory lookups when none is configured
const DefaultWorkers = 4

// Resolution is the inventory outcome for one entry.
type Resolution struct {
	Entry  entities.MedicineEntry
	Record entities.InventoryRecord
	Stock  entities.Availability
}

// Resolver looks entries up in the inventory on a bounded worker pool.
type Resolver struct {
	lookup  interfaces.InventoryLookup
	workers int
}

// NewResolver creates a resolver; workers <= 0 falls back to DefaultWorkers
func NewResolver(lookup interfaces.InventoryLookup, workers int) *Resolver {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Resolver{
		lookup:  lookup,
		workers: workers,
	}
}

// Resolve looks every entry up and returns the outcomes in input order.
// Entries naming the same medicine share one lookup, so a changing inventory
// cannot give them different outcomes. The first lookup error cancels the
// remaining lookups and is returned.
func (r *Resolver) Resolve(ctx context.Context, entries []entities.MedicineEntry) ([]Resolution, error) {
	slots := make([]int, len(entries))
	index := make(map[string]int, len(entries))
	names := make([]string, 0, len(entries))
	for i, entry := range entries {
		key := entities.NameKey(entry.Name)
		slot, seen := index[key]
		if !seen {
			slot = len(names)
			index[key] = slot
			names = append(names, entry.Name)
		}
		slots[i] = slot
	}

	outcomes := make([]lookupOutcome, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, name := range names {
		g.Go(func() error {
			start := time.Now()
			record, found, err := r.lookup.LookupByName(gctx, name)
			metrics.InventoryLookupDuration.Observe(time.Since(start).Seconds())
			if err != nil {
				return fmt.Errorf("inventory lookup for %q: %w", name, err)
			}

			// Each goroutine owns outcomes[i]
			outcomes[i] = lookupOutcome{record: record, found: found}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]Resolution, len(entries))
	for i, entry := range entries {
		outcome := outcomes[slots[i]]
		results[i] = Resolution{
			Entry:  entry,
			Record: outcome.record,
			Stock:  entities.AvailabilityOf(outcome.record, outcome.found),
		}
	}

	return results, nil
}

type lookupOutcome struct {
	record entities.InventoryRecord
	found  bool
}
