// Package scheduler keeps the in-memory inventory snapshot fresh. It loads the
// inventory at startup, reloads it on a fixed interval with gocron and warns
// when the snapshot goes stale.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/giygas/pharmacist-api/interfaces"
	"github.com/giygas/pharmacist-api/logging"
	"github.com/giygas/pharmacist-api/metrics"
	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

const loadTimeout = 2 * time.Minute

// Scheduler handles inventory reloads and staleness monitoring using dependency injection
type Scheduler struct {
	store     interfaces.InventorySnapshot
	loader    interfaces.InventoryLoader
	validator interfaces.DataValidator
	interval  time.Duration
	scheduler *gocron.Scheduler
	stop      chan struct{}
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(store interfaces.InventorySnapshot, loader interfaces.InventoryLoader,
	validator interfaces.DataValidator, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Scheduler{
		store:     store,
		loader:    loader,
		validator: validator,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.Local),
		stop:      make(chan struct{}),
	}
}

// Start performs the initial load, then schedules periodic reloads
func (s *Scheduler) Start() error {
	if err := s.updateData(); err != nil {
		logging.Error("Failed to perform initial inventory load", "error", err)
		return fmt.Errorf("initial inventory load failed: %w", err)
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(func() {
		if err := s.updateData(); err != nil {
			logging.Error("Failed to reload inventory, keeping previous snapshot", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule inventory reloads", "error", err)
		return fmt.Errorf("failed to schedule inventory reloads: %w", err)
	}

	s.scheduler.StartAsync()
	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler and the staleness monitor
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}

// updateData loads, validates and swaps in a new inventory snapshot
func (s *Scheduler) updateData() error {
	// Prevent concurrent updates
	if !s.store.BeginUpdate() {
		logging.Info("Inventory update already in progress, skipping...")
		return nil
	}
	defer s.store.EndUpdate()

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	loaded, err := s.loader.LoadInventory(ctx)
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	records := make([]entities.InventoryRecord, 0, len(loaded))
	rejected := 0
	for i := range loaded {
		if err := s.validator.ValidateRecord(&loaded[i]); err != nil {
			rejected++
			logging.Debug("Rejecting inventory record", "error", err)
			continue
		}
		records = append(records, loaded[i])
	}

	report := s.validator.ReportDataQuality(loaded)

	if rejected > 0 {
		logging.Warn("Invalid inventory records rejected", "count", rejected, "loaded", len(loaded))
	}

	if len(report.DuplicateNames) > 0 {
		logging.Warn("Duplicate medicine names detected",
			"total", len(report.DuplicateNames),
			"names", report.DuplicateNames,
		)
	}

	if len(report.NegativePrices) > 0 {
		logging.Warn("Medicines with negative prices",
			"total", len(report.NegativePrices),
			"names", report.NegativePrices,
		)
	}

	s.store.UpdateData(records, report)
	metrics.InventoryRecords.Set(float64(len(records)))

	logging.Info("Inventory update completed",
		"duration", time.Since(start).String(),
		"record_count", len(records),
		"out_of_stock", report.OutOfStock)

	return nil
}

// startHealthMonitoring warns when reloads have stopped landing
func (s *Scheduler) startHealthMonitoring() {
	staleAfter := 3 * s.interval

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				if lastUpdate := s.store.GetLastUpdated(); time.Since(lastUpdate) > staleAfter {
					logging.Warn("Inventory hasn't been updated recently",
						"last_updated", lastUpdate.Format(time.RFC3339),
						"stale_after", staleAfter.String())
				}
			}
		}
	}()
}
