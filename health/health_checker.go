// Package health provides health checking functionality for the pharmacist API.
package health

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/giygas/pharmacist-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store      interfaces.InventoryStore
	staleAfter time.Duration
}

// NewHealthChecker creates a new health checker with injected dependencies.
// staleAfter only applies to in-memory snapshots: older data is degraded,
// data twice as old is unhealthy.
func NewHealthChecker(store interfaces.InventoryStore, staleAfter time.Duration) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		store:      store,
		staleAfter: staleAfter,
	}
}

// HealthCheck returns HTTP-specific health data
// Used by /health HTTP endpoint
func (h *HealthCheckerImpl) HealthCheck(ctx context.Context) (status string, data map[string]any, httpStatus int) {
	data = map[string]any{}

	if err := h.store.Ping(ctx); err != nil {
		data["error"] = err.Error()
		return "unhealthy", data, http.StatusServiceUnavailable
	}

	records, err := h.store.ListRecords(ctx)
	if err != nil {
		data["error"] = err.Error()
		return "unhealthy", data, http.StatusServiceUnavailable
	}
	data["records"] = len(records)

	status = "healthy"
	httpStatus = http.StatusOK

	if len(records) == 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	snapshot, ok := h.store.(interfaces.InventorySnapshot)
	if !ok {
		data["source"] = "database"
		return status, data, httpStatus
	}

	lastUpdate := snapshot.GetLastUpdated()
	isUpdating := snapshot.IsUpdating()
	dataAge := time.Since(lastUpdate)

	data["source"] = "snapshot"
	data["last_update"] = lastUpdate.Format(time.RFC3339)
	data["data_age_minutes"] = math.Round(dataAge.Minutes()*10) / 10
	data["is_updating"] = isUpdating
	if report := snapshot.GetDataQualityReport(); report != nil {
		data["out_of_stock"] = report.OutOfStock
		data["duplicate_names"] = len(report.DuplicateNames)
	}

	if status != "healthy" || h.staleAfter <= 0 {
		return status, data, httpStatus
	}

	switch {
	case dataAge > 2*h.staleAfter:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > h.staleAfter:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return status, data, httpStatus
}
