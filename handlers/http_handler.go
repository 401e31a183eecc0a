// Package handlers provides HTTP request handlers for the pharmacist API endpoints.
// This file implements the HTTPHandler interface with dependency injection.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/giygas/pharmacist-api/interfaces"
	"github.com/giygas/pharmacist-api/logging"
	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
	"github.com/giygas/pharmacist-api/validation"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler interface
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

const pageSize = 10

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	store     interfaces.InventoryStore
	processor interfaces.OrderProcessor
	validator interfaces.DataValidator
	health    interfaces.HealthChecker
	startTime time.Time
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(store interfaces.InventoryStore, processor interfaces.OrderProcessor,
	validator interfaces.DataValidator, health interfaces.HealthChecker) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		store:     store,
		processor: processor,
		validator: validator,
		health:    health,
		startTime: time.Now(),
	}
}

// OrderRequest is the JSON body of POST /v1/orders
type OrderRequest struct {
	Text string `json:"text"`
}

// OrderResponse defines the structure for consistent JSON ordering
type OrderResponse struct {
	OrderID   string                    `json:"order_id"`
	Response  string                    `json:"response"`
	Order     entities.OrderSummary     `json:"order"`
	Medicines []entities.MedicineStatus `json:"medicines"`
}

// InventoryRecordResponse is one record with its stock status
type InventoryRecordResponse struct {
	Record entities.InventoryRecord `json:"record"`
	Stock  entities.Availability    `json:"stock"`
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status        string         `json:"status"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Uptime        string         `json:"uptime"`
	Data          map[string]any `json:"data"`
	System        map[string]any `json:"system"`
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Debug("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// ProcessPrescription turns model output into a priced order.
// Accepts {"text": "..."} as JSON or the raw text as text/plain.
func (h *HTTPHandlerImpl) ProcessPrescription(w http.ResponseWriter, r *http.Request) {
	text, err := readOrderText(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.RespondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.validator.ValidateInput(text); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.processor.Process(r.Context(), text)
	if err != nil {
		logging.Error("Failed to process prescription", "error", err)
		h.RespondWithError(w, http.StatusServiceUnavailable, "Inventory unavailable, try again later")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, OrderResponse{
		OrderID:   uuid.NewString(),
		Response:  result.Rendered,
		Order:     result.Summary,
		Medicines: result.Medicines,
	})
}

func readOrderText(r *http.Request) (string, error) {
	// Leave room for the JSON envelope and escaping around the text
	body, err := io.ReadAll(io.LimitReader(r.Body, 2*validation.MaxInputLength+1))
	if err != nil {
		return "", err
	}
	if len(body) > 2*validation.MaxInputLength {
		return "", &http.MaxBytesError{Limit: 2 * validation.MaxInputLength}
	}

	contentType := strings.ToLower(r.Header.Get("Content-Type"))
	if strings.HasPrefix(contentType, "text/plain") {
		return string(body), nil
	}

	var req OrderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", errors.New(`invalid JSON body: expected {"text": "..."}`)
	}
	return req.Text, nil
}

// ServeInventory returns the inventory one page at a time
func (h *HTTPHandlerImpl) ServeInventory(w http.ResponseWriter, r *http.Request) {
	pageNumber := chi.URLParam(r, "page")
	page, err := strconv.Atoi(pageNumber)
	if err != nil || page < 1 {
		logging.Warn("Unusual user input", "page", pageNumber)
		h.RespondWithError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	records, err := h.store.ListRecords(r.Context())
	if err != nil {
		logging.Error("Failed to list inventory", "error", err)
		h.RespondWithError(w, http.StatusServiceUnavailable, "Inventory unavailable, try again later")
		return
	}

	start := (page - 1) * pageSize
	if start >= len(records) {
		h.RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}
	end := min(start+pageSize, len(records))

	totalItems := len(records)
	response := map[string]any{
		"data":       records[start:end],
		"page":       page,
		"pageSize":   pageSize,
		"totalItems": totalItems,
		"maxPage":    (totalItems + pageSize - 1) / pageSize,
	}

	h.RespondWithJSON(w, http.StatusOK, response)
}

// FindInventoryRecord looks a medicine up by exact name, ignoring case
func (h *HTTPHandlerImpl) FindInventoryRecord(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	if err := h.validator.ValidateName(name); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, found, err := h.store.LookupByName(r.Context(), name)
	if err != nil {
		logging.Error("Failed to look up medicine", "name", name, "error", err)
		h.RespondWithError(w, http.StatusServiceUnavailable, "Inventory unavailable, try again later")
		return
	}

	if !found {
		h.RespondWithError(w, http.StatusNotFound, entities.NotInDatabase.String())
		return
	}

	h.RespondWithJSON(w, http.StatusOK, InventoryRecordResponse{
		Record: record,
		Stock:  entities.AvailabilityOf(record, true),
	})
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.health.HealthCheck(r.Context())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startTime)

	h.RespondWithJSON(w, httpStatus, HealthResponse{
		Status:        status,
		UptimeSeconds: uptime.Seconds(),
		Uptime:        formatUptimeHuman(uptime),
		Data:          details,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": int(m.Alloc / 1024 / 1024),
				"sys_mb":   int(m.Sys / 1024 / 1024),
				"num_gc":   m.NumGC,
			},
		},
	})
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
