package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/giygas/pharmacist-api/interfaces"
	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
	"github.com/shopspring/decimal"
)

// ============================================================================
// MOCK INVENTORY STORE
// ============================================================================

type MockInventoryStore struct {
	records   []entities.InventoryRecord
	lookupErr error
	listErr   error
	pingErr   error
}

func (m *MockInventoryStore) LookupByName(_ context.Context, name string) (entities.InventoryRecord, bool, error) {
	if m.lookupErr != nil {
		return entities.InventoryRecord{}, false, m.lookupErr
	}
	for _, r := range m.records {
		if strings.EqualFold(r.Name, name) {
			return r, true, nil
		}
	}
	return entities.InventoryRecord{}, false, nil
}

func (m *MockInventoryStore) ListRecords(_ context.Context) ([]entities.InventoryRecord, error) {
	return m.records, m.listErr
}

func (m *MockInventoryStore) Ping(_ context.Context) error {
	return m.pingErr
}

// MockInventoryStoreBuilder provides fluent interface for building mock stores
type MockInventoryStoreBuilder struct {
	store *MockInventoryStore
}

func NewMockInventoryStoreBuilder() *MockInventoryStoreBuilder {
	return &MockInventoryStoreBuilder{store: &MockInventoryStore{}}
}

func (b *MockInventoryStoreBuilder) WithRecord(name, price string, quantity int) *MockInventoryStoreBuilder {
	b.store.records = append(b.store.records, entities.InventoryRecord{
		Name:              name,
		UnitPrice:         decimal.RequireFromString(price),
		QuantityAvailable: quantity,
	})
	return b
}

func (b *MockInventoryStoreBuilder) WithLookupError(err error) *MockInventoryStoreBuilder {
	b.store.lookupErr = err
	return b
}

func (b *MockInventoryStoreBuilder) WithListError(err error) *MockInventoryStoreBuilder {
	b.store.listErr = err
	return b
}

func (b *MockInventoryStoreBuilder) Build() *MockInventoryStore {
	return b.store
}

// ============================================================================
// MOCK VALIDATOR
// ============================================================================

type MockDataValidator struct {
	inputErr error
	nameErr  error
}

func (m *MockDataValidator) ValidateRecord(_ *entities.InventoryRecord) error {
	return nil
}

func (m *MockDataValidator) ReportDataQuality(records []entities.InventoryRecord) *interfaces.DataQualityReport {
	return &interfaces.DataQualityReport{TotalRecords: len(records)}
}

func (m *MockDataValidator) ValidateInput(_ string) error {
	return m.inputErr
}

func (m *MockDataValidator) ValidateName(_ string) error {
	return m.nameErr
}

// MockDataValidatorBuilder provides fluent interface for building mock validators
type MockDataValidatorBuilder struct {
	validator *MockDataValidator
}

func NewMockDataValidatorBuilder() *MockDataValidatorBuilder {
	return &MockDataValidatorBuilder{validator: &MockDataValidator{}}
}

func (b *MockDataValidatorBuilder) WithInputError(err error) *MockDataValidatorBuilder {
	b.validator.inputErr = err
	return b
}

func (b *MockDataValidatorBuilder) WithNameError(err error) *MockDataValidatorBuilder {
	b.validator.nameErr = err
	return b
}

func (b *MockDataValidatorBuilder) Build() *MockDataValidator {
	return b.validator
}

// ============================================================================
// MOCK ORDER PROCESSOR AND HEALTH CHECKER
// ============================================================================

type MockOrderProcessor struct {
	result   *entities.OrderResult
	err      error
	lastText string
}

func (m *MockOrderProcessor) Process(_ context.Context, text string) (*entities.OrderResult, error) {
	m.lastText = text
	return m.result, m.err
}

type MockHealthChecker struct {
	status  string
	details map[string]any
	code    int
}

func (m *MockHealthChecker) HealthCheck(_ context.Context) (string, map[string]any, int) {
	return m.status, m.details, m.code
}

func healthyChecker() *MockHealthChecker {
	return &MockHealthChecker{status: "healthy", details: map[string]any{"records": 1}, code: http.StatusOK}
}

// newTestHandler wires a handler from mocks, nil arguments get defaults
func newTestHandler(store *MockInventoryStore, processor *MockOrderProcessor, validator *MockDataValidator) *HTTPHandlerImpl {
	if store == nil {
		store = NewMockInventoryStoreBuilder().Build()
	}
	if processor == nil {
		processor = &MockOrderProcessor{result: &entities.OrderResult{}}
	}
	if validator == nil {
		validator = NewMockDataValidatorBuilder().Build()
	}
	return NewHTTPHandler(store, processor, validator, healthyChecker())
}
