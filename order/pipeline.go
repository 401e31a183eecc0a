package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/giygas/pharmacist-api/interfaces"
	"github.com/giygas/pharmacist-api/logging"
	"github.com/giygas/pharmacist-api/metrics"
	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
)

// Compile-time check to ensure Pipeline implements OrderProcessor interface
var _ interfaces.OrderProcessor = (*Pipeline)(nil)

// Pipeline turns model output into a priced order: parse, resolve, summarize, render.
type Pipeline struct {
	parser    interfaces.Parser
	resolver  *Resolver
	generator interfaces.TextGenerator
}

var (
	// ErrNoGenerator is returned by ProcessImages when no text generator is set
	ErrNoGenerator = errors.New("no text generator configured")
	// ErrNoImages is returned by ProcessImages for an empty upload
	ErrNoImages = errors.New("no prescription images")
)

// NewPipeline creates a pipeline with injected dependencies
func NewPipeline(parser interfaces.Parser, lookup interfaces.InventoryLookup, workers int) *Pipeline {
	return &Pipeline{
		parser:   parser,
		resolver: NewResolver(lookup, workers),
	}
}

// WithGenerator sets the model that turns prescription images into text
func (p *Pipeline) WithGenerator(generator interfaces.TextGenerator) *Pipeline {
	p.generator = generator
	return p
}

// ProcessImages asks the text generator to read the images and runs the
// answer through Process.
func (p *Pipeline) ProcessImages(ctx context.Context, images []interfaces.PrescriptionImage) (*entities.OrderResult, error) {
	if p.generator == nil {
		return nil, ErrNoGenerator
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	text, err := p.generator.GenerateText(ctx, images)
	if err != nil {
		metrics.OrdersProcessed.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to generate prescription text: %w", err)
	}

	logging.Debug("Prescription text generated", "images", len(images), "length", len(text))
	return p.Process(ctx, strings.TrimSpace(text))
}

// Process runs the pipeline once. It returns a complete result or the lookup
// error that stopped it, never a partial order.
func (p *Pipeline) Process(ctx context.Context, text string) (*entities.OrderResult, error) {
	entries, report := p.parser.ParseMedicines(text)
	metrics.PrescriptionRows.WithLabelValues("parsed").Add(float64(len(entries)))
	metrics.PrescriptionRows.WithLabelValues("skipped").Add(float64(report.SkippedRows))

	orderable := make([]entities.MedicineEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Validity.Orderable() {
			orderable = append(orderable, entry)
		}
	}

	resolutions, err := p.resolver.Resolve(ctx, orderable)
	if err != nil {
		metrics.OrdersProcessed.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to resolve medicines: %w", err)
	}

	summary := BuildSummary(resolutions)

	medicines := make([]entities.MedicineStatus, len(entries))
	next := 0
	for i, entry := range entries {
		medicines[i] = entities.MedicineStatus{MedicineEntry: entry, Stock: entities.NotChecked}
		if entry.Validity.Orderable() {
			medicines[i].Stock = resolutions[next].Stock
			next++
		}
		metrics.Medicines.WithLabelValues(medicines[i].Stock.String()).Inc()
	}

	outcome := "ok"
	if len(summary.Lines) == 0 {
		outcome = "empty"
	}
	metrics.OrdersProcessed.WithLabelValues(outcome).Inc()

	logging.Info("Prescription processed",
		"table_found", report.TableFound,
		"entries", len(entries),
		"orderable", len(orderable),
		"lines", len(summary.Lines),
		"unavailable", len(summary.Unavailable),
		"total", summary.Total.StringFixed(2))

	return &entities.OrderResult{
		Summary:   summary,
		Rendered:  Render(summary),
		Medicines: medicines,
	}, nil
}
