package inventory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/giygas/pharmacist-api/interfaces"
	"github.com/giygas/pharmacist-api/logging"
	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
)

var _ interfaces.InventoryLoader = (*HTTPLoader)(nil)

// maxDownloadSize caps a downloaded inventory export
const maxDownloadSize = 64 * 1024 * 1024

// HTTPLoader downloads the TSV export published by the inventory system
type HTTPLoader struct {
	url    string
	client *http.Client
}

// NewHTTPLoader creates a loader for the export at url
func NewHTTPLoader(url string) *HTTPLoader {
	return &HTTPLoader{
		url: url,
		client: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// LoadInventory downloads and parses the export. Any status other than 200 is an error.
func (l *HTTPLoader) LoadInventory(ctx context.Context) ([]entities.InventoryRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid inventory URL %s: %w", l.url, err)
	}

	response, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", l.url, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: unexpected status %s", l.url, response.Status)
	}

	body := io.LimitReader(response.Body, maxDownloadSize+1)
	content, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(content) > maxDownloadSize {
		return nil, fmt.Errorf("inventory export at %s exceeds %d bytes", l.url, maxDownloadSize)
	}

	logging.Debug("Inventory export downloaded", "url", l.url, "bytes", len(content))
	return ParseInventory(ctx, bytes.NewReader(content))
}
