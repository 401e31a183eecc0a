package inventory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPLoader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/inventory.tsv":
			w.Header().Set("Content-Type", "text/tab-separated-values")
			_, _ = w.Write([]byte("name\tprice\tquantity\nParacetamol\t2,50\t10\nAspirin\t1.20\t0\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	records, err := NewHTTPLoader(srv.URL+"/inventory.tsv").LoadInventory(context.Background())
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Name != "Paracetamol" || records[0].UnitPrice.StringFixed(2) != "2.50" {
		t.Errorf("Unexpected first record: %+v", records[0])
	}

	_, err = NewHTTPLoader(srv.URL + "/missing.tsv").LoadInventory(context.Background())
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected a status error, got %v", err)
	}
}

func TestHTTPLoaderCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewHTTPLoader(srv.URL).LoadInventory(ctx); err == nil {
		t.Error("Expected an error for a cancelled context")
	}
}

func TestHTTPLoaderInvalidURL(t *testing.T) {
	if _, err := NewHTTPLoader("://bad").LoadInventory(context.Background()); err == nil {
		t.Error("Expected an error for an invalid URL")
	}
}
