package europepmc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"g2p-curate/config"
	"g2p-curate/providers"

	"go.uber.org/zap"
)

func TestMetadataParsesSearchResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("query"); q != "EXT_ID:16682970 AND SRC:MED" {
			t.Errorf("unexpected query %q", q)
		}
		w.Write([]byte(`{
			"resultList": {
				"result": [{
					"id": "16682970",
					"source": "MED",
					"pmid": "16682970",
					"doi": "10.1000/ng.2006.042",
					"title": "CEP290 mutations in ciliopathy.",
					"authorString": "Miller C, Okada T.",
					"journalTitle": "Nat Genet",
					"pubYear": "2006"
				}]
			}
		}`))
	}))
	defer srv.Close()

	f := NewFetcher(&config.Config{EuropePMCBaseURL: srv.URL}, zap.NewNop())
	meta, err := f.Metadata(context.Background(), "16682970")
	if err != nil {
		t.Fatalf("metadata fetch failed: %v", err)
	}
	if meta.PMID != "16682970" {
		t.Errorf("unexpected PMID %q", meta.PMID)
	}
	if meta.Title != "CEP290 mutations in ciliopathy." {
		t.Errorf("unexpected title %q", meta.Title)
	}
	if meta.Authors != "Miller C, Okada T." {
		t.Errorf("unexpected authors %q", meta.Authors)
	}
	if meta.DOI != "10.1000/ng.2006.042" {
		t.Errorf("unexpected DOI %q", meta.DOI)
	}
	if meta.Year != 2006 {
		t.Errorf("unexpected year %d", meta.Year)
	}
	if meta.Source != "europepmc" {
		t.Errorf("unexpected source %q", meta.Source)
	}
}

func TestMetadataEmptyResultListIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resultList": {"result": []}}`))
	}))
	defer srv.Close()

	f := NewFetcher(&config.Config{EuropePMCBaseURL: srv.URL}, zap.NewNop())
	_, err := f.Metadata(context.Background(), "00000000")
	if !errors.Is(err, providers.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMetadataNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewFetcher(&config.Config{EuropePMCBaseURL: srv.URL}, zap.NewNop())
	_, err := f.Metadata(context.Background(), "16682970")
	if err == nil || errors.Is(err, providers.ErrNotFound) {
		t.Fatalf("expected a transient error, got %v", err)
	}
}
