// Package ols bindet die EBI Ontology Lookup Service API an, über die
// Disease- (Mondo, OMIM) und Phänotyp-Accessions (HPO) aufgelöst werden.
package ols

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"g2p-curate/config"
	"g2p-curate/providers"

	"go.uber.org/zap"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// termsResponse repräsentiert die JSON-Antwort des Terms-Endpoints.
type termsResponse struct {
	Embedded struct {
		Terms []struct {
			Label       string   `json:"label"`
			OboID       string   `json:"obo_id"`
			Description []string `json:"description"`
		} `json:"terms"`
	} `json:"_embedded"`
}

// Fetcher kapselt die Logik für den Ontology Lookup Service.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen OLS-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen der Quelle zurück.
func (f *Fetcher) Name() string {
	return "ols"
}

// DiseaseTerm löst eine Disease-Accession gegen die passende Ontologie auf.
func (f *Fetcher) DiseaseTerm(ctx context.Context, accession, source string) (*providers.OntologyTerm, error) {
	ontology := strings.ToLower(source)
	if ontology == "" {
		ontology = "mondo"
	}
	term, err := f.term(ctx, ontology, accession)
	if err != nil {
		return nil, err
	}
	term.Source = source
	return term, nil
}

// PhenotypeTerm löst eine HPO-Accession auf.
func (f *Fetcher) PhenotypeTerm(ctx context.Context, accession string) (*providers.OntologyTerm, error) {
	term, err := f.term(ctx, "hp", accession)
	if err != nil {
		return nil, err
	}
	term.Source = "HPO"
	return term, nil
}

// term fragt den Terms-Endpoint einer Ontologie nach einer obo_id ab.
// Diese Quelle wird nicht wiederholt abgefragt: jeder Fehler geht
// direkt an den Aufrufer.
func (f *Fetcher) term(ctx context.Context, ontology, oboID string) (*providers.OntologyTerm, error) {
	reqURL := fmt.Sprintf("%s/ontologies/%s/terms?obo_id=%s",
		f.Config.OLSBaseURL, ontology, url.QueryEscape(oboID))
	log := f.Logger.With(zap.String("obo_id", oboID), zap.String("url", reqURL))
	log.Debug("Rufe OLS API auf.")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, providers.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ols request failed with status: %d", resp.StatusCode)
	}

	var tr termsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, err
	}
	if len(tr.Embedded.Terms) == 0 {
		log.Debug("Kein Term in OLS-Antwort gefunden.")
		return nil, providers.ErrNotFound
	}

	t := tr.Embedded.Terms[0]
	return &providers.OntologyTerm{
		Accession:   oboID,
		Term:        t.Label,
		Description: strings.Join(t.Description, " "),
	}, nil
}
