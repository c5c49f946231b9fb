package europepmc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"g2p-curate/config"
	"g2p-curate/providers"

	"go.uber.org/zap"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

// Fetcher implementiert das Literature-Interface für Europe PMC.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen Europe PMC Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen der Quelle zurück.
func (f *Fetcher) Name() string {
	return "europepmc"
}

// Metadata holt die Metadaten zu einer PMID über die Europe PMC Suche.
func (f *Fetcher) Metadata(ctx context.Context, pmid string) (*providers.PublicationData, error) {
	log := f.Logger.With(zap.String("pmid", pmid))

	query := fmt.Sprintf("EXT_ID:%s AND SRC:MED", pmid)
	searchURL := fmt.Sprintf("%s/search?query=%s&format=json&resultType=lite",
		f.Config.EuropePMCBaseURL, url.QueryEscape(query))
	log.Debug("Rufe Europe PMC API auf", zap.String("url", searchURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("europepmc request failed with status: %d", resp.StatusCode)
	}

	var searchResponse SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResponse); err != nil {
		return nil, err
	}

	if len(searchResponse.ResultList.Result) == 0 {
		log.Debug("PMID in Europe PMC nicht gefunden.")
		return nil, providers.ErrNotFound
	}

	return mapArticleToData(&searchResponse.ResultList.Result[0]), nil
}

// mapArticleToData konvertiert ein Europe PMC Article-Objekt in die
// Metadaten-Struktur.
func mapArticleToData(article *Article) *providers.PublicationData {
	p := &providers.PublicationData{
		PMID:    article.PMID,
		DOI:     article.DOI,
		Title:   article.Title,
		Authors: article.AuthorString,
		Source:  "europepmc",
	}
	if article.PubYear != "" {
		if year, err := strconv.Atoi(article.PubYear); err == nil {
			p.Year = year
		}
	}
	return p
}
