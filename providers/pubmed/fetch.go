package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"g2p-curate/config"
	"g2p-curate/providers"

	"go.uber.org/zap"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

// Fetcher ist eine Struktur, die die Logik zur Interaktion mit PubMed kapselt.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt eine neue Instanz des PubMed-Fetchers.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen der Quelle zurück.
func (f *Fetcher) Name() string {
	return "pubmed"
}

// Metadata holt Titel, Autoren und Jahr für eine einzelne PMID via EFetch.
func (f *Fetcher) Metadata(ctx context.Context, pmid string) (*providers.PublicationData, error) {
	log := f.Logger.With(zap.String("pmid", pmid))

	efetchURL := fmt.Sprintf("%s/efetch.fcgi?db=pubmed&id=%s&retmode=xml&tool=%s",
		f.Config.PubMedBaseURL, pmid, f.Config.PubMedTool)
	if f.Config.PubMedAPIKey != "" {
		efetchURL += "&api_key=" + f.Config.PubMedAPIKey
	}
	log.Debug("Rufe EFetch-URL für Metadaten auf", zap.String("url", efetchURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, efetchURL, nil)
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
		body, _ := io.ReadAll(resp.Body)
		log.Error("EFetch-API hat nicht-200-Status zurückgegeben",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("efetch metadata failed: status %d", resp.StatusCode)
	}

	var articleSet PubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&articleSet); err != nil {
		return nil, err
	}

	// PubMed antwortet auf unbekannte PMIDs mit 200 und leerem Set
	if len(articleSet.PubmedArticle) == 0 {
		log.Debug("Kein PubmedArticle in EFetch-Antwort gefunden.")
		return nil, providers.ErrNotFound
	}

	return mapArticleToData(&articleSet.PubmedArticle[0]), nil
}

// mapArticleToData wandelt ein XML-Article-Objekt in die Metadaten-Struktur um.
func mapArticleToData(article *PubmedArticle) *providers.PublicationData {
	p := &providers.PublicationData{
		PMID:   article.MedlineCitation.PMID,
		Title:  article.MedlineCitation.Article.Title,
		Source: "pubmed",
	}

	for _, author := range article.MedlineCitation.Article.Authors {
		p.Authors += author.Initials + " " + author.LastName + ", "
	}
	p.Authors = strings.TrimRight(p.Authors, ", ")

	for _, id := range article.MedlineCitation.Article.ELocationID {
		if id.IDType == "doi" && id.ValidYN == "Y" {
			p.DOI = id.Value
			break
		}
	}

	if y := article.MedlineCitation.Article.Journal.PubDate.Year; y != "" {
		if year, err := strconv.Atoi(y); err == nil {
			p.Year = year
		}
	}

	return p
}
