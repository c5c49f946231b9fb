package pubmed

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

const efetchFixture = `<?xml version="1.0" ?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>25533962</PMID>
      <Article>
        <Journal>
          <JournalIssue>
            <PubDate>
              <Year>2014</Year>
              <Month>Dec</Month>
            </PubDate>
          </JournalIssue>
        </Journal>
        <ArticleTitle>Joubert syndrome in the CEP290 cohort.</ArticleTitle>
        <ELocationID EIdType="pii" ValidYN="Y">S0000-0000(14)00000-0</ELocationID>
        <ELocationID EIdType="doi" ValidYN="Y">10.1000/jmg.2014.001</ELocationID>
        <AuthorList>
          <Author>
            <LastName>Smith</LastName>
            <Initials>A</Initials>
          </Author>
          <Author>
            <LastName>Jones</LastName>
            <Initials>B</Initials>
          </Author>
        </AuthorList>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`

func TestMetadataParsesEfetchResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("db") != "pubmed" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(efetchFixture))
	}))
	defer srv.Close()

	f := NewFetcher(&config.Config{PubMedBaseURL: srv.URL, PubMedTool: "g2p-curate"}, zap.NewNop())
	meta, err := f.Metadata(context.Background(), "25533962")
	if err != nil {
		t.Fatalf("metadata fetch failed: %v", err)
	}
	if meta.PMID != "25533962" {
		t.Errorf("unexpected PMID %q", meta.PMID)
	}
	if meta.Title != "Joubert syndrome in the CEP290 cohort." {
		t.Errorf("unexpected title %q", meta.Title)
	}
	if meta.Authors != "A Smith, B Jones" {
		t.Errorf("unexpected authors %q", meta.Authors)
	}
	if meta.Year != 2014 {
		t.Errorf("unexpected year %d", meta.Year)
	}
	if meta.DOI != "10.1000/jmg.2014.001" {
		t.Errorf("unexpected DOI %q", meta.DOI)
	}
	if meta.Source != "pubmed" {
		t.Errorf("unexpected source %q", meta.Source)
	}
}

func TestMetadataEmptyArticleSetIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0" ?><PubmedArticleSet></PubmedArticleSet>`))
	}))
	defer srv.Close()

	f := NewFetcher(&config.Config{PubMedBaseURL: srv.URL, PubMedTool: "g2p-curate"}, zap.NewNop())
	_, err := f.Metadata(context.Background(), "99999999")
	if !errors.Is(err, providers.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMetadataNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(&config.Config{PubMedBaseURL: srv.URL, PubMedTool: "g2p-curate"}, zap.NewNop())
	_, err := f.Metadata(context.Background(), "25533962")
	if err == nil || errors.Is(err, providers.ErrNotFound) {
		t.Fatalf("expected a transient error, got %v", err)
	}
}
