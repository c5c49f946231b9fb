package providers

import (
	"context"
	"errors"
)

// ErrNotFound wird zurückgegeben, wenn die externe Quelle den
// angefragten Eintrag nicht kennt. Kein Transportfehler.
var ErrNotFound = errors.New("not found in external source")

// PublicationData sind die Metadaten einer Publikation, wie sie eine
// Literatur-Quelle liefert.
type PublicationData struct {
	PMID    string `json:"pmid"`
	Title   string `json:"title"`
	Authors string `json:"authors,omitempty"`
	Year    int    `json:"year,omitempty"`
	DOI     string `json:"doi,omitempty"`
	Source  string `json:"source"`
}

// Literature ist das Interface, das jede Literatur-Quelle (PubMed,
// Europe PMC) implementieren muss.
type Literature interface {
	// Metadata holt die Metadaten zu einer PMID. ErrNotFound, wenn die
	// PMID unbekannt ist.
	Metadata(ctx context.Context, pmid string) (*PublicationData, error)

	// Name gibt den eindeutigen Namen der Quelle zurück (z.B. "pubmed").
	Name() string
}

// OntologyTerm ist ein aufgelöster Ontologie-Eintrag.
type OntologyTerm struct {
	Accession   string `json:"accession"`
	Term        string `json:"term"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Ontology löst Disease- und Phänotyp-Accessions gegen externe
// Ontologien auf (Mondo, OMIM, HPO). Abfragen dieser Quelle werden
// nicht wiederholt: ein Fehler bricht den umgebenden Vorgang ab.
type Ontology interface {
	DiseaseTerm(ctx context.Context, accession, source string) (*OntologyTerm, error)
	PhenotypeTerm(ctx context.Context, accession string) (*OntologyTerm, error)
	Name() string
}
