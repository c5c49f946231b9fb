package models

import "time"

// Publication ist eine referenzierte Publikation, identifiziert über
// ihre PMID. Titel, Autoren und Jahr kommen aus der Literatur-Quelle
// und werden nächtlich aufgefrischt.
type Publication struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PMID    string `json:"pmid" gorm:"column:pmid;uniqueIndex;not null"`
	Title   string `json:"title" gorm:"type:text"`
	Authors string `json:"authors,omitempty" gorm:"type:text"`
	Year    int    `json:"year,omitempty"`
	DOI     string `json:"doi,omitempty" gorm:"column:doi;index"`
	Source  string `json:"source,omitempty"` // Literatur-Provider, der die Metadaten geliefert hat
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Publication) TableName() string {
	return "publications"
}
