package models

import "time"

// Curator ist eine Person, die Records kuratiert. Authentifizierung
// läuft außerhalb; hier zählt nur die Identität und die Panel-Rechte.
type Curator struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Email    string `json:"email,omitempty" gorm:"index"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Curator) TableName() string {
	return "curators"
}

// Panel ist ein klinisches Review-Panel (z.B. "DD", "Eye").
type Panel struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Description string `json:"description,omitempty"`
	IsVisible   bool   `json:"is_visible" gorm:"default:true"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Panel) TableName() string {
	return "panels"
}

// CuratorPanel gewährt einem Curator Schreibrechte auf einem Panel.
type CuratorPanel struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CuratorID uint `json:"curator_id" gorm:"uniqueIndex:idx_curator_panel;not null"`
	PanelID   uint `json:"panel_id" gorm:"uniqueIndex:idx_curator_panel;not null"`

	Curator Curator `json:"-" gorm:"foreignKey:CuratorID"`
	Panel   Panel   `json:"-" gorm:"foreignKey:PanelID"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (CuratorPanel) TableName() string {
	return "curator_panels"
}
