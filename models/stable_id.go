package models

import "time"

// StableID ist der öffentliche, stabile Bezeichner eines Records
// (Format "G2P00001"). Er wird beim Anlegen eines Drafts reserviert
// (is_live=false) und beim Publizieren live geschaltet.
type StableID struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StableID  string `json:"stable_id" gorm:"column:stable_id;uniqueIndex;not null"`
	IsLive    bool   `json:"is_live" gorm:"default:false"`
	IsDeleted bool   `json:"is_deleted" gorm:"default:false"`
	// Audit-Kommentar, z.B. warum ein Record nicht mehr live ist
	Comment string `json:"comment,omitempty" gorm:"type:text"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (StableID) TableName() string {
	return "stable_ids"
}
