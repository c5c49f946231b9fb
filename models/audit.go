package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog protokolliert jede fachliche Änderung an einem Record oder
// Draft: wer was wann geändert hat, mit Vorher/Nachher-Schnappschuss.
type AuditLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	EntityType string `json:"entity_type" gorm:"index:idx_audit_entity;not null"` // z.B. "locus_genotype_disease"
	EntityID   uint   `json:"entity_id" gorm:"index:idx_audit_entity;not null"`
	Action     string `json:"action" gorm:"index;not null"` // "create" | "update" | "publish" | "merge" | "delete"
	Actor      string `json:"actor" gorm:"index"`

	Before datatypes.JSON `json:"before,omitempty" gorm:"type:jsonb"`
	After  datatypes.JSON `json:"after,omitempty" gorm:"type:jsonb"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (AuditLog) TableName() string {
	return "audit_logs"
}
