package storage

import (
	"encoding/json"

	"g2p-curate/models"

	"go.uber.org/zap"
)

// Audit schreibt einen Eintrag ins Änderungsprotokoll. Vorher/Nachher
// werden als JSON-Schnappschuss abgelegt; nil lässt das Feld leer.
// Ein fehlgeschlagener Audit-Eintrag bricht die fachliche Operation
// nicht ab, wird aber geloggt.
func (s *Store) Audit(entityType string, entityID uint, action, actor string, before, after any) {
	entry := models.AuditLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Actor:      actor,
	}
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			entry.Before = b
		}
	}
	if after != nil {
		if b, err := json.Marshal(after); err == nil {
			entry.After = b
		}
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		s.Logger.Warn("Failed to write audit log entry",
			zap.String("entity_type", entityType),
			zap.Uint("entity_id", entityID),
			zap.String("action", action),
			zap.Error(err))
	}
}
