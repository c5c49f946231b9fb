package storage

import (
	"fmt"
	"strconv"
	"strings"

	"g2p-curate/models"

	"gorm.io/gorm"
)

const stableIDPrefix = "G2P"

// NextStableID reserviert den nächsten freien stabilen Bezeichner
// (Format "G2P00001", fünfstellig, mit führenden Nullen). Der neue
// Eintrag ist noch nicht live. Rennen zwischen parallelen Sessions
// fängt der Unique-Index auf stable_id ab.
func (s *Store) NextStableID() (*models.StableID, error) {
	var last models.StableID
	next := 1
	err := s.DB.Order("id desc").First(&last).Error
	switch {
	case err == nil:
		n, convErr := strconv.Atoi(strings.TrimPrefix(last.StableID, stableIDPrefix))
		if convErr != nil {
			return nil, fmt.Errorf("unparseable stable id %q: %w", last.StableID, convErr)
		}
		next = n + 1
	case err == gorm.ErrRecordNotFound:
		// erste Vergabe
	default:
		return nil, err
	}

	sid := &models.StableID{
		StableID: fmt.Sprintf("%s%05d", stableIDPrefix, next),
		IsLive:   false,
	}
	if err := s.DB.Create(sid).Error; err != nil {
		return nil, err
	}
	return sid, nil
}

// StableIDByValue holt einen StableID-Eintrag über seinen öffentlichen Wert.
func (s *Store) StableIDByValue(value string) (*models.StableID, error) {
	var sid models.StableID
	if err := s.DB.Where("stable_id = ?", value).First(&sid).Error; err != nil {
		return nil, err
	}
	return &sid, nil
}

// SetStableIDStatus schaltet einen stabilen Bezeichner live bzw. nimmt
// ihn aus der Veröffentlichung und hinterlegt den Audit-Kommentar.
func (s *Store) SetStableIDStatus(id uint, live, deleted bool, comment string) error {
	updates := map[string]any{"is_live": live, "is_deleted": deleted}
	if comment != "" {
		updates["comment"] = comment
	}
	return s.DB.Model(&models.StableID{}).Where("id = ?", id).Updates(updates).Error
}
