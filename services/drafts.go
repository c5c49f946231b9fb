package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"g2p-curate/models"
	"g2p-curate/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DraftService verwaltet Curation-Drafts: anlegen mit reserviertem
// StableID, vollständiges Ersetzen (last-write-wins), Auflisten und
// Löschen. Drafts sind privat, nur der Eigentümer sieht sie.
type DraftService struct {
	Store     *storage.Store
	Validator *Validator
	Logger    *zap.Logger
}

// NewDraftService erstellt einen neuen DraftService.
func NewDraftService(store *storage.Store, validator *Validator, logger *zap.Logger) *DraftService {
	return &DraftService{Store: store, Validator: validator, Logger: logger}
}

// Save legt einen neuen Draft an. Dabei wird ein stabiler Bezeichner
// reserviert (noch nicht live); ein leerer Session-Name fällt auf
// diesen Bezeichner zurück.
func (d *DraftService) Save(curator *models.Curator, sessionName string, payload *models.DraftPayload) (*models.CurationData, error) {
	if err := d.Validator.ValidateDraft(curator, sessionName, payload); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var draft *models.CurationData
	err = d.Store.Transaction(func(tx *storage.Store) error {
		sid, err := tx.NextStableID()
		if err != nil {
			return err
		}
		name := sessionName
		if name == "" {
			name = sid.StableID
		}
		draft = &models.CurationData{
			SessionName: name,
			GeneSymbol:  payload.Locus,
			CuratorID:   curator.ID,
			StableIDID:  sid.ID,
			Payload:     raw,
		}
		if err := tx.CreateDraft(draft); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflictErr(fmt.Sprintf("A session named '%s' already exists", name),
					map[string]any{"session_name": name})
			}
			return err
		}
		draft.StableID = *sid
		tx.Audit("curation_data", draft.ID, "create", curator.Username, nil, payload)
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.Logger.Info("Draft saved",
		zap.String("session", draft.SessionName),
		zap.String("gene", draft.GeneSymbol),
		zap.String("curator", curator.Username))
	return draft, nil
}

// Get holt einen Draft des Curators über den Session-Namen.
func (d *DraftService) Get(curator *models.Curator, sessionName string) (*models.CurationData, error) {
	draft, err := d.Store.DraftBySession(sessionName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundErr(fmt.Sprintf("Curation session '%s' not found", sessionName))
	}
	if err != nil {
		return nil, err
	}
	if draft.CuratorID != curator.ID {
		return nil, permissionErr("This curation session belongs to another curator")
	}
	return draft, nil
}

// List listet alle Drafts des Curators.
func (d *DraftService) List(curator *models.Curator) ([]models.CurationData, error) {
	return d.Store.DraftsByCurator(curator.ID)
}

// Update ersetzt den Inhalt eines Drafts vollständig. Es gibt keine
// Versionierung: der letzte Schreiber gewinnt.
func (d *DraftService) Update(curator *models.Curator, sessionName string, payload *models.DraftPayload) (*models.CurationData, error) {
	draft, err := d.Get(curator, sessionName)
	if err != nil {
		return nil, err
	}
	if err := d.Validator.ValidateDraft(curator, sessionName, payload); err != nil {
		return nil, err
	}

	before, _ := draft.DecodePayload()
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if err := d.Store.UpdateDraftPayload(draft.ID, payload.Locus, raw); err != nil {
		return nil, err
	}
	d.Store.Audit("curation_data", draft.ID, "update", curator.Username, before, payload)

	draft.Payload = raw
	draft.GeneSymbol = payload.Locus
	return draft, nil
}

// Delete entfernt einen Draft und gibt den reservierten Bezeichner
// wieder frei.
func (d *DraftService) Delete(curator *models.Curator, sessionName string) error {
	draft, err := d.Get(curator, sessionName)
	if err != nil {
		return err
	}
	return d.Store.Transaction(func(tx *storage.Store) error {
		if err := tx.DeleteDraft(draft.ID); err != nil {
			return err
		}
		if err := tx.SetStableIDStatus(draft.StableIDID, false, true,
			"Draft deleted before publication"); err != nil {
			return err
		}
		tx.Audit("curation_data", draft.ID, "delete", curator.Username, draft, nil)
		return nil
	})
}
