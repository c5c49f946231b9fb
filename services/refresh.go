package services

import (
	"context"
	"errors"

	"g2p-curate/config"
	"g2p-curate/providers"
	"g2p-curate/storage"

	"go.uber.org/zap"
)

// RefreshService hält die gespeicherten Publikations-Metadaten aktuell.
// Läuft nachts per Cron; Titel, Autoren und DOI ändern sich bei frisch
// publizierten Artikeln noch (ahead-of-print, Korrekturen).
type RefreshService struct {
	Config     *config.Config
	Store      *storage.Store
	Literature providers.Literature
	Logger     *zap.Logger
}

// NewRefreshService erstellt eine neue Instanz des RefreshService.
func NewRefreshService(cfg *config.Config, store *storage.Store, lit providers.Literature, logger *zap.Logger) *RefreshService {
	return &RefreshService{Config: cfg, Store: store, Literature: lit, Logger: logger}
}

// RefreshAll holt für jede gespeicherte Publikation die aktuellen
// Metadaten und schreibt Änderungen zurück. Einzelne Fehlschläge
// brechen den Lauf nicht ab.
func (r *RefreshService) RefreshAll(ctx context.Context) (int, error) {
	pubs, err := r.Store.AllPublications()
	if err != nil {
		r.Logger.Error("Failed to load publications for refresh", zap.Error(err))
		return 0, err
	}

	updated := 0
	for i := range pubs {
		pub := &pubs[i]
		if ctx.Err() != nil {
			return updated, ctx.Err()
		}
		meta, err := r.Literature.Metadata(ctx, pub.PMID)
		if errors.Is(err, providers.ErrNotFound) {
			r.Logger.Warn("Publication no longer resolvable",
				zap.String("pmid", pub.PMID),
				zap.String("provider", r.Literature.Name()))
			continue
		}
		if err != nil {
			r.Logger.Warn("Publication refresh failed",
				zap.String("pmid", pub.PMID), zap.Error(err))
			continue
		}
		if meta.Title == pub.Title && meta.Authors == pub.Authors &&
			meta.Year == pub.Year && meta.DOI == pub.DOI {
			continue
		}
		pub.Title = meta.Title
		pub.Authors = meta.Authors
		pub.Year = meta.Year
		pub.DOI = meta.DOI
		pub.Source = meta.Source
		if err := r.Store.SavePublication(pub); err != nil {
			r.Logger.Error("Failed to save refreshed publication",
				zap.String("pmid", pub.PMID), zap.Error(err))
			continue
		}
		updated++
	}

	r.Logger.Info("Publication refresh finished",
		zap.Int("total", len(pubs)), zap.Int("updated", updated))
	return updated, nil
}
