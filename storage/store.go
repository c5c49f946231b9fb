// Package storage kapselt alle Datenbankzugriffe hinter einem Store.
// Services arbeiten gegen den Store statt direkt gegen GORM, damit
// Transaktionen und das Tombstone-Verhalten an einer Stelle liegen.
package storage

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store bündelt die Repository-Methoden über einer GORM-Verbindung.
type Store struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewStore erstellt einen neuen Store.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{DB: db, Logger: logger}
}

// Transaction führt fn in einer Datenbanktransaktion aus. Der an fn
// übergebene Store arbeitet auf der Transaktion; ein Fehler rollt
// alles zurück.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx, Logger: s.Logger})
	})
}
