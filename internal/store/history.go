package store

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ayusman/ergoguard/internal/history"
)

// HistoryRepository stores posture history as one JSON document in the settings table.
type HistoryRepository struct {
	db *sqlx.DB
}

// History returns the history repository for this store.
func (s *Store) History() *HistoryRepository {
	return &HistoryRepository{db: s.db}
}

// List returns all entries in insertion order. A corrupt document reads as empty.
func (r *HistoryRepository) List() ([]history.Entry, error) {
	data, err := getSetting(r.db, KeyPostureHistory)
	if errors.Is(err, ErrNotFound) {
		return []history.Entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return history.Decode(data), nil
}

// Append adds an entry to the end of the history.
func (r *HistoryRepository) Append(entry history.Entry) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	entries := []history.Entry{}
	data, err := getSetting(tx, KeyPostureHistory)
	switch {
	case err == nil:
		entries = history.Decode(data)
	case !errors.Is(err, ErrNotFound):
		return err
	}

	encoded, err := history.Encode(append(entries, entry))
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := setSetting(tx, KeyPostureHistory, encoded); err != nil {
		return err
	}

	return tx.Commit()
}

// Clear removes all history entries.
func (r *HistoryRepository) Clear() error {
	return setSetting(r.db, KeyPostureHistory, history.EmptyJSON)
}
