// Package store persists the ledger as a whole-collection YAML snapshot.
// The core reads and writes complete collections; no partial-update or
// query capability exists.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"mhoward/lettings-ledger/internal/logging"
	"mhoward/lettings-ledger/internal/models"
)

// LedgerStore loads and saves the ledger snapshot file.
type LedgerStore struct {
	Path   string
	logger logging.Logger
}

// NewLedgerStore creates a store for the given snapshot path.
func NewLedgerStore(path string, logger logging.Logger) *LedgerStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &LedgerStore{Path: path, logger: logger}
}

// Load reads the snapshot. A missing file is not an error: a fresh ledger
// starts empty.
func (s *LedgerStore) Load() (*models.LedgerSnapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField("path", s.Path).Debug("Ledger file not found, starting empty")
			return &models.LedgerSnapshot{}, nil
		}
		return nil, fmt.Errorf("error reading ledger file: %w", err)
	}

	var snapshot models.LedgerSnapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("error parsing ledger file: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: "transactions", Value: len(snapshot.Transactions)},
		logging.Field{Key: "invoices", Value: len(snapshot.Invoices)},
		logging.Field{Key: "properties", Value: len(snapshot.Properties)},
	).Debug("Loaded ledger snapshot")
	return &snapshot, nil
}

// Save replaces the snapshot file with the given collections.
func (s *LedgerStore) Save(snapshot models.LedgerSnapshot) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("error marshaling ledger snapshot: %w", err)
	}

	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("error writing ledger file: %w", err)
	}

	s.logger.WithField("path", s.Path).Debug("Saved ledger snapshot")
	return nil
}
