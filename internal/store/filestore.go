package store

import (
	"context"
	"encoding/json"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-chatbot/internal/models"
)

// FileStore reads the vehicle catalog and maintenance log from the JSON
// documents the sync process writes. A missing or malformed file is
// treated as empty data, not as a request failure.
type FileStore struct {
	CatalogPath string
	RecordsPath string
}

// NewFileStore creates a file-backed store over the two JSON documents.
func NewFileStore(catalogPath, recordsPath string) *FileStore {
	return &FileStore{CatalogPath: catalogPath, RecordsPath: recordsPath}
}

// Load reads both files. The sync process replaces them atomically
// (write to temp, rename), so each read sees a complete document.
func (s *FileStore) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	var catalog models.VehicleCatalog
	if err := readJSON(s.CatalogPath, &catalog); err != nil {
		log.WithError(err).WithField("path", s.CatalogPath).Error("failed to load vehicle catalog")
	} else {
		snap.Vehicles = catalog.Vehicles
	}

	var maintLog models.MaintenanceLog
	if err := readJSON(s.RecordsPath, &maintLog); err != nil {
		log.WithError(err).WithField("path", s.RecordsPath).Error("failed to load maintenance records")
	} else {
		snap.Records = maintLog.Records
	}

	return snap, nil
}

func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
