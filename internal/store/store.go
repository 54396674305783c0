package store

import (
	"context"
	"strings"

	"github.com/ukydev/fleet-chatbot/internal/models"
)

// Store loads a point-in-time snapshot of the fleet data. The sync
// process may replace the underlying data at any time, so callers load
// once per request and reuse the snapshot for matching, lookup and
// formatting.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// Snapshot holds the vehicle catalog and maintenance log as read in a
// single load. It is never mutated after creation.
type Snapshot struct {
	Vehicles []models.Vehicle
	Records  []models.MaintenanceRecord
}

// FindVehicleByPlate returns the vehicle with the given license plate,
// compared case-insensitively, or nil when no vehicle matches.
func (s *Snapshot) FindVehicleByPlate(plate string) *models.Vehicle {
	for i := range s.Vehicles {
		if strings.EqualFold(s.Vehicles[i].LicensePlate, plate) {
			return &s.Vehicles[i]
		}
	}
	return nil
}

// FindVehicleByID returns the vehicle with the given catalog ID, or nil.
func (s *Snapshot) FindVehicleByID(id string) *models.Vehicle {
	for i := range s.Vehicles {
		if s.Vehicles[i].ID == id {
			return &s.Vehicles[i]
		}
	}
	return nil
}

// RecordsForPlate returns every maintenance record whose plate matches,
// case-insensitively, in file order. Orphaned records whose plate has no
// vehicle are simply never asked for.
func (s *Snapshot) RecordsForPlate(plate string) []models.MaintenanceRecord {
	var out []models.MaintenanceRecord
	for _, r := range s.Records {
		if strings.EqualFold(r.LicensePlate, plate) {
			out = append(out, r)
		}
	}
	return out
}

// RecordsForVehicleID returns every maintenance record for a vehicle ID.
func (s *Snapshot) RecordsForVehicleID(id string) []models.MaintenanceRecord {
	var out []models.MaintenanceRecord
	for _, r := range s.Records {
		if r.VehicleID == id {
			out = append(out, r)
		}
	}
	return out
}
