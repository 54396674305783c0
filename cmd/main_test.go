package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-chatbot/internal/config"
	"github.com/ukydev/fleet-chatbot/internal/maintenance"
	"github.com/ukydev/fleet-chatbot/internal/models"
	"github.com/ukydev/fleet-chatbot/internal/store"
)

func TestBuildStore_FileBackend(t *testing.T) {
	cfg := &config.Config{
		StoreBackend:           "file",
		VehicleCatalogPath:     "data/vehicle_catalog.json",
		MaintenanceRecordsPath: "data/vehicles/maintenance_records.json",
	}

	dataStore, mirror := buildStore(cfg)
	require.NotNil(t, dataStore)
	assert.Nil(t, mirror)
	assert.IsType(t, &store.FileStore{}, dataStore)
}

type staticStore struct {
	snap *store.Snapshot
}

func (s *staticStore) Load(ctx context.Context) (*store.Snapshot, error) {
	return s.snap, nil
}

type capturePublisher struct {
	alerts []models.MaintenanceAlert
	calls  int
}

func (p *capturePublisher) PublishAlerts(ctx context.Context, alerts []models.MaintenanceAlert) error {
	p.alerts = alerts
	p.calls++
	return nil
}

func TestPublishAlerts(t *testing.T) {
	snap := &store.Snapshot{
		Vehicles: []models.Vehicle{
			{ID: "V001", LicensePlate: "22-727-57", Make: "Mazda", Model: "Mazda3"},
		},
	}
	publisher := &capturePublisher{}

	publishAlerts(&staticStore{snap: snap}, maintenance.NewTracker(), publisher)

	assert.Equal(t, 1, publisher.calls)
	// a vehicle with no service history is flagged for inspection
	require.NotEmpty(t, publisher.alerts)
	assert.Equal(t, "22-727-57", publisher.alerts[0].LicensePlate)
}
