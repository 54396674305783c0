package bot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-chatbot/internal/models"
	"github.com/ukydev/fleet-chatbot/internal/report"
	"github.com/ukydev/fleet-chatbot/internal/store"
)

type staticStore struct {
	snap *store.Snapshot
	err  error
}

func (s *staticStore) Load(ctx context.Context) (*store.Snapshot, error) {
	return s.snap, s.err
}

type staticURL struct {
	url string
	err error
}

func (s *staticURL) PublicURL(ctx context.Context) (string, error) {
	return s.url, s.err
}

type failingPDF struct{}

func (failingPDF) Generate(*models.Vehicle, []models.MaintenanceRecord, string) error {
	return errors.New("boom")
}

func fleetSnapshot() *store.Snapshot {
	return &store.Snapshot{
		Vehicles: []models.Vehicle{
			{
				ID: "V001", LicensePlate: "22-727-57", Make: "Mazda", Model: "Mazda3", Year: 2022,
				Status: "פעיל",
				Driver: models.Driver{Name: "אלון ישראלי", Phone: "+972-51-9268240"},
			},
		},
		Records: []models.MaintenanceRecord{
			{VehicleID: "V001", LicensePlate: "22-727-57", Date: "2024-08-25", Type: "oil_change", Cost: 450, Status: "Completed"},
			{VehicleID: "V001", LicensePlate: "22-727-57", Date: "2024-07-18", Type: "engine_service", Cost: 1070, Status: "Completed"},
			{VehicleID: "V001", LicensePlate: "22-727-57", Date: "2024-02-23", Type: "brake_inspection", Cost: 948, Status: "Completed"},
		},
	}
}

func newTestResponder(t *testing.T, snap *store.Snapshot) *Responder {
	t.Helper()
	return NewResponder(
		&staticStore{snap: snap},
		report.NewGenerator(),
		&staticURL{url: "https://abc123.ngrok.io"},
		t.TempDir(),
	)
}

func TestHandle_MaintenanceReport_EndToEnd(t *testing.T) {
	r := newTestResponder(t, fleetSnapshot())

	reply := r.Handle(context.Background(), "whatsapp:+972501234567", "דוח תחזוקה 22-727-57")

	assert.Contains(t, reply.Body, "דוח התחזוקה")
	assert.Contains(t, reply.Body, "22-727-57")
	require.NotEmpty(t, reply.MediaURL)
	assert.Contains(t, reply.MediaURL, "22-727-57")
	assert.True(t, strings.HasPrefix(reply.MediaURL, "https://abc123.ngrok.io/download/"))
	assert.True(t, strings.HasSuffix(reply.MediaURL, ".pdf"))

	// the referenced file actually exists in the reports dir
	filename := strings.TrimPrefix(reply.MediaURL, "https://abc123.ngrok.io/download/")
	_, err := os.Stat(filepath.Join(r.reportsDir, filename))
	assert.NoError(t, err)
}

func TestHandle_FaultReport_SamePDFDifferentText(t *testing.T) {
	r := newTestResponder(t, fleetSnapshot())

	reply := r.Handle(context.Background(), "whatsapp:+972501234567", "דוח תקלות 22-727-57")
	assert.Contains(t, reply.Body, "דוח התקלות")
	assert.NotEmpty(t, reply.MediaURL)
}

func TestHandle_FaultReport_NoPlate(t *testing.T) {
	r := newTestResponder(t, fleetSnapshot())

	reply := r.Handle(context.Background(), "whatsapp:+972501234567", "דוח תקלות")
	assert.Contains(t, reply.Body, "לוחית רישוי")
	assert.Empty(t, reply.MediaURL)
}

func TestHandle_Search(t *testing.T) {
	r := newTestResponder(t, fleetSnapshot())

	reply := r.Handle(context.Background(), "whatsapp:+972501234567", "חיפוש 22 727 57")
	assert.Contains(t, reply.Body, "22-727-57")
	assert.Contains(t, reply.Body, "Mazda")
	assert.Contains(t, reply.Body, "אלון ישראלי")
	assert.Empty(t, reply.MediaURL)
}

func TestHandle_Search_PlateNotFound(t *testing.T) {
	r := newTestResponder(t, fleetSnapshot())

	reply := r.Handle(context.Background(), "whatsapp:+972501234567", "חיפוש 99-999-99")
	assert.Contains(t, reply.Body, "99-999-99")
	assert.Contains(t, reply.Body, "לא נמצא")
	assert.Empty(t, reply.MediaURL)
}

func TestHandle_Help(t *testing.T) {
	r := newTestResponder(t, fleetSnapshot())

	reply := r.Handle(context.Background(), "whatsapp:+972501234567", "שלום")
	assert.Contains(t, reply.Body, "פקודות זמינות")
	assert.Empty(t, reply.MediaURL)
}

func TestHandle_PDFFailure_GenericError(t *testing.T) {
	r := NewResponder(&staticStore{snap: fleetSnapshot()}, failingPDF{}, &staticURL{}, t.TempDir())

	reply := r.Handle(context.Background(), "whatsapp:+972501234567", "דוח תחזוקה 22-727-57")
	assert.Equal(t, report.MsgReportError, reply.Body)
	assert.Empty(t, reply.MediaURL)
}

func TestHandle_TunnelFailure_FallsBackToLocal(t *testing.T) {
	r := NewResponder(
		&staticStore{snap: fleetSnapshot()},
		report.NewGenerator(),
		&staticURL{err: errors.New("ngrok down")},
		t.TempDir(),
	)

	reply := r.Handle(context.Background(), "whatsapp:+972501234567", "דוח תחזוקה 22-727-57")
	assert.True(t, strings.HasPrefix(reply.MediaURL, "http://localhost:5000/download/"))
}

func TestHandle_StoreFailure_GenericError(t *testing.T) {
	r := NewResponder(&staticStore{err: errors.New("backend down")}, failingPDF{}, &staticURL{}, t.TempDir())

	reply := r.Handle(context.Background(), "whatsapp:+972501234567", "חיפוש 22-727-57")
	assert.Equal(t, report.MsgGenericError, reply.Body)
}
