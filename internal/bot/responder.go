// Package bot holds the message pipeline: classify the inbound text,
// extract a license plate, look the vehicle up in a fresh snapshot and
// format the reply. Every branch yields a reply; failures never reach
// the transport layer.
package bot

import (
	"context"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-chatbot/internal/intent"
	"github.com/ukydev/fleet-chatbot/internal/models"
	"github.com/ukydev/fleet-chatbot/internal/report"
	"github.com/ukydev/fleet-chatbot/internal/store"
)

// PDFGenerator writes a maintenance report for a vehicle to a path.
type PDFGenerator interface {
	Generate(vehicle *models.Vehicle, records []models.MaintenanceRecord, outputPath string) error
}

// URLResolver returns the public base URL download links are built on.
type URLResolver interface {
	PublicURL(ctx context.Context) (string, error)
}

// Reply is what the webhook sends back: a text body and an optional
// media URL pointing at a generated report.
type Reply struct {
	Body     string
	MediaURL string
}

// Responder runs the reply pipeline for inbound messages.
type Responder struct {
	store      store.Store
	pdf        PDFGenerator
	urls       URLResolver
	reportsDir string
	now        func() time.Time
}

// NewResponder wires the pipeline together. reportsDir is where
// generated PDFs land and is also the directory the download endpoint
// serves.
func NewResponder(s store.Store, pdf PDFGenerator, urls URLResolver, reportsDir string) *Responder {
	return &Responder{
		store:      s,
		pdf:        pdf,
		urls:       urls,
		reportsDir: reportsDir,
		now:        time.Now,
	}
}

// Handle processes one inbound message and always returns a reply.
// The snapshot is loaded once and reused for lookup and formatting, so
// a concurrent sync rewrite cannot tear a single request.
func (r *Responder) Handle(ctx context.Context, from, body string) Reply {
	logger := log.WithField("from", from)
	logger.WithField("message", body).Info("message received")

	snap, err := r.store.Load(ctx)
	if err != nil {
		logger.WithError(err).Error("failed to load fleet snapshot")
		return Reply{Body: report.MsgGenericError}
	}

	switch intent.Classify(body) {
	case intent.IntentVehicleSearch:
		return r.handleSearch(logger, snap, body)
	case intent.IntentFaultReport:
		return r.handleReport(ctx, logger, snap, body, true)
	case intent.IntentMaintenanceReport:
		return r.handleReport(ctx, logger, snap, body, false)
	default:
		return Reply{Body: report.HelpMessage}
	}
}

func (r *Responder) handleSearch(logger *log.Entry, snap *store.Snapshot, body string) Reply {
	plate, ok := intent.ExtractPlate(body)
	if !ok {
		return Reply{Body: "לא נמצאה לוחית רישוי בהודעה. אנא ציין לוחית רישוי לחיפוש."}
	}
	logger.WithField("plate", plate).Info("vehicle search")

	vehicle := snap.FindVehicleByPlate(plate)
	if vehicle == nil {
		return Reply{Body: report.MsgVehicleNotFound(plate)}
	}
	return Reply{Body: report.VehicleSearchReply(vehicle)}
}

// handleReport serves both the maintenance-report and fault-report
// intents. The generated document is identical; only the confirmation
// text differs.
func (r *Responder) handleReport(ctx context.Context, logger *log.Entry, snap *store.Snapshot, body string, fault bool) Reply {
	plate, ok := intent.ExtractPlate(body)
	if !ok {
		return Reply{Body: report.MsgNoPlateFound}
	}
	logger = logger.WithField("plate", plate)
	logger.Info("report request")

	vehicle := snap.FindVehicleByPlate(plate)
	if vehicle == nil {
		return Reply{Body: report.MsgVehicleNotFound(plate)}
	}

	records := snap.RecordsForPlate(plate)
	filename := report.FileName(plate, r.now())
	outputPath := filepath.Join(r.reportsDir, filename)

	if err := r.pdf.Generate(vehicle, records, outputPath); err != nil {
		logger.WithError(err).Error("failed to generate report")
		return Reply{Body: report.MsgReportError}
	}

	downloadURL := r.downloadURL(ctx, logger, filename)
	logger.WithField("url", downloadURL).Info("report ready")

	text := report.MsgMaintenanceReportReady(plate)
	if fault {
		text = report.MsgFaultReportReady(plate)
	}
	return Reply{Body: text, MediaURL: downloadURL}
}

func (r *Responder) downloadURL(ctx context.Context, logger *log.Entry, filename string) string {
	base := "http://localhost:5000"
	if r.urls != nil {
		if url, err := r.urls.PublicURL(ctx); err == nil && url != "" {
			base = url
		} else if err != nil {
			logger.WithError(err).Warn("public URL discovery failed, using local address")
		}
	}
	return base + "/download/" + filename
}
