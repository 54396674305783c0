// Package sync rebuilds the JSON fleet data from the source Excel
// workbook. The workbook is the system of record maintained by the
// fleet office; this package flattens it into the catalog and record
// files the chatbot reads.
package sync

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/ukydev/fleet-chatbot/internal/models"
)

// Sheet name candidates, tried in order. The office has renamed the
// main sheet more than once.
var (
	vehicleSheets     = []string{"Vehicles", "Vehicle Data", "Main Data", "Sheet1"}
	maintenanceSheets = []string{"Maintenance", "Maintenance Records", "Service History"}
)

const historyLimit = 50

// Mirror receives the synced dataset in addition to the JSON files.
// The Mongo store implements it so both backends stay in step.
type Mirror interface {
	ReplaceAll(ctx context.Context, vehicles []models.Vehicle, records []models.MaintenanceRecord) error
}

// Event is one entry in the sync history.
type Event struct {
	Time       string `json:"time"`
	SourceFile string `json:"source_file"`
	SourceHash string `json:"source_hash"`
	Vehicles   int    `json:"vehicles"`
	Records    int    `json:"records"`
	Changed    bool   `json:"changed"`
	Error      string `json:"error,omitempty"`
}

// Tracking is the on-disk sync state: the hash of the last workbook
// imported and a capped history of sync runs.
type Tracking struct {
	LastHash string  `json:"last_hash"`
	LastSync string  `json:"last_sync"`
	History  []Event `json:"history"`
}

// Result summarizes a single sync run.
type Result struct {
	Changed  bool
	Vehicles int
	Records  int
	Faults   int
}

// Syncer imports the Excel workbook into the JSON data files.
type Syncer struct {
	SourcePath   string
	CatalogPath  string
	RecordsPath  string
	FaultsPath   string
	TrackingPath string

	mirror Mirror
	now    func() time.Time
}

// NewSyncer creates a syncer. mirror may be nil when only the file
// backend is in use.
func NewSyncer(sourcePath, catalogPath, recordsPath, faultsPath, trackingPath string, mirror Mirror) *Syncer {
	return &Syncer{
		SourcePath:   sourcePath,
		CatalogPath:  catalogPath,
		RecordsPath:  recordsPath,
		FaultsPath:   faultsPath,
		TrackingPath: trackingPath,
		mirror:       mirror,
		now:          time.Now,
	}
}

// Run imports the workbook if it changed since the last run. A
// workbook with the same content hash is skipped.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	logger := log.WithField("source", s.SourcePath)

	raw, err := os.ReadFile(s.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	sum := md5.Sum(raw)
	hash := hex.EncodeToString(sum[:])

	tracking := s.loadTracking()
	if tracking.LastHash == hash {
		logger.Debug("workbook unchanged, skipping sync")
		return &Result{Changed: false}, nil
	}

	vehicles, records, err := s.extract()
	if err != nil {
		s.recordEvent(tracking, hash, 0, 0, false, err)
		return nil, err
	}

	timestamp := s.now().Format(time.RFC3339)
	source := filepath.Base(s.SourcePath)

	catalog := models.VehicleCatalog{
		Vehicles:      vehicles,
		TotalVehicles: len(vehicles),
		LastUpdated:   timestamp,
		SourceFile:    source,
	}
	if err := writeJSONAtomic(s.CatalogPath, catalog); err != nil {
		s.recordEvent(tracking, hash, 0, 0, false, err)
		return nil, err
	}

	logbook := models.MaintenanceLog{
		Records:      records,
		TotalRecords: len(records),
		LastUpdated:  timestamp,
		SourceFile:   source,
	}
	if err := writeJSONAtomic(s.RecordsPath, logbook); err != nil {
		s.recordEvent(tracking, hash, len(vehicles), 0, false, err)
		return nil, err
	}

	faults := faultSummary(records, timestamp)
	if err := writeJSONAtomic(s.FaultsPath, faults); err != nil {
		s.recordEvent(tracking, hash, len(vehicles), len(records), false, err)
		return nil, err
	}

	if s.mirror != nil {
		if err := s.mirror.ReplaceAll(ctx, vehicles, records); err != nil {
			logger.WithError(err).Error("failed to mirror dataset")
		}
	}

	tracking.LastHash = hash
	s.recordEvent(tracking, hash, len(vehicles), len(records), true, nil)

	logger.WithFields(log.Fields{
		"vehicles": len(vehicles),
		"records":  len(records),
		"faults":   faults.TotalFaults,
	}).Info("sync complete")

	return &Result{
		Changed:  true,
		Vehicles: len(vehicles),
		Records:  len(records),
		Faults:   faults.TotalFaults,
	}, nil
}

// Status returns the current tracking state for the admin API.
func (s *Syncer) Status() *Tracking {
	return s.loadTracking()
}

func (s *Syncer) extract() ([]models.Vehicle, []models.MaintenanceRecord, error) {
	f, err := excelize.OpenFile(s.SourcePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	vehicleSheet := pickSheet(f, vehicleSheets, true)
	if vehicleSheet == "" {
		return nil, nil, fmt.Errorf("no vehicle sheet found in %s", filepath.Base(s.SourcePath))
	}

	vehicles, err := extractVehicles(f, vehicleSheet)
	if err != nil {
		return nil, nil, err
	}

	var records []models.MaintenanceRecord
	if sheet := pickSheet(f, maintenanceSheets, false); sheet != "" {
		records, err = extractRecords(f, sheet)
		if err != nil {
			return nil, nil, err
		}
	}
	return vehicles, records, nil
}

// pickSheet returns the first candidate sheet present in the workbook.
// With fallbackFirst set it settles for the workbook's first sheet,
// which covers single-sheet exports.
func pickSheet(f *excelize.File, candidates []string, fallbackFirst bool) string {
	existing := map[string]bool{}
	for _, name := range f.GetSheetList() {
		existing[name] = true
	}
	for _, name := range candidates {
		if existing[name] {
			return name
		}
	}
	if fallbackFirst && len(f.GetSheetList()) > 0 {
		return f.GetSheetList()[0]
	}
	return ""
}

func extractVehicles(f *excelize.File, sheet string) ([]models.Vehicle, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	cols := headerIndex(rows[0])
	var vehicles []models.Vehicle
	for i, row := range rows[1:] {
		plate := cell(row, cols, "license plate", "plate", "לוחית רישוי")
		if plate == "" {
			continue
		}
		v := models.Vehicle{
			ID:           cell(row, cols, "id", "vehicle id"),
			LicensePlate: plate,
			VIN:          cell(row, cols, "vin"),
			Make:         cell(row, cols, "make", "יצרן"),
			Model:        cell(row, cols, "model", "דגם"),
			Year:         atoi(cell(row, cols, "year", "שנה")),
			Type:         cell(row, cols, "type"),
			Category:     cell(row, cols, "category"),
			Status:       cell(row, cols, "status", "סטטוס"),
			Location:     cell(row, cols, "location"),
			Driver: models.Driver{
				Name:  cell(row, cols, "driver", "driver name", "נהג"),
				Phone: cell(row, cols, "phone", "driver phone", "טלפון"),
			},
			Specifications: models.Specifications{
				Color:    cell(row, cols, "color"),
				FuelType: cell(row, cols, "fuel", "fuel type"),
			},
		}
		if v.ID == "" {
			v.ID = fmt.Sprintf("V%03d", i+1)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

func extractRecords(f *excelize.File, sheet string) ([]models.MaintenanceRecord, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	cols := headerIndex(rows[0])
	var records []models.MaintenanceRecord
	for _, row := range rows[1:] {
		plate := cell(row, cols, "license plate", "plate", "לוחית רישוי")
		date := cell(row, cols, "date", "תאריך")
		if plate == "" && date == "" {
			continue
		}
		r := models.MaintenanceRecord{
			VehicleID:     cell(row, cols, "vehicle id", "id"),
			LicensePlate:  plate,
			DriverName:    cell(row, cols, "driver", "driver name", "נהג"),
			Date:          date,
			Type:          cell(row, cols, "type", "service type", "סוג טיפול"),
			Description:   cell(row, cols, "description", "תיאור"),
			Cost:          atof(cell(row, cols, "cost", "עלות")),
			Status:        cell(row, cols, "status", "סטטוס"),
			Provider:      cell(row, cols, "provider", "garage"),
			Mileage:       atoi(cell(row, cols, "mileage", "km")),
			NextService:   cell(row, cols, "next service"),
			FaultType:     cell(row, cols, "fault type", "סוג תקלה"),
			FaultSeverity: cell(row, cols, "fault severity", "severity", "חומרה"),
			RepairCost:    atof(cell(row, cols, "repair cost")),
			RepairDays:    atoi(cell(row, cols, "repair days")),
		}
		records = append(records, r)
	}
	return records, nil
}

// FaultSummary is the fault report document the sync process derives
// from the maintenance records.
type FaultSummary struct {
	GeneratedAt string                     `json:"generated_at"`
	TotalFaults int                        `json:"total_faults"`
	BySeverity  map[string]int             `json:"by_severity"`
	Records     []models.MaintenanceRecord `json:"records"`
}

func faultSummary(records []models.MaintenanceRecord, timestamp string) FaultSummary {
	summary := FaultSummary{
		GeneratedAt: timestamp,
		BySeverity:  map[string]int{},
		Records:     []models.MaintenanceRecord{},
	}
	for _, r := range records {
		if !r.IsFault() {
			continue
		}
		summary.Records = append(summary.Records, r)
		severity := r.FaultSeverity
		if severity == "" {
			severity = "unknown"
		}
		summary.BySeverity[severity]++
	}
	summary.TotalFaults = len(summary.Records)
	return summary
}

func (s *Syncer) loadTracking() *Tracking {
	t := &Tracking{}
	raw, err := os.ReadFile(s.TrackingPath)
	if err != nil {
		return t
	}
	if err := json.Unmarshal(raw, t); err != nil {
		log.WithError(err).WithField("path", s.TrackingPath).Warn("malformed sync tracking file, starting fresh")
		return &Tracking{}
	}
	return t
}

func (s *Syncer) recordEvent(t *Tracking, hash string, vehicles, records int, changed bool, runErr error) {
	ev := Event{
		Time:       s.now().Format(time.RFC3339),
		SourceFile: filepath.Base(s.SourcePath),
		SourceHash: hash,
		Vehicles:   vehicles,
		Records:    records,
		Changed:    changed,
	}
	if runErr != nil {
		ev.Error = runErr.Error()
	}
	t.History = append(t.History, ev)
	if len(t.History) > historyLimit {
		t.History = t.History[len(t.History)-historyLimit:]
	}
	t.LastSync = ev.Time

	if err := writeJSONAtomic(s.TrackingPath, t); err != nil {
		log.WithError(err).Warn("failed to save sync tracking")
	}
}

// writeJSONAtomic writes to a temp file in the target directory and
// renames it into place, so readers never see a partial file.
func writeJSONAtomic(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".sync-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

// cell returns the trimmed value of the first header name present in
// the row.
func cell(row []string, cols map[string]int, names ...string) string {
	for _, name := range names {
		if i, ok := cols[name]; ok && i < len(row) {
			if v := strings.TrimSpace(row[i]); v != "" {
				return v
			}
		}
	}
	return ""
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atof(s string) float64 {
	s = strings.TrimPrefix(s, "₪")
	s = strings.ReplaceAll(s, ",", "")
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
