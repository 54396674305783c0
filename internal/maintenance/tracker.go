package maintenance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ukydev/fleet-chatbot/internal/models"
	"github.com/ukydev/fleet-chatbot/internal/store"
)

// Service status values derived from the latest record.
const (
	StatusNoRecords = "no_records"
	StatusOverdue   = "overdue"
	StatusDueSoon   = "due_soon"
	StatusUpcoming  = "upcoming"
	StatusCurrent   = "current"
)

const defaultService = "general_inspection"

// Tracker derives maintenance status, alerts and statistics from a fleet
// snapshot. It holds only the fixed interval and cost tables; all data
// is passed in explicitly so a snapshot loaded for one request is reused
// throughout it.
type Tracker struct {
	intervals    map[string]int     // service type -> days between services
	serviceCosts map[string]float64 // service type -> estimated cost
}

// NewTracker creates a tracker with the standard interval and estimated
// cost tables.
func NewTracker() *Tracker {
	return &Tracker{
		intervals: map[string]int{
			"oil_change":             90,
			"brake_inspection":       180,
			"tire_rotation":          120,
			"engine_service":         365,
			"transmission_service":   730,
			"general_inspection":     180,
			"preventive_maintenance": 90,
		},
		serviceCosts: map[string]float64{
			"oil_change":             85.00,
			"brake_inspection":       120.00,
			"tire_rotation":          25.00,
			"engine_service":         300.00,
			"transmission_service":   450.00,
			"general_inspection":     150.00,
			"preventive_maintenance": 200.00,
		},
	}
}

// Status describes where a vehicle stands in its maintenance cycle.
type Status struct {
	VehicleID            string
	LicensePlate         string
	State                string
	LastServiceDate      string
	NextServiceDate      string
	DaysSinceLastService int
	DaysUntilNextService int
	Overdue              bool
	RecommendedService   string
	LastServiceType      string
	LastServiceCost      float64
}

// History returns a vehicle's maintenance records sorted newest first.
// Records with unparseable dates sort last.
func (t *Tracker) History(records []models.MaintenanceRecord) []models.MaintenanceRecord {
	out := make([]models.MaintenanceRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		di, oki := out[i].ParsedDate()
		dj, okj := out[j].ParsedDate()
		if oki != okj {
			return oki
		}
		return di.After(dj)
	})
	return out
}

// VehicleStatus computes the maintenance status for one vehicle from its
// records. now is passed in so the arithmetic is deterministic in tests.
func (t *Tracker) VehicleStatus(vehicle *models.Vehicle, records []models.MaintenanceRecord, now time.Time) Status {
	status := Status{
		VehicleID:          vehicle.ID,
		LicensePlate:       vehicle.LicensePlate,
		State:              StatusNoRecords,
		RecommendedService: defaultService,
	}

	history := t.History(records)
	if len(history) == 0 {
		return status
	}

	latest := history[0]
	status.LastServiceDate = latest.Date
	status.LastServiceType = latest.Type
	status.LastServiceCost = latest.Cost

	serviceType := latest.Type
	interval, ok := t.intervals[serviceType]
	if !ok {
		interval = 180
	}
	status.RecommendedService = serviceType
	if serviceType == "" {
		status.RecommendedService = defaultService
	}

	lastDate, ok := latest.ParsedDate()
	if !ok {
		return status
	}

	status.DaysSinceLastService = int(now.Sub(lastDate).Hours() / 24)
	nextDate := lastDate.AddDate(0, 0, interval)
	status.NextServiceDate = nextDate.Format("2006-01-02")
	status.DaysUntilNextService = int(nextDate.Sub(now).Hours() / 24)

	switch {
	case status.DaysUntilNextService < 0:
		status.State = StatusOverdue
		status.Overdue = true
	case status.DaysUntilNextService <= 7:
		status.State = StatusDueSoon
	case status.DaysUntilNextService <= 30:
		status.State = StatusUpcoming
	default:
		status.State = StatusCurrent
	}
	return status
}

// Alerts scans the whole fleet and returns maintenance alerts for
// vehicles due within daysAhead, sorted by priority then urgency.
func (t *Tracker) Alerts(snap *store.Snapshot, now time.Time, daysAhead int) []models.MaintenanceAlert {
	var alerts []models.MaintenanceAlert

	for i := range snap.Vehicles {
		vehicle := &snap.Vehicles[i]
		if vehicle.ID == "" {
			continue
		}
		records := snap.RecordsForVehicleID(vehicle.ID)
		if len(records) == 0 {
			records = snap.RecordsForPlate(vehicle.LicensePlate)
		}
		status := t.VehicleStatus(vehicle, records, now)

		if status.State == StatusNoRecords {
			alerts = append(alerts, models.MaintenanceAlert{
				VehicleID:       vehicle.ID,
				VehicleName:     vehicleName(vehicle),
				LicensePlate:    vehicle.LicensePlate,
				AlertType:       models.AlertDue,
				DaysUntilDue:    0,
				LastServiceDate: "Never",
				NextServiceDate: now.Format("2006-01-02"),
				ServiceType:     defaultService,
				Priority:        models.PriorityHigh,
				EstimatedCost:   t.serviceCosts[defaultService],
				Description:     "No maintenance records found - general inspection recommended",
			})
			continue
		}
		if status.NextServiceDate == "" {
			continue
		}

		var alertType models.AlertType
		var priority string
		switch {
		case status.DaysUntilNextService < 0:
			alertType = models.AlertOverdue
			priority = models.PriorityCritical
		case status.DaysUntilNextService <= 7:
			alertType = models.AlertDue
			priority = models.PriorityHigh
		case status.DaysUntilNextService <= daysAhead:
			alertType = models.AlertUpcoming
			priority = models.PriorityMedium
		default:
			continue
		}

		serviceType := status.RecommendedService
		cost, ok := t.serviceCosts[serviceType]
		if !ok {
			cost = 150.0
		}

		days := status.DaysUntilNextService
		if days < 0 {
			days = -days
		}
		alerts = append(alerts, models.MaintenanceAlert{
			VehicleID:       vehicle.ID,
			VehicleName:     vehicleName(vehicle),
			LicensePlate:    vehicle.LicensePlate,
			AlertType:       alertType,
			DaysUntilDue:    status.DaysUntilNextService,
			LastServiceDate: status.LastServiceDate,
			NextServiceDate: status.NextServiceDate,
			ServiceType:     serviceType,
			Priority:        priority,
			EstimatedCost:   cost,
			Description:     fmt.Sprintf("%s due in %d days", titleService(serviceType), days),
		})
	}

	order := map[string]int{
		models.PriorityCritical: 0,
		models.PriorityHigh:     1,
		models.PriorityMedium:   2,
		models.PriorityLow:      3,
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		pi, pj := order[alerts[i].Priority], order[alerts[j].Priority]
		if pi != pj {
			return pi < pj
		}
		return alerts[i].DaysUntilDue < alerts[j].DaysUntilDue
	})
	return alerts
}

// Stats computes fleet-wide maintenance statistics.
func (t *Tracker) Stats(snap *store.Snapshot, now time.Time) models.MaintenanceStats {
	stats := models.MaintenanceStats{
		TotalVehicles:     len(snap.Vehicles),
		MostCommonService: "Unknown",
	}

	for _, a := range t.Alerts(snap, now, 30) {
		switch a.AlertType {
		case models.AlertDue:
			stats.VehiclesDue++
		case models.AlertOverdue:
			stats.VehiclesOverdue++
		}
	}

	serviceCounts := map[string]int{}
	for _, r := range snap.Records {
		if r.Type != "" {
			serviceCounts[r.Type]++
		}
		date, ok := r.ParsedDate()
		if !ok {
			continue
		}
		age := now.Sub(date)
		if age <= 30*24*time.Hour {
			stats.TotalCost30Days += r.Cost
		}
		if age <= 90*24*time.Hour {
			stats.TotalCost90Days += r.Cost
		}
		if age <= 365*24*time.Hour {
			stats.TotalCostYear += r.Cost
		}
	}

	best := 0
	for svc, n := range serviceCounts {
		if n > best || (n == best && best > 0 && svc < stats.MostCommonService) {
			best = n
			stats.MostCommonService = svc
		}
	}

	if stats.TotalVehicles > 0 {
		stats.AverageCostPerVehicle = stats.TotalCostYear / float64(stats.TotalVehicles)
		stats.MaintenanceFrequency = float64(len(snap.Records)) / float64(stats.TotalVehicles)
	}
	return stats
}

func vehicleName(v *models.Vehicle) string {
	name := strings.TrimSpace(v.Make + " " + v.Model)
	if name == "" {
		return "Unknown"
	}
	return name
}

func titleService(serviceType string) string {
	words := strings.Split(strings.ReplaceAll(serviceType, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
