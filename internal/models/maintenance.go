package models

import "time"

// Record dates arrive from the sync process as strings in one of these
// layouts. ParseRecordDate tries them in order.
var recordDateLayouts = []string{"2006-01-02", "02/01/2006"}

// MaintenanceRecord represents a single service or fault entry for a
// vehicle. Fault fields are only present on records that describe a
// reported fault.
type MaintenanceRecord struct {
	VehicleID    string  `json:"vehicle_id" bson:"vehicle_id"`
	LicensePlate string  `json:"license_plate" bson:"license_plate"`
	DriverName   string  `json:"driver_name,omitempty" bson:"driver_name,omitempty"`
	Date         string  `json:"date" bson:"date"`
	Type         string  `json:"type" bson:"type"`
	Description  string  `json:"description,omitempty" bson:"description,omitempty"`
	Cost         float64 `json:"cost" bson:"cost"`
	Status       string  `json:"status" bson:"status"`
	Provider     string  `json:"provider,omitempty" bson:"provider,omitempty"`
	Mileage      int     `json:"mileage,omitempty" bson:"mileage,omitempty"`
	NextService  string  `json:"next_service,omitempty" bson:"next_service,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty" bson:"created_at,omitempty"`

	FaultType     string  `json:"fault_type,omitempty" bson:"fault_type,omitempty"`
	FaultSeverity string  `json:"fault_severity,omitempty" bson:"fault_severity,omitempty"`
	RepairCost    float64 `json:"repair_cost,omitempty" bson:"repair_cost,omitempty"`
	RepairDays    int     `json:"repair_days,omitempty" bson:"repair_days,omitempty"`
}

// IsFault reports whether the record describes a reported fault.
func (r *MaintenanceRecord) IsFault() bool {
	return r.FaultType != ""
}

// ParsedDate returns the record date as a time.Time. The second return
// value is false when the date is missing or in an unknown layout.
func (r *MaintenanceRecord) ParsedDate() (time.Time, bool) {
	return ParseRecordDate(r.Date)
}

// ParseRecordDate parses a record date string in any supported layout.
func ParseRecordDate(s string) (time.Time, bool) {
	for _, layout := range recordDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MaintenanceLog is the on-disk document wrapping the record list.
type MaintenanceLog struct {
	Records      []MaintenanceRecord `json:"records"`
	TotalRecords int                 `json:"total_records,omitempty"`
	LastUpdated  string              `json:"last_updated,omitempty"`
	SourceFile   string              `json:"source_file,omitempty"`
}
