package models

// AlertType classifies how urgent a maintenance alert is.
type AlertType string

const (
	AlertDue      AlertType = "due"
	AlertOverdue  AlertType = "overdue"
	AlertUpcoming AlertType = "upcoming"
)

// Priority tiers for maintenance alerts.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// MaintenanceAlert is derived per vehicle from its latest service record
// and the per-service-type interval table. Alerts are computed on demand
// and never persisted.
type MaintenanceAlert struct {
	VehicleID       string    `json:"vehicle_id"`
	VehicleName     string    `json:"vehicle_name"`
	LicensePlate    string    `json:"license_plate"`
	AlertType       AlertType `json:"alert_type"`
	DaysUntilDue    int       `json:"days_until_due"`
	LastServiceDate string    `json:"last_service_date"`
	NextServiceDate string    `json:"next_service_date"`
	ServiceType     string    `json:"service_type"`
	Priority        string    `json:"priority"`
	EstimatedCost   float64   `json:"estimated_cost"`
	Description     string    `json:"description"`
}

// MaintenanceStats summarizes maintenance activity across the fleet.
type MaintenanceStats struct {
	TotalVehicles         int     `json:"total_vehicles"`
	VehiclesDue           int     `json:"vehicles_due"`
	VehiclesOverdue       int     `json:"vehicles_overdue"`
	TotalCost30Days       float64 `json:"total_cost_30_days"`
	TotalCost90Days       float64 `json:"total_cost_90_days"`
	TotalCostYear         float64 `json:"total_cost_year"`
	AverageCostPerVehicle float64 `json:"average_cost_per_vehicle"`
	MostCommonService     string  `json:"most_common_service"`
	MaintenanceFrequency  float64 `json:"maintenance_frequency"`
}
