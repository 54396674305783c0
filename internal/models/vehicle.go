package models

// Driver represents the driver assigned to a vehicle.
type Driver struct {
	Name          string `json:"name" bson:"name"`
	ID            string `json:"id" bson:"id"`
	Phone         string `json:"phone" bson:"phone"`
	Email         string `json:"email" bson:"email"`
	LicenseNumber string `json:"license_number" bson:"license_number"`
}

// Specifications holds the technical details of a vehicle.
type Specifications struct {
	Color        string `json:"color" bson:"color"`
	Engine       string `json:"engine" bson:"engine"`
	Transmission string `json:"transmission" bson:"transmission"`
	FuelType     string `json:"fuel_type" bson:"fuel_type"`
}

// Insurance holds the insurance details of a vehicle.
type Insurance struct {
	Provider     string `json:"provider" bson:"provider"`
	PolicyNumber string `json:"policy_number" bson:"policy_number"`
	ExpiryDate   string `json:"expiry_date" bson:"expiry_date"`
}

// Vehicle represents a fleet vehicle from the synced catalog.
// The catalog is rebuilt wholesale by the sync process; the chatbot
// only ever reads it.
type Vehicle struct {
	ID             string         `json:"id" bson:"id"`
	LicensePlate   string         `json:"license_plate" bson:"license_plate"`
	VIN            string         `json:"vin,omitempty" bson:"vin,omitempty"`
	Make           string         `json:"make" bson:"make"`
	Model          string         `json:"model" bson:"model"`
	Year           int            `json:"year" bson:"year"`
	Type           string         `json:"type,omitempty" bson:"type,omitempty"`
	Category       string         `json:"category,omitempty" bson:"category,omitempty"`
	Status         string         `json:"status" bson:"status"`
	Location       string         `json:"location,omitempty" bson:"location,omitempty"`
	Driver         Driver         `json:"driver" bson:"driver"`
	Specifications Specifications `json:"specifications" bson:"specifications"`
	Insurance      Insurance      `json:"insurance" bson:"insurance"`
	LastUpdated    string         `json:"last_updated,omitempty" bson:"last_updated,omitempty"`
}

// VehicleCatalog is the on-disk document wrapping the vehicle list.
type VehicleCatalog struct {
	Vehicles      []Vehicle `json:"vehicles"`
	TotalVehicles int       `json:"total_vehicles,omitempty"`
	LastUpdated   string    `json:"last_updated,omitempty"`
	SourceFile    string    `json:"source_file,omitempty"`
}
