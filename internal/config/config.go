package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the chatbot service. Values come
// from the environment, with a .env file loaded first when present.
type Config struct {
	Port       string
	DataDir    string
	ReportsDir string

	VehicleCatalogPath     string
	MaintenanceRecordsPath string
	FaultReportsPath       string
	SyncTrackingPath       string
	ExcelSourcePath        string
	SyncSchedule           string

	// BaseURL overrides tunnel discovery when set.
	BaseURL     string
	NgrokAPIURL string

	StoreBackend string // "file" or "mongo"
	MongoURI     string
	MongoDB      string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string

	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string

	MQTTBroker     string
	MQTTAlertTopic string
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() *Config {
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "data")
	cfg := &Config{
		Port:       getEnv("PORT", "5000"),
		DataDir:    dataDir,
		ReportsDir: getEnv("REPORTS_DIR", filepath.Join("reports", "maintenance_reports")),

		VehicleCatalogPath:     getEnv("VEHICLE_CATALOG_PATH", filepath.Join(dataDir, "vehicle_catalog.json")),
		MaintenanceRecordsPath: getEnv("MAINTENANCE_RECORDS_PATH", filepath.Join(dataDir, "vehicles", "maintenance_records.json")),
		FaultReportsPath:       getEnv("FAULT_REPORTS_PATH", filepath.Join(dataDir, "fault_reports.json")),
		SyncTrackingPath:       getEnv("SYNC_TRACKING_PATH", filepath.Join(dataDir, "sync_tracking.json")),
		ExcelSourcePath:        getEnv("EXCEL_SOURCE_PATH", ""),
		SyncSchedule:           getEnv("SYNC_SCHEDULE", "@every 5m"),

		BaseURL:     getEnv("BASE_URL", ""),
		NgrokAPIURL: getEnv("NGROK_API_URL", "http://localhost:4040/api/tunnels"),

		StoreBackend: getEnv("STORE_BACKEND", "file"),
		MongoURI:     getEnv("MONGO_URI", ""),
		MongoDB:      getEnv("MONGO_DB", "fleet"),

		TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom: getEnv("TWILIO_WHATSAPP_NUMBER", ""),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		MQTTBroker:     getEnv("MQTT_BROKER", ""),
		MQTTAlertTopic: getEnv("MQTT_ALERT_TOPIC", "fleet/maintenance/alerts"),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
