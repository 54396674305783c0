package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ukydev/fleet-chatbot/internal/models"
)

func sampleVehicle() *models.Vehicle {
	return &models.Vehicle{
		ID:           "V001",
		LicensePlate: "21-599-58",
		Make:         "Mazda",
		Model:        "Mazda3",
		Year:         2022,
		Status:       "פעיל",
		Specifications: models.Specifications{
			Color: "כסוף",
		},
		Driver: models.Driver{
			Name:  "אלון ישראלי",
			Phone: "+972-51-9268240",
			Email: "alon.israeli@company.co.il",
		},
	}
}

func TestVehicleSearchReply(t *testing.T) {
	reply := VehicleSearchReply(sampleVehicle())

	assert.Contains(t, reply, "21-599-58")
	assert.Contains(t, reply, "Mazda Mazda3")
	assert.Contains(t, reply, "2022")
	assert.Contains(t, reply, "כסוף")
	assert.Contains(t, reply, "אלון ישראלי")
	assert.Contains(t, reply, "+972-51-9268240")
}

func TestVehicleSearchReply_MissingFields(t *testing.T) {
	reply := VehicleSearchReply(&models.Vehicle{LicensePlate: "10-600-42"})

	assert.Contains(t, reply, "10-600-42")
	// every missing field renders as the placeholder, never empty
	assert.GreaterOrEqual(t, strings.Count(reply, "לא זמין"), 6)
}

func TestVehicleSearchReply_Idempotent(t *testing.T) {
	v := sampleVehicle()
	assert.Equal(t, VehicleSearchReply(v), VehicleSearchReply(v))
}

func TestMessages(t *testing.T) {
	assert.Contains(t, MsgVehicleNotFound("21-599-58"), "21-599-58")
	assert.Contains(t, MsgMaintenanceReportReady("22-727-57"), "22-727-57")
	assert.Contains(t, MsgFaultReportReady("10-600-42"), "10-600-42")
	assert.Contains(t, HelpMessage, "פקודות זמינות")
}

func TestFormatShekels(t *testing.T) {
	assert.Equal(t, "₪0", formatShekels(0))
	assert.Equal(t, "₪948", formatShekels(948))
	assert.Equal(t, "₪2,458", formatShekels(2458))
	assert.Equal(t, "₪1,234,568", formatShekels(1234567.8))
}

func TestAddThousands_Negative(t *testing.T) {
	assert.Equal(t, "-2,458", addThousands(-2458))
}
