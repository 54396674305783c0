package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, IntentVehicleSearch, Classify("חיפוש 21-599-58"))
	assert.Equal(t, IntentVehicleSearch, Classify("please find my car 21-599-58"))
	assert.Equal(t, IntentFaultReport, Classify("דוח תקלות 10-600-42"))
	assert.Equal(t, IntentFaultReport, Classify("fault report 10-600-42"))
	assert.Equal(t, IntentMaintenanceReport, Classify("דוח תחזוקה 22-727-57"))
	assert.Equal(t, IntentMaintenanceReport, Classify("Maintenance Report for 22-727-57"))
	assert.Equal(t, IntentHelp, Classify("שלום"))
	assert.Equal(t, IntentHelp, Classify("hello there"))
}

func TestClassify_Precedence(t *testing.T) {
	// search wins over fault, fault wins over maintenance
	assert.Equal(t, IntentVehicleSearch, Classify("חיפוש דוח תקלות 10-600-42"))
	assert.Equal(t, IntentFaultReport, Classify("דוח תקלות ותחזוקה 10-600-42"))
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.Equal(t, IntentVehicleSearch, Classify("SEARCH 21-599-58"))
	assert.Equal(t, IntentFaultReport, Classify("FAULT REPORT 10-600-42"))
}

func TestExtractPlate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"דוח תחזוקה 22-727-57", "22-727-57"},
		{"search 21 599 58", "21-599-58"},
		{"21-599-58", "21-599-58"},
		{"21 599-58", "21-599-58"},
		{"2159958 please", "21-599-58"},
		{"fault report for 10-600-42 today", "10-600-42"},
	}
	for _, c := range cases {
		got, ok := ExtractPlate(c.in)
		assert.True(t, ok, "expected plate in %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}
}

func TestExtractPlate_NoMatch(t *testing.T) {
	for _, in := range []string{"דוח תחזוקה", "no numbers here", "12-34"} {
		_, ok := ExtractPlate(in)
		assert.False(t, ok, "did not expect plate in %q", in)
	}
}

func TestExtractPlate_FirstMatchWins(t *testing.T) {
	got, ok := ExtractPlate("21-599-58 and also 10-600-42")
	assert.True(t, ok)
	assert.Equal(t, "21-599-58", got)
}

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "21-599-58", NormalizePlate("21 599 58"))
	assert.Equal(t, "21-599-58", NormalizePlate("21-599-58"))
	assert.Equal(t, "21-599-58", NormalizePlate("2159958"))
	assert.Equal(t, "21-599-58", NormalizePlate("21 599-58"))
}
