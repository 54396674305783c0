package intent

import "strings"

// Intent is the coarse category of an inbound message.
type Intent string

const (
	IntentVehicleSearch     Intent = "vehicle_search"
	IntentFaultReport       Intent = "fault_report"
	IntentMaintenanceReport Intent = "maintenance_report"
	IntentHelp              Intent = "help"
)

// Keyword sets per intent. Matching is plain substring containment over
// the lowercased message; precedence is fixed by evaluation order, not
// by score.
var (
	searchKeywords = []string{
		"search", "חיפוש", "מצא", "find", "חפש",
	}
	faultKeywords = []string{
		"fault report", "דוח תקלות", "תקלות", "דוח תקלה",
	}
	maintenanceKeywords = []string{
		"maintenance report", "דוח תחזוקה", "דוח טיפולים", "תחזוקה", "טיפולים",
	}
)

// Classify returns the best-matching intent for a message. Search is
// checked before fault, fault before maintenance; anything else falls
// through to help.
func Classify(message string) Intent {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, searchKeywords):
		return IntentVehicleSearch
	case containsAny(lower, faultKeywords):
		return IntentFaultReport
	case containsAny(lower, maintenanceKeywords):
		return IntentMaintenanceReport
	default:
		return IntentHelp
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
