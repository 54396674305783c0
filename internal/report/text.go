package report

import (
	"fmt"

	"github.com/ukydev/fleet-chatbot/internal/models"
)

// HelpMessage lists the commands the chatbot understands.
const HelpMessage = `**מערכת ניהול צי רכבים**

**פקודות זמינות:**
• חיפוש [לוחית רישוי] - חיפוש פרטי רכב
• דוח תחזוקה [לוחית רישוי] - דוח תחזוקה PDF
• דוח תקלות [לוחית רישוי] - דוח תקלות PDF

**דוגמאות:**
• חיפוש 21-599-58
• דוח תחזוקה 22-727-57
• דוח תקלות 10-600-42`

// User-facing error texts. Input problems get specific guidance;
// anything internal gets a generic apology.
const (
	MsgNoPlateFound = "לא נמצאה לוחית רישוי בהודעה. אנא ציין לוחית רישוי."
	MsgGenericError = "מצטער, אירעה שגיאה בעיבוד הבקשה שלך."
	MsgReportError  = "שגיאה ביצירת הדוח."
)

// MsgVehicleNotFound builds the not-found reply for a plate.
func MsgVehicleNotFound(plate string) string {
	return fmt.Sprintf("רכב עם לוחית רישוי %s לא נמצא במערכת.", plate)
}

// MsgMaintenanceReportReady confirms a generated maintenance report.
func MsgMaintenanceReportReady(plate string) string {
	return fmt.Sprintf("דוח התחזוקה עבור %s מוכן. הקובץ מצורף להודעה.", plate)
}

// MsgFaultReportReady confirms a generated fault report.
func MsgFaultReportReady(plate string) string {
	return fmt.Sprintf("דוח התקלות עבור %s מוכן. הקובץ מצורף להודעה.", plate)
}

// VehicleSearchReply formats the vehicle-details reply for a search
// request. Missing fields render as the placeholder string, so the
// output is byte-identical for identical input.
func VehicleSearchReply(v *models.Vehicle) string {
	color := v.Specifications.Color

	return fmt.Sprintf(`**תוצאות חיפוש רכב**

**פרטי הרכב:**
• מספר רישוי: %s
• יצרן/דגם: %s %s
• שנה: %s
• צבע: %s
• סטטוס: %s

**פרטי נהג:**
• שם נהג: %s
• טלפון: %s
• אימייל: %s`,
		fallback(v.LicensePlate),
		fallback(v.Make), fallback(v.Model),
		yearOrPlaceholder(v.Year),
		fallback(color),
		fallback(v.Status),
		fallback(v.Driver.Name),
		fallback(v.Driver.Phone),
		fallback(v.Driver.Email),
	)
}
