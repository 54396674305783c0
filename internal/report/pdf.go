package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-chatbot/internal/models"
)

// Template palette.
var (
	colorPrimary = rgb{0x00, 0x33, 0x66}
	colorAccent  = rgb{0xE6, 0xB4, 0x00}
	colorText    = rgb{0x11, 0x11, 0x11}
	colorMuted   = rgb{0x55, 0x55, 0x55}
	colorSurface = rgb{0xF7, 0xF8, 0xFA}
	colorStripeB = rgb{0xF0, 0xF2, 0xF5}
	colorBorder  = rgb{0xD8, 0xDC, 0xE1}
	colorWhite   = rgb{0xFF, 0xFF, 0xFF}
)

type rgb struct{ r, g, b int }

// Candidate locations for a Hebrew-capable TTF font, tried in order.
var fontCandidates = []string{
	"fonts/NotoSansHebrew-Regular.ttf",
	"fonts/Assistant-Regular.ttf",
	"fonts/Rubik-Regular.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansHebrew-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	"C:/Windows/Fonts/arial.ttf",
}

// Generator builds maintenance report PDFs. The same generator serves
// both maintenance-report and fault-report requests; only the chat
// confirmation text differs.
type Generator struct {
	fontPath string
	now      func() time.Time
}

// NewGenerator creates a PDF generator, discovering a Hebrew-capable
// font from the usual locations. Without one the built-in Helvetica is
// used and Hebrew glyphs will not render, but generation still succeeds.
func NewGenerator() *Generator {
	g := &Generator{now: time.Now}
	for _, path := range fontCandidates {
		if _, err := os.Stat(path); err == nil {
			g.fontPath = path
			break
		}
	}
	if g.fontPath == "" {
		log.Warn("no Hebrew-capable font found, falling back to Helvetica")
	} else {
		log.WithField("font", g.fontPath).Info("using PDF font")
	}
	return g
}

// FileName builds the report file name for a plate at a point in time.
func FileName(plate string, t time.Time) string {
	return fmt.Sprintf("maintenance_report_%s_%s.pdf", t.Format("20060102_150405"), plate)
}

// Generate writes the full maintenance report for a vehicle to
// outputPath, creating the directory if needed.
func (g *Generator) Generate(vehicle *models.Vehicle, records []models.MaintenanceRecord, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)

	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if g.fontPath != "" {
		// gofpdf joins its font location with the file name even for
		// absolute paths, so split the path instead of passing it whole.
		pdf.SetFontLocation(filepath.Dir(g.fontPath))
		fontFile := filepath.Base(g.fontPath)
		pdf.AddUTF8Font("hebrew", "", fontFile)
		pdf.AddUTF8Font("hebrew", "B", fontFile)
		family = "hebrew"
		tr = func(s string) string { return s }
	}

	d := &doc{pdf: pdf, family: family, tr: tr}
	pdf.AddPage()

	g.writeHeader(d, vehicle)
	g.writeVehicleInfo(d, vehicle)
	g.writeMaintenanceRecords(d, records)
	g.writeFaults(d, records)
	g.writeSummary(d, records)
	g.writeApprovals(d)
	g.writeFooter(d)

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// doc bundles the handles every section writer needs.
type doc struct {
	pdf    *gofpdf.Fpdf
	family string
	tr     func(string) string
}

func (d *doc) text(s string) string {
	return d.tr(reverseHebrew(s))
}

func (d *doc) setFill(c rgb) { d.pdf.SetFillColor(c.r, c.g, c.b) }
func (d *doc) setText(c rgb) { d.pdf.SetTextColor(c.r, c.g, c.b) }
func (d *doc) setDraw(c rgb) { d.pdf.SetDrawColor(c.r, c.g, c.b) }

const contentWidth = 180.0 // A4 width minus 15mm margins

func (g *Generator) writeHeader(d *doc, vehicle *models.Vehicle) {
	pdf := d.pdf

	pdf.SetFont(d.family, "B", 22)
	d.setText(colorPrimary)
	pdf.CellFormat(contentWidth, 12, d.text("דוח תחזוקת רכב"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	docNumber := fmt.Sprintf("OPS-MAINT-%s-%s", g.now().Format("2006-01-02"), uuid.NewString()[:8])
	status := vehicle.Status
	if status == "" {
		status = "פעיל"
	}
	sublines := []string{
		"מחלקה: תפעול – יחידת רכב ותחזוקה",
		"מס' דוח: " + docNumber,
		"תאריך הפקה: " + g.now().Format("02/01/2006"),
		"סטטוס רכב: " + status,
	}

	pdf.SetFont(d.family, "", 10.5)
	d.setText(colorMuted)
	for _, line := range sublines {
		pdf.CellFormat(contentWidth, 6, d.text(line), "", 1, "C", false, 0, "")
	}

	pdf.Ln(3)
	d.setDraw(colorBorder)
	y := pdf.GetY()
	pdf.Line(15, y, 15+contentWidth, y)
	pdf.Ln(6)
}

func (g *Generator) writeSectionTitle(d *doc, title string, align string) {
	d.pdf.SetFont(d.family, "B", 18)
	d.setText(colorPrimary)
	d.pdf.CellFormat(contentWidth, 10, d.text(title), "", 1, align, false, 0, "")
	d.pdf.Ln(2)
}

func (g *Generator) writeVehicleInfo(d *doc, v *models.Vehicle) {
	pdf := d.pdf
	g.writeSectionTitle(d, "פרטי רכב", "C")

	rows := [][2]string{
		{fallback(v.LicensePlate), "מספר רישוי"},
		{fallback(v.Make) + " / " + fallback(v.Model), "יצרן / דגם"},
		{yearOrPlaceholder(v.Year), "שנה"},
		{fallback(v.Specifications.Color), "צבע"},
		{fallback(v.Status), "סטטוס"},
		{fallback(v.Location), "מיקום"},
		{fallback(v.Driver.Name), "נהג אחראי"},
		{fallback(v.Driver.Phone), "טלפון"},
		{fallback(v.Driver.Email), "אימייל"},
	}

	pdf.SetFont(d.family, "", 12)
	d.setDraw(colorBorder)
	for i, row := range rows {
		value := colorWhite
		if i%2 == 1 {
			value = colorStripeB
		}
		d.setText(colorText)
		d.setFill(value)
		pdf.CellFormat(110, 9, d.text(row[0]), "1", 0, "C", true, 0, "")
		d.setFill(colorSurface)
		pdf.CellFormat(70, 9, d.text(row[1]), "1", 1, "C", true, 0, "")
	}
	pdf.Ln(8)
}

// recordDescription builds the Hebrew description line for a record in
// the maintenance table.
func recordDescription(r models.MaintenanceRecord) string {
	var desc string
	switch {
	case r.Cost <= 0:
		desc = "בדיקה תקופתית ללא עלות"
	case strings.Contains(r.Type, "תחזוקה") || strings.Contains(r.Type, "Maintenance"):
		desc = fmt.Sprintf("תחזוקה שוטפת - עלות %s ₪", addThousands(r.Cost))
	case strings.Contains(r.Type, "תיקון") || strings.Contains(r.Type, "Repair"):
		desc = fmt.Sprintf("תיקון תקלה - עלות %s ₪", addThousands(r.Cost))
	default:
		desc = fmt.Sprintf("טיפול כללי - עלות %s ₪", addThousands(r.Cost))
	}
	runes := []rune(desc)
	if len(runes) > 50 {
		desc = string(runes[:50]) + "..."
	}
	return desc
}

func (g *Generator) tableHeader(d *doc, headers []string, widths []float64) {
	pdf := d.pdf
	pdf.SetFont(d.family, "B", 12)
	d.setFill(colorPrimary)
	d.setText(colorWhite)
	d.setDraw(colorBorder)
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 10, d.text(h), "1", ln, "C", true, 0, "")
	}
}

func (g *Generator) tableRow(d *doc, cells []string, widths []float64, stripe bool) {
	pdf := d.pdf
	pdf.SetFont(d.family, "", 10)
	d.setText(colorText)
	if stripe {
		d.setFill(colorStripeB)
	} else {
		d.setFill(colorWhite)
	}
	for i, c := range cells {
		ln := 0
		if i == len(cells)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 8, d.text(c), "1", ln, "C", true, 0, "")
	}
}

func (g *Generator) writeMaintenanceRecords(d *doc, records []models.MaintenanceRecord) {
	pdf := d.pdf
	g.writeSectionTitle(d, "רשומות תחזוקה", "C")

	if len(records) == 0 {
		pdf.SetFont(d.family, "", 12)
		d.setText(colorText)
		pdf.CellFormat(contentWidth, 8, d.text("אין רשומות תחזוקה זמינות"), "", 1, "R", false, 0, "")
		pdf.Ln(8)
		return
	}

	widths := []float64{28, 30, 72, 22, 28}
	g.tableHeader(d, []string{"תאריך", "סוג טיפול", "תיאור", "עלות (₪)", "סטטוס"}, widths)

	for i, r := range records {
		cost := "0"
		if r.Cost > 0 {
			cost = addThousands(r.Cost)
		}
		g.tableRow(d, []string{
			fallback(r.Date),
			fallback(r.Type),
			recordDescription(r),
			cost,
			fallback(r.Status),
		}, widths, i%2 == 1)
	}
	pdf.Ln(8)
}

func (g *Generator) writeFaults(d *doc, records []models.MaintenanceRecord) {
	var faults []models.MaintenanceRecord
	for _, r := range records {
		if r.IsFault() {
			faults = append(faults, r)
		}
	}
	if len(faults) == 0 {
		return
	}

	g.writeSectionTitle(d, "דוחות תקלות", "C")

	widths := []float64{30, 40, 30, 40, 40}
	g.tableHeader(d, []string{"תאריך", "סוג תקלה", "חומרה", "עלות תיקון (₪)", "זמן תיקון (ימים)"}, widths)

	for i, r := range faults {
		repairCost := "0"
		if r.RepairCost > 0 {
			repairCost = addThousands(r.RepairCost)
		}
		g.tableRow(d, []string{
			fallback(r.Date),
			fallback(r.FaultType),
			fallback(r.FaultSeverity),
			repairCost,
			fmt.Sprintf("%d", r.RepairDays),
		}, widths, i%2 == 1)
	}
	d.pdf.Ln(8)
}

func (g *Generator) writeSummary(d *doc, records []models.MaintenanceRecord) {
	pdf := d.pdf
	g.writeSectionTitle(d, "סיכום כספי כולל", "R")

	var totalCost, repairCost float64
	faultCount := 0
	for _, r := range records {
		totalCost += r.Cost
		repairCost += r.RepairCost
		if r.IsFault() {
			faultCount++
		}
	}

	rows := [][2]string{
		{"סה״כ טיפולים", fmt.Sprintf("%d", len(records))},
		{"עלות טיפולים", formatShekels(totalCost)},
		{"סה״כ תקלות", fmt.Sprintf("%d", faultCount)},
		{"עלות תיקונים", formatShekels(repairCost)},
		{"עלות כוללת", formatShekels(totalCost + repairCost)},
	}

	pdf.SetFont(d.family, "", 12)
	d.setDraw(colorBorder)
	for i, row := range rows {
		label, value := colorSurface, colorWhite
		if i == len(rows)-1 {
			// grand total gets the accent background
			label, value = colorAccent, colorAccent
			pdf.SetFont(d.family, "B", 12)
		}
		d.setText(colorText)
		d.setFill(label)
		pdf.CellFormat(65, 9, d.text(row[0]), "1", 0, "R", true, 0, "")
		d.setFill(value)
		pdf.CellFormat(40, 9, d.text(row[1]), "1", 1, "R", true, 0, "")
	}
	pdf.Ln(8)
}

func (g *Generator) writeApprovals(d *doc) {
	pdf := d.pdf
	g.writeSectionTitle(d, "חתימות ואישורים", "R")

	pdf.SetFont(d.family, "", 12)
	d.setText(colorText)
	d.setDraw(colorBorder)
	d.setFill(colorWhite)
	for _, label := range []string{"מאשר תחזוקה", "אישור מנהל תפעול"} {
		pdf.CellFormat(45, 12, d.text(label), "1", 0, "R", true, 0, "")
		pdf.CellFormat(45, 12, "", "1", 0, "C", true, 0, "")
		pdf.CellFormat(45, 12, "", "1", 0, "C", true, 0, "")
		pdf.CellFormat(45, 12, "", "1", 1, "C", true, 0, "")
	}
	pdf.Ln(8)
}

func (g *Generator) writeFooter(d *doc) {
	d.pdf.SetFont(d.family, "", 9)
	d.setText(colorMuted)
	d.pdf.CellFormat(contentWidth, 5, d.text("Confidential — Operations | עמוד 1 מתוך 1 | גרסה 1.0"), "", 1, "L", false, 0, "")
}
