package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"taskforge/internal/models"
)

// Generator renders the analytics summary PDF. Interface so handlers can be
// tested with a stub.
type Generator interface {
	AnalyticsReport(data ReportData) ([]byte, error)
}

type ReportData struct {
	UserName    string
	UserEmail   string
	Overview    models.Overview
	Performance models.UserPerformance
	GeneratedAt time.Time
}

type ReportGenerator struct {
	fontName string
}

func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{fontName: "Helvetica"}
}

func (g *ReportGenerator) AnalyticsReport(data ReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Task Analytics Report", false)
	pdf.SetAuthor("Taskforge", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// ===== Header
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "TASK ANALYTICS", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("%s  -  generated %s",
		data.UserEmail,
		data.GeneratedAt.Format("02.01.2006 15:04"),
	)
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)

	pdf.Ln(3)

	// ===== Performance
	g.sectionTitle(pdf, "Performance")
	g.kvLine(pdf, "Owner", data.UserName)
	g.kvLine(pdf, "Total tasks", fmt.Sprintf("%d", data.Performance.TotalTasks))
	g.kvLine(pdf, "Completed", fmt.Sprintf("%d", data.Performance.CompletedTasks))
	g.kvLine(pdf, "Completion rate", fmt.Sprintf("%.2f%%", data.Performance.CompletionRate))
	g.kvLine(pdf, "Overdue", fmt.Sprintf("%d", data.Performance.OverdueTasks))
	pdf.Ln(2)
	g.hr(pdf)

	// ===== By status
	g.sectionTitle(pdf, "Tasks by status")
	if len(data.Overview.ByStatus) == 0 {
		pdf.SetFont(g.fontName, "", 11)
		pdf.CellFormat(0, 6, "no tasks", "", 1, "L", false, 0, "")
	}
	for _, sc := range data.Overview.ByStatus {
		g.kvLine(pdf, string(sc.Status), fmt.Sprintf("%d", sc.Count))
	}
	pdf.Ln(2)
	g.hr(pdf)

	// ===== By priority
	g.sectionTitle(pdf, "Tasks by priority")
	if len(data.Overview.ByPriority) == 0 {
		pdf.SetFont(g.fontName, "", 11)
		pdf.CellFormat(0, 6, "no tasks", "", 1, "L", false, 0, "")
	}
	for _, pc := range data.Overview.ByPriority {
		g.kvLine(pdf, string(pc.Priority), fmt.Sprintf("%d", pc.Count))
	}

	// ===== Page numbers
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ===== helpers =====

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
