package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
)

// TraceReportRow is one hop of a trace rendered into the report table.
type TraceReportRow struct {
	BatchNumber string
	ProductName string
	Process     string
	Quantity    string
	Unit        string
	Continues   bool
}

// TraceReportData carries everything the PDF renderer needs, already
// flattened so the renderer stays free of domain types.
type TraceReportData struct {
	BatchNumber string
	ProductName string
	Direction   string
	GeneratedAt time.Time
	Rows        []TraceReportRow
}

// RenderTraceReport writes the trace report PDF to path, creating parent
// directories as needed.
func RenderTraceReport(path string, data TraceReportData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Trace report %s", data.BatchNumber), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	title := "Forward trace (usage)"
	if data.Direction == "backward" {
		title = "Backward trace (components)"
	}
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Batch: %s", data.BatchNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Product: %s", data.ProductName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Generated: %s", data.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(45, 8, "Batch number", "1", 0, "L", true, 0, "")
	pdf.CellFormat(55, 8, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Process", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, "Quantity", "1", 0, "R", true, 0, "")
	pdf.CellFormat(25, 8, "Continues", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range data.Rows {
		continues := "no"
		if row.Continues {
			continues = "yes"
		}
		pdf.CellFormat(45, 8, row.BatchNumber, "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 8, row.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, row.Process, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%s %s", row.Quantity, row.Unit), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 8, continues, "1", 1, "C", false, 0, "")
	}
	if len(data.Rows) == 0 {
		pdf.CellFormat(190, 8, "No linked batches.", "1", 1, "L", false, 0, "")
	}

	return pdf.OutputFileAndClose(path)
}
