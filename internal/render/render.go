// Package render produces the printable document artifact for a submitted
// delivery order. Rendering is a presentation concern: the CSV append has
// already succeeded by the time a renderer runs, and a renderer error must
// surface as a warning without touching the canonical records.
package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"doform/internal/models"
)

// A Renderer writes one document per order, keyed by DO number and day, and
// returns the artifact path.
type Renderer interface {
	Render(day string, records []models.Record) (string, error)
}

// Noop is the disabled renderer.
type Noop struct{}

// Render does nothing.
func (Noop) Render(string, []models.Record) (string, error) { return "", nil }

// Excel renders the order as an .xlsx sheet in the day's partition
// directory, next to the record file.
type Excel struct {
	Root string
}

// NewExcel returns an Excel renderer writing under root.
func NewExcel(root string) *Excel {
	return &Excel{Root: root}
}

var tableHeader = []string{"No.", "Item", "MI Number", "C/P No.", "Set", "Ctn", "Quantity"}

// Render writes <root>/<day>/<do_number>.xlsx with a header block (number,
// date, customer) followed by the bordered item table. records must be the
// rows of a single submission.
func (e *Excel) Render(day string, records []models.Record) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("render: no records")
	}
	first := records[0]

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Delivery Order"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return "", fmt.Errorf("create title style: %w", err)
	}
	f.SetCellValue(sheet, "A1", "Delivery Order: "+first.DONumber)
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	f.SetCellValue(sheet, "A2", "Date: "+first.DODate)
	f.SetCellValue(sheet, "A3", "Customer: "+first.CustomerName)

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
		Border: border,
	})
	if err != nil {
		return "", fmt.Errorf("create header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return "", fmt.Errorf("create cell style: %w", err)
	}

	const tableTop = 5
	for i, h := range tableHeader {
		cell := fmt.Sprintf("%s%d", string(rune('A'+i)), tableTop)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, rec := range records {
		values := []interface{}{
			rec.LineNo, rec.Item, rec.MINumber, rec.CPNumber,
			rec.SetCount, rec.CtnCount, rec.Quantity,
		}
		for colIdx, v := range values {
			cell := fmt.Sprintf("%s%d", string(rune('A'+colIdx)), tableTop+1+rowIdx)
			f.SetCellValue(sheet, cell, v)
			f.SetCellStyle(sheet, cell, cell, cellStyle)
		}
	}

	f.SetColWidth(sheet, "B", "B", 30)
	f.SetColWidth(sheet, "C", "D", 15)
	f.DeleteSheet("Sheet1")

	dir := filepath.Join(e.Root, day)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	path := filepath.Join(dir, first.DONumber+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}
	return path, nil
}
