package do

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/xuri/excelize/v2"

	"doform/internal/response"
	"doform/internal/store"
)

// Export downloads the record table for a scope as CSV or Excel.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = "today"
	}
	if scope != "today" && scope != "all" {
		response.Err(w, "scope must be today or all", 400)
		return
	}

	records, err := h.readScope(scope)
	if err != nil {
		log.Printf("do: export read degraded to empty: %v", err)
		records = nil
	}

	var data [][]string
	for _, rec := range records {
		data = append(data, []string{
			rec.Timestamp, rec.DONumber, rec.DODate, rec.CustomerName,
			strconv.Itoa(rec.LineNo), rec.Item, rec.MINumber, rec.CPNumber,
			strconv.Itoa(rec.SetCount), strconv.Itoa(rec.CtnCount), strconv.Itoa(rec.Quantity),
		})
	}

	switch format {
	case "xlsx":
		exportExcel(w, "Records", store.Header, data)
	case "csv":
		exportCSV(w, "do_records.csv", store.Header, data)
	default:
		response.Err(w, "format must be csv or xlsx", 400)
	}
}

func exportCSV(w http.ResponseWriter, filename string, headers []string, data [][]string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		http.Error(w, "Failed to write CSV headers", 500)
		return
	}
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			http.Error(w, "Failed to write CSV row", 500)
			return
		}
	}
}

func exportExcel(w http.ResponseWriter, sheetName string, headers []string, data [][]string) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		http.Error(w, "Failed to create Excel sheet", 500)
		return
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		http.Error(w, "Failed to create header style", 500)
		return
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range data {
		for colIdx, value := range row {
			cell := fmt.Sprintf("%s%d", string(rune('A'+colIdx)), rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range headers {
		col := string(rune('A' + i))
		f.SetColWidth(sheetName, col, col, 15)
	}

	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=do_records.xlsx")

	if err := f.Write(w); err != nil {
		http.Error(w, "Failed to write Excel file", 500)
		return
	}
}
