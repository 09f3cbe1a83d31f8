// Package export renders a draft's line table and totals as a
// spreadsheet or CSV download.
package export

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"bazar/internal/draft"
)

var headers = []string{"Product", "Quantity", "Unit Price", "Subtotal"}

// Rows flattens a snapshot into export rows plus a totals footer. Product
// display names are resolved from the rows' lookup caches; an uncached
// reference falls back to the raw ID.
func Rows(snap draft.Snapshot) [][]string {
	var data [][]string
	for _, li := range snap.Lines {
		data = append(data, []string{
			displayName(snap, li.ProductRef),
			strconv.Itoa(li.Quantity),
			formatAmount(li.UnitPrice),
			formatAmount(float64(li.Quantity) * li.UnitPrice),
		})
	}
	data = append(data,
		[]string{"", "", "Net", formatAmount(snap.Totals.Net)},
		[]string{"", "", "Tax", formatAmount(snap.Totals.Tax)},
		[]string{"", "", "Total", formatAmount(snap.Totals.Gross)},
	)
	return data
}

func displayName(snap draft.Snapshot, productRef string) string {
	if productRef == "" {
		return ""
	}
	for _, st := range snap.Lookups {
		for _, e := range st.Options {
			if e.ID == productRef {
				return e.DisplayName
			}
		}
	}
	return productRef
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CSV writes the draft as a CSV attachment.
func CSV(w http.ResponseWriter, filename string, snap draft.Snapshot) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		http.Error(w, "Failed to write CSV header", 500)
		return
	}
	for _, row := range Rows(snap) {
		if err := writer.Write(row); err != nil {
			http.Error(w, "Failed to write CSV row", 500)
			return
		}
	}
}

// Excel writes the draft as an xlsx attachment.
func Excel(w http.ResponseWriter, sheetName string, snap draft.Snapshot) {
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

	for rowIdx, row := range Rows(snap) {
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
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", strings.ToLower(sheetName)))

	if err := f.Write(w); err != nil {
		http.Error(w, "Failed to write Excel file", 500)
		return
	}
}
