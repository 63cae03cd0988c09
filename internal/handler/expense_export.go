package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/WorkflowDigitalltd/ac-crm/internal/domain"
	"github.com/xuri/excelize/v2"
)

// export streams the expense ledger as CSV or XLSX, optionally
// restricted to a date range.
func (h ExpenseHandler) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	from, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	to, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}
	if from != nil && to != nil && from.After(*to) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return
	}

	items, err := h.Repo.List(r.Context(), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	filenameSuffix := time.Now().Format("20060102_150405")
	if from != nil && to != nil {
		filenameSuffix = fmt.Sprintf("%s_%s", from.Format("20060102"), to.Format("20060102"))
	}

	switch format {
	case "csv":
		data, err := exportExpensesCSV(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"expenses_%s.csv\"", filenameSuffix))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := exportExpensesXLSX(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"expenses_%s.xlsx\"", filenameSuffix))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

var expenseExportHeader = []string{"id", "description", "amount", "date", "category", "vendor", "reference", "notes", "tax_deductible"}

func expenseExportRow(e domain.Expense) []string {
	return []string{
		e.ID.String(),
		e.Description,
		e.Amount.StringFixed(2),
		e.ExpenseDate.Format("2006-01-02"),
		e.Category.String(),
		derefString(e.Vendor),
		derefString(e.Reference),
		derefString(e.Notes),
		strconv.FormatBool(e.IsTaxDeductible),
	}
}

func exportExpensesCSV(items []domain.Expense) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write(expenseExportHeader)
	for _, e := range items {
		_ = w.Write(expenseExportRow(e))
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportExpensesXLSX(items []domain.Expense) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Expenses"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range expenseExportHeader {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, e := range items {
		for c, v := range expenseExportRow(e) {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 38)
	_ = f.SetColWidth(sheet, "B", "B", 32)
	_ = f.SetColWidth(sheet, "C", "E", 14)
	_ = f.SetColWidth(sheet, "F", "H", 20)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "I1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
