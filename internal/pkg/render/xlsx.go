package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/timenest/timenest-backend-go/internal/pkg/utils"
)

const (
	attendanceSheet = "Attendance"
	summarySheet    = "Summary"
)

// RenderXLSX writes the CSV rows to an "Attendance" sheet and per-day counts to "Summary".
func RenderXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	created := r.Week.End.UTC().Format("2006-01-02T15:04:05Z")
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:    "Weekly Attendance Report",
		Creator:  "TimeNest",
		Created:  created,
		Modified: created,
	}); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSheetRow(f, attendanceSheet, 1, toCells(tableHeader)); err != nil {
		return err
	}
	if err := f.SetCellStyle(attendanceSheet, "A1", "F1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	for i, rec := range r.rows() {
		if err := writeSheetRow(f, attendanceSheet, i+2, toCells(r.tableRow(rec))); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(attendanceSheet, "A", "A", 38); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(attendanceSheet, "B", "F", 22); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	summaryHeader := []interface{}{"Day", "Weekday", "Present", "Absent", "Late"}
	if err := writeSheetRow(f, summarySheet, 1, summaryHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	for i, d := range r.Days {
		row := []interface{}{
			utils.FormatDay(d.Day),
			d.Day.Weekday().String(),
			len(d.Present),
			len(d.Absent),
			len(d.LateCheckIns),
		}
		if err := writeSheetRow(f, summarySheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to resolve cell: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
