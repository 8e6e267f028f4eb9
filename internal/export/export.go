// Package export renders weekly reports as spreadsheet downloads.
package export

import (
	"fmt"
	"io"

	"cleanlog/internal/core"

	"github.com/xuri/excelize/v2"
)

const (
	SheetActivities = "Activities"
	SheetTotals     = "Totals"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var activitiesHeader = []string{"Date", "Apartment", "Building", "Number", "Type", "Cleaner", "Hours"}

var activitiesWidths = []float64{12, 12, 14, 10, 20, 24, 8}

var totalsHeader = []string{"Type", "Count"}

// Filename is the download name for the week starting at start.
func Filename(week core.WeekRange) string {
	return fmt.Sprintf("cleaning-week-%s.xlsx", week.Start)
}

// WriteWeeklyXLSX writes report as an xlsx workbook with one row per activity
// on the Activities sheet and per-type counts plus total hours on Totals.
func WriteWeeklyXLSX(w io.Writer, report core.WeeklyReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(SheetActivities); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetActivities, err)
	}
	if _, err := f.NewSheet(SheetTotals); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetTotals, err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	// indexes shift once Sheet1 is gone
	index, err := f.GetSheetIndex(SheetActivities)
	if err != nil {
		return fmt.Errorf("locate sheet %s: %w", SheetActivities, err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeRow(f, SheetActivities, 1, toAny(activitiesHeader)); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetActivities, "A1", "G1", headerStyle); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}
	for i, width := range activitiesWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column %d: %w", i+1, err)
		}
		if err := f.SetColWidth(SheetActivities, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	for i, a := range report.Activities {
		if err := writeRow(f, SheetActivities, i+2, activityRow(a)); err != nil {
			return err
		}
	}

	if err := writeTotals(f, report, headerStyle); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTotals(f *excelize.File, report core.WeeklyReport, headerStyle int) error {
	if err := writeRow(f, SheetTotals, 1, []any{"Week", report.Range.Start.String() + " to " + report.Range.End.String()}); err != nil {
		return err
	}
	if err := writeRow(f, SheetTotals, 3, toAny(totalsHeader)); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetTotals, "A3", "B3", headerStyle); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}

	row := 4
	for _, tc := range report.Totals.Rows() {
		if err := writeRow(f, SheetTotals, row, []any{tc.Type.Label(), tc.Count}); err != nil {
			return err
		}
		row++
	}
	if err := writeRow(f, SheetTotals, row, []any{"Total activities", report.Totals.Total()}); err != nil {
		return err
	}
	return writeRow(f, SheetTotals, row+1, []any{"Total hours", report.Totals.TotalHours.Float()})
}

func activityRow(a core.CleaningActivity) []any {
	var hours any = ""
	if h, ok := a.HoursWorked(); ok {
		hours = h.Float()
	}
	return []any{
		a.Date.String(),
		a.Apartment.Code,
		a.Apartment.Building,
		a.Apartment.Number,
		a.Type().Label(),
		a.CleanerName,
		hours,
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
