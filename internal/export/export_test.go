package export

import (
	"bytes"
	"testing"

	"cleanlog/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() core.WeeklyReport {
	apt := core.Apartment{ID: 1, Code: "A-101", Building: "A", Number: "101"}
	activities := []core.CleaningActivity{
		{ID: 1, ApartmentID: 1, Apartment: apt, Date: core.NewDate(2024, 4, 29), CleanerName: "Anna",
			Details: core.MoveOutCleaning{Hours: core.Hours{Value: decimal.RequireFromString("2.5")}}},
		{ID: 2, ApartmentID: 1, Apartment: apt, Date: core.NewDate(2024, 5, 1), CleanerName: "Bo",
			Details: core.RegularCleaning{}},
	}
	return core.WeeklyReport{
		Range:      core.WeekContaining(core.NewDate(2024, 5, 1)),
		Activities: activities,
		Totals:     core.Summarize(activities),
	}
}

func openWorkbook(t *testing.T, report core.WeeklyReport) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteWeeklyXLSX(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWriteWeeklyXLSXActivities(t *testing.T) {
	f := openWorkbook(t, sampleReport())

	assert.Equal(t, []string{SheetActivities, SheetTotals}, f.GetSheetList())
	assert.Equal(t, SheetActivities, f.GetSheetName(f.GetActiveSheetIndex()))

	rows, err := f.GetRows(SheetActivities)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, activitiesHeader, rows[0])
	assert.Equal(t, []string{"2024-04-29", "A-101", "A", "101", "Move-out cleaning", "Anna", "2.5"}, rows[1])
	require.GreaterOrEqual(t, len(rows[2]), 6)
	assert.Equal(t, []string{"2024-05-01", "A-101", "A", "101", "Regular cleaning", "Bo"}, rows[2][:6])
	if len(rows[2]) > 6 {
		assert.Empty(t, rows[2][6])
	}
}

func TestWriteWeeklyXLSXTotals(t *testing.T) {
	f := openWorkbook(t, sampleReport())

	rows, err := f.GetRows(SheetTotals)
	require.NoError(t, err)
	assert.Equal(t, []string{"Week", "2024-04-29 to 2024-05-05"}, rows[0])
	assert.Equal(t, []string{"Regular cleaning", "1"}, rows[3])
	assert.Equal(t, []string{"Move-out cleaning", "1"}, rows[4])
	assert.Equal(t, []string{"Faucet flush", "0"}, rows[5])
	assert.Equal(t, []string{"Total activities", "2"}, rows[6])
	assert.Equal(t, []string{"Total hours", "2.5"}, rows[7])
}

func TestWriteWeeklyXLSXEmptyWeek(t *testing.T) {
	f := openWorkbook(t, core.WeeklyReport{
		Range:  core.WeekContaining(core.NewDate(2024, 5, 1)),
		Totals: core.Summarize(nil),
	})

	rows, err := f.GetRows(SheetActivities)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "cleaning-week-2024-04-29.xlsx", Filename(core.WeekContaining(core.NewDate(2024, 5, 1))))
}
