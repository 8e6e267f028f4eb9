package core

// WeeklyTotals aggregates the activities of one week.
type WeeklyTotals struct {
	CountsByType map[ActivityType]int // only types with at least one activity
	TotalHours   Hours                // move-out cleanings only
}

// TypeCount is one row of the totals table.
type TypeCount struct {
	Type  ActivityType
	Count int
}

// WeeklyReport is everything the weekly overview renders.
type WeeklyReport struct {
	Range      WeekRange
	Activities []CleaningActivity
	Totals     WeeklyTotals
}

// Summarize counts activities per type and sums move-out hours. The result
// depends only on the multiset of activities, not on their order.
func Summarize(activities []CleaningActivity) WeeklyTotals {
	totals := WeeklyTotals{CountsByType: map[ActivityType]int{}}
	for _, a := range activities {
		t := a.Type()
		if t == "" {
			continue
		}
		totals.CountsByType[t]++
		if h, ok := a.HoursWorked(); ok {
			totals.TotalHours = totals.TotalHours.Add(h)
		}
	}
	return totals
}

// Count returns the number of activities of type t.
func (w WeeklyTotals) Count(t ActivityType) int {
	return w.CountsByType[t]
}

// Total returns the number of activities across all types.
func (w WeeklyTotals) Total() int {
	n := 0
	for _, c := range w.CountsByType {
		n += c
	}
	return n
}

// Rows returns one row per known type, in display order, including zeros.
func (w WeeklyTotals) Rows() []TypeCount {
	rows := make([]TypeCount, 0, len(ActivityTypes()))
	for _, t := range ActivityTypes() {
		rows = append(rows, TypeCount{Type: t, Count: w.Count(t)})
	}
	return rows
}
