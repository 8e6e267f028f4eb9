package core

import (
	"strings"
	"time"
)

// WeekRange is a Monday..Sunday span of calendar dates, both ends inclusive.
type WeekRange struct {
	Start Date
	End   Date
}

// WeekOf returns the week containing reference. A blank or unparseable
// reference falls back to today's date according to now.
func WeekOf(reference string, now time.Time) WeekRange {
	if strings.TrimSpace(reference) != "" {
		if d, err := ParseDate(reference); err == nil {
			return WeekContaining(d)
		}
	}
	return WeekContaining(Today(now))
}

// WeekContaining returns the Monday-aligned week that includes d.
func WeekContaining(d Date) WeekRange {
	offset := int(d.Weekday()) - 1
	if d.Weekday() == time.Sunday {
		offset = 6
	}
	start := d.AddDays(-offset)
	return WeekRange{Start: start, End: start.AddDays(6)}
}

// Contains reports whether d lies within the range, inclusive.
func (w WeekRange) Contains(d Date) bool {
	return !d.Before(w.Start.Time) && !d.After(w.End.Time)
}

func (w WeekRange) Previous() WeekRange {
	return WeekContaining(w.Start.AddDays(-7))
}

func (w WeekRange) Next() WeekRange {
	return WeekContaining(w.Start.AddDays(7))
}
