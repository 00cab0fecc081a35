// Package calendar holds the date arithmetic used by the week planner.
// All math is done on local calendar fields plus integer day offsets;
// no timezone conversion ever happens here.
package calendar

import (
	"fmt"
	"time"
)

// DateKeyLayout is the canonical wire format for dates.
const DateKeyLayout = "2006-01-02"

// WeekStart returns the Monday of the week containing d, normalized to
// midnight in d's location. ISO week start: Monday, regardless of locale.
func WeekStart(d time.Time) time.Time {
	// Go numbers Sunday=0 .. Saturday=6; Sunday belongs to the week
	// that started six days earlier.
	offset := int(d.Weekday()) - 1
	if offset < 0 {
		offset = 6
	}

	year, month, day := d.AddDate(0, 0, -offset).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, d.Location())
}

// WeekDays returns the seven consecutive days starting at start.
func WeekDays(start time.Time) [7]time.Time {
	var days [7]time.Time
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// DateKey formats d as zero-padded YYYY-MM-DD using its local calendar
// fields (not UTC).
func DateKey(d time.Time) string {
	year, month, day := d.Date()
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// ParseDateKey parses a YYYY-MM-DD key into a local-time date at midnight.
func ParseDateKey(key string) (time.Time, error) {
	d, err := time.ParseInLocation(DateKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected YYYY-MM-DD")
	}
	return d, nil
}
