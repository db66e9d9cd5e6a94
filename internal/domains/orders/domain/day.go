package domain

import (
	"fmt"
	"time"
)

// Day is a calendar date without a timezone.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDay builds a Day and rejects dates that do not exist on the calendar.
func NewDay(year int, month time.Month, day int) (Day, error) {
	if month < time.January || month > time.December || day < 1 {
		return Day{}, fmt.Errorf("%04d-%02d-%02d is not a calendar date", year, int(month), day)
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Day{}, fmt.Errorf("%04d-%02d-%02d is not a calendar date", year, int(month), day)
	}
	return Day{Year: year, Month: month, Day: day}, nil
}

// DayOf returns the calendar day t falls on in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

// Window returns the half-open interval [start of day, start of next day) in loc.
func (d Day) Window(loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
	return start, time.Date(d.Year, d.Month, d.Day+1, 0, 0, 0, 0, loc)
}

// String renders the day as dd-mm-yyyy.
func (d Day) String() string {
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, int(d.Month), d.Year)
}
