package domain

import (
	"fmt"
	"time"
)

const (
	// createdDateLayout formats a creation date as DD-MM-YYYY.
	createdDateLayout = "02-01-2006"
	// parseDateLayout also accepts days and months without zero padding.
	parseDateLayout = "2-1-2006"
)

var monthNames = [12]string{
	"Januari",
	"Februari",
	"Maret",
	"April",
	"Mei",
	"Juni",
	"Juli",
	"Agustus",
	"September",
	"Oktober",
	"November",
	"Desember",
}

// FormatCreatedDate renders t as DD-MM-YYYY in t's own location.
func FormatCreatedDate(t time.Time) string {
	return t.Format(createdDateLayout)
}

// ParseCreatedDate parses a stored DD-MM-YYYY value as midnight in loc.
func ParseCreatedDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(parseDateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid created date %q: %w", s, err)
	}
	return t, nil
}

// LongDate renders a stored date as "D MonthName YYYY", e.g. "5 April 2025".
func LongDate(s string) (string, error) {
	t, err := ParseCreatedDate(s, time.UTC)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %s %d", t.Day(), monthNames[t.Month()-1], t.Year()), nil
}

// RelativeAge describes how long ago the stored date was, relative to now.
// Days are counted on the calendar in now's location, so a short or long
// day around a daylight saving change still counts as one.
func RelativeAge(s string, now time.Time) (string, error) {
	date, err := ParseCreatedDate(s, now.Location())
	if err != nil {
		return "", err
	}
	return relativeAgeFromDays(calendarDays(date, now)), nil
}

// calendarDays returns the number of midnights between from and to, taking
// both dates as they read on the wall clock.
func calendarDays(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

func relativeAgeFromDays(days int) string {
	switch {
	case days < 0:
		return "in the future"
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 30:
		return fmt.Sprintf("%d days ago", days)
	case days < 365:
		return plural(days/30, "month")
	default:
		return plural(days/365, "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
