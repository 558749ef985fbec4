package bar

import "time"

// DurationBetween decomposes the span between two instants into calendar
// components plus straight-line totals. The result is magnitude only: if b
// precedes a the instants are swapped first, so every field is non-negative.
//
// Decomposition order matters: whole years are removed first, then whole
// months (mod 12), and the day/hour/minute remainder is measured from the
// anchor instant a+years+months so that month-length differences never leak
// into the smaller components.
func DurationBetween(a, b time.Time) Duration {
	if b.Before(a) {
		a, b = b, a
	}

	raw := b.Sub(a)
	total := Duration{
		TotalDays:    int(raw.Hours() / 24),
		TotalHours:   int(raw.Hours()),
		TotalMinutes: int(raw.Minutes()),
	}

	years := b.Year() - a.Year()
	if years > 0 && a.AddDate(years, 0, 0).After(b) {
		years--
	}

	months := 0
	for months < 12 {
		if a.AddDate(years, months+1, 0).After(b) {
			break
		}
		months++
	}

	anchor := a.AddDate(years, months, 0)
	rem := b.Sub(anchor)

	total.Years = years
	total.Months = months
	total.Days = int(rem.Hours() / 24)
	total.Hours = int(rem.Hours()) % 24
	total.Minutes = int(rem.Minutes()) % 60
	return total
}

// DurationInDays returns the whole-day difference between two instants,
// magnitude only. Order of arguments does not matter.
func DurationInDays(a, b time.Time) int {
	d := b.Sub(a)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}

// ElapsedDays returns the whole days from start to current, clamped to zero
// when current precedes start.
func ElapsedDays(start, current time.Time) int {
	d := current.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// CountLeapYears counts Gregorian leap years whose year number falls within
// the inclusive range spanned by the two instants. UTC year components are
// used so local-timezone boundaries cannot shift a year in or out of range.
func CountLeapYears(start, end time.Time) int {
	lo, hi := start.UTC().Year(), end.UTC().Year()
	if lo > hi {
		lo, hi = hi, lo
	}

	count := 0
	for y := lo; y <= hi; y++ {
		if isLeapYear(y) {
			count++
		}
	}
	return count
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// wholeYearsBetween returns the number of whole calendar years between two
// instants, magnitude only.
func wholeYearsBetween(a, b time.Time) int {
	if b.Before(a) {
		a, b = b, a
	}
	years := b.Year() - a.Year()
	if years > 0 && a.AddDate(years, 0, 0).After(b) {
		years--
	}
	return years
}
