package util

import (
	"time"
)

const DateLayout = "2006-01-02"

func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// TruncateDate drops the clock component and normalizes to UTC, so dates
// read from different sources compare equal.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func DateLte(t1, t2 time.Time) bool {
	return t1.Before(t2) || t1.Format(DateLayout) == t2.Format(DateLayout)
}

func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// BusinessDays lists every weekday in [start, end].
func BusinessDays(start, end time.Time) []time.Time {
	out := []time.Time{}
	for d := TruncateDate(start); DateLte(d, end); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(d) {
			out = append(out, d)
		}
	}
	return out
}

// Fridays lists every Friday in [start, end].
func Fridays(start, end time.Time) []time.Time {
	d := TruncateDate(start)
	for d.Weekday() != time.Friday {
		d = d.AddDate(0, 0, 1)
	}
	out := []time.Time{}
	for ; DateLte(d, end); d = d.AddDate(0, 0, 7) {
		out = append(out, d)
	}
	return out
}

// WeekEndingFriday returns the Friday that closes the week containing t.
func WeekEndingFriday(t time.Time) time.Time {
	d := TruncateDate(t)
	offset := (int(time.Friday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}
