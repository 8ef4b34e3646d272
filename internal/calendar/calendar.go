// Package calendar implements business-day arithmetic over a fixed yearly holiday table.
package calendar

import (
	"fmt"
	"time"
)

// MonthDay is a recurring calendar date independent of the year.
type MonthDay struct {
	Month time.Month
	Day   int
}

// ParseMonthDay parses a "MM-DD" string such as "02-23".
func ParseMonthDay(s string) (MonthDay, error) {
	t, err := time.Parse("01-02", s)
	if err != nil {
		return MonthDay{}, fmt.Errorf("parse month-day %q: %w", s, err)
	}
	return MonthDay{Month: t.Month(), Day: t.Day()}, nil
}

// MustMonthDays parses a list of "MM-DD" strings and panics on malformed input.
func MustMonthDays(values ...string) []MonthDay {
	out := make([]MonthDay, 0, len(values))
	for _, v := range values {
		md, err := ParseMonthDay(v)
		if err != nil {
			panic(err)
		}
		out = append(out, md)
	}
	return out
}

func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

func monthDayOf(t time.Time) MonthDay {
	return MonthDay{Month: t.Month(), Day: t.Day()}
}

// DefaultHolidays are the public holidays observed every year.
var DefaultHolidays = MustMonthDays(
	"01-01", "01-02", "01-03", "01-04", "01-05", "01-06", "01-07",
	"02-23", "03-08", "05-01", "05-09", "06-12", "11-03", "11-04",
)

// DefaultWorkingHolidays are dates worked in exchange for a day off elsewhere.
var DefaultWorkingHolidays = MustMonthDays("11-01")

// Calendar decides which dates count as working days.
type Calendar struct {
	holidays        map[MonthDay]struct{}
	workingHolidays map[MonthDay]struct{}
}

// New builds a calendar. Either list may be empty.
func New(holidays, workingHolidays []MonthDay) *Calendar {
	c := &Calendar{
		holidays:        make(map[MonthDay]struct{}, len(holidays)),
		workingHolidays: make(map[MonthDay]struct{}, len(workingHolidays)),
	}
	for _, h := range holidays {
		c.holidays[h] = struct{}{}
	}
	for _, w := range workingHolidays {
		c.workingHolidays[w] = struct{}{}
	}
	return c
}

// Default returns the calendar with the built-in holiday tables.
func Default() *Calendar {
	return New(DefaultHolidays, DefaultWorkingHolidays)
}

// IsWorkingDay reports whether t counts toward a working-day allowance. A working
// holiday counts even when it falls on a weekend.
func (c *Calendar) IsWorkingDay(t time.Time) bool {
	md := monthDayOf(t)
	if _, ok := c.workingHolidays[md]; ok {
		return true
	}
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	_, holiday := c.holidays[md]
	return !holiday
}

// AddWorkingDays walks forward from start one calendar day at a time and returns the
// date on which the n-th working day is reached. The time of day is preserved.
// For n <= 0 start is returned unchanged.
func (c *Calendar) AddWorkingDays(start time.Time, n int) time.Time {
	if n <= 0 {
		return start
	}
	current := start
	for counted := 0; counted < n; {
		current = current.AddDate(0, 0, 1)
		if c.IsWorkingDay(current) {
			counted++
		}
	}
	return current
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
