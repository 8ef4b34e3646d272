package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

func TestAddWorkingDays(t *testing.T) {
	friday := date(2024, time.June, 7)

	tests := []struct {
		name     string
		cal      *Calendar
		start    time.Time
		days     int
		expected time.Time
	}{
		{
			name:     "zero days",
			cal:      New(nil, nil),
			start:    friday,
			days:     0,
			expected: friday,
		},
		{
			name:     "negative days",
			cal:      New(nil, nil),
			start:    friday,
			days:     -3,
			expected: friday,
		},
		{
			name:     "friday plus one skips weekend",
			cal:      New(nil, nil),
			start:    friday,
			days:     1,
			expected: date(2024, time.June, 10),
		},
		{
			name:     "monday holiday pushes to tuesday",
			cal:      New(MustMonthDays("06-10"), nil),
			start:    friday,
			days:     1,
			expected: date(2024, time.June, 11),
		},
		{
			name:     "saturday working holiday counts",
			cal:      New(MustMonthDays("06-10"), MustMonthDays("06-08")),
			start:    friday,
			days:     1,
			expected: date(2024, time.June, 8),
		},
		{
			name:     "default calendar skips russia day",
			cal:      Default(),
			start:    friday,
			days:     3,
			expected: date(2024, time.June, 13),
		},
		{
			name:     "default calendar november break",
			cal:      Default(),
			start:    date(2024, time.October, 31),
			days:     2,
			expected: date(2024, time.November, 5),
		},
		{
			name:     "default working holiday on saturday",
			cal:      Default(),
			start:    date(2025, time.October, 31),
			days:     1,
			expected: date(2025, time.November, 1),
		},
		{
			name:     "new year block",
			cal:      Default(),
			start:    date(2024, time.January, 2),
			days:     3,
			expected: date(2024, time.January, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.cal.AddWorkingDays(tt.start, tt.days))
		})
	}
}

func TestIsWorkingDay(t *testing.T) {
	cal := Default()
	require.True(t, cal.IsWorkingDay(date(2024, time.June, 11)))
	require.False(t, cal.IsWorkingDay(date(2024, time.June, 12)))
	require.False(t, cal.IsWorkingDay(date(2024, time.June, 15)))
	require.True(t, cal.IsWorkingDay(date(2025, time.November, 1)))
}

func TestParseMonthDay(t *testing.T) {
	md, err := ParseMonthDay("02-23")
	require.NoError(t, err)
	require.Equal(t, MonthDay{Month: time.February, Day: 23}, md)
	require.Equal(t, "02-23", md.String())

	_, err = ParseMonthDay("13-01")
	require.Error(t, err)

	_, err = ParseMonthDay("23-02")
	require.Error(t, err)
}

func TestDateOnly(t *testing.T) {
	require.Equal(t, time.Date(2024, time.June, 7, 0, 0, 0, 0, time.UTC), DateOnly(date(2024, time.June, 7)))
}
