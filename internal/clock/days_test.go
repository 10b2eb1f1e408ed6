package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStart(t *testing.T) {
	// 2024-03-14 is a Thursday.
	thu := time.Date(2024, 3, 14, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), WeekStart(thu))

	sun := time.Date(2024, 3, 17, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), WeekStart(sun))

	mon := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, mon, WeekStart(mon))
}

func TestWeekdayIndex(t *testing.T) {
	assert.Equal(t, 0, WeekdayIndex(time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 6, WeekdayIndex(time.Date(2024, 3, 17, 12, 0, 0, 0, time.UTC)))
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)

	d, err := ParseDate(" 2024-02-29 ", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, loc), d)
	assert.Equal(t, "2024-02-29", FormatDate(d))

	_, err = ParseDate("2023-02-29", loc)
	assert.Error(t, err)

	_, err = ParseDate("29/02/2024", loc)
	assert.Error(t, err)
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	c := NewFixed(start)
	c.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
	assert.True(t, SameDay(NextDay(start).Add(-time.Nanosecond), start))
}
