package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	loc := Default()
	assert.Equal(t, "All day", loc.AllDay)
	assert.Len(t, loc.Weekdays, 7)
	assert.Equal(t, "sun", loc.Weekdays[0])
	assert.Equal(t, "sat", loc.Weekdays[6])
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AGENDA_TIME_FORMAT", "3:04 PM")
	t.Setenv("AGENDA_DAY_FORMAT", "2 Jan")

	loc := Load()
	assert.Equal(t, "3:04 PM", loc.TimeFormat)
	assert.Equal(t, "2 Jan", loc.DayFormat)
	// Untouched fields keep their defaults.
	assert.Equal(t, "Monday, January 2", loc.LongDayFormat)
}
