package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendacal/internal/dates"
	"agendacal/internal/locale"
	"agendacal/internal/models"
)

func day(t *testing.T, s string) dates.Instant {
	t.Helper()
	i, err := dates.ParseDateString(s)
	require.NoError(t, err)
	return i
}

func TestAllDay(t *testing.T) {
	tests := []struct {
		name  string
		start models.EventTime
		end   models.EventTime
		want  bool
	}{
		{
			name:  "single day",
			start: models.EventTime{Date: "2024-01-01"},
			end:   models.EventTime{Date: "2024-01-02"},
			want:  true,
		},
		{
			name:  "multi-day span",
			start: models.EventTime{Date: "2024-01-01"},
			end:   models.EventTime{Date: "2024-01-03"},
			want:  true,
		},
		{
			name:  "timed event",
			start: models.EventTime{DateTime: "2024-01-01T09:00:00Z"},
			end:   models.EventTime{DateTime: "2024-01-01T10:00:00Z"},
			want:  false,
		},
		{
			name:  "date start but timed end",
			start: models.EventTime{Date: "2024-01-01"},
			end:   models.EventTime{DateTime: "2024-01-01T10:00:00Z"},
			want:  false,
		},
		{
			name:  "end equal to start",
			start: models.EventTime{Date: "2024-01-01"},
			end:   models.EventTime{Date: "2024-01-01"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllDay(tt.start, tt.end))
		})
	}
}

func TestTimeString(t *testing.T) {
	loc := locale.Default()
	ref := day(t, "2024-01-01")

	t.Run("missing start means all day", func(t *testing.T) {
		got := TimeString(loc, models.EventTime{}, models.EventTime{Date: "2024-01-02"}, ref)
		assert.Equal(t, "All day", got)
	})

	t.Run("single all-day event", func(t *testing.T) {
		got := TimeString(loc, models.EventTime{Date: "2024-01-01"}, models.EventTime{Date: "2024-01-02"}, ref)
		assert.Equal(t, "All day", got)
	})

	t.Run("multi-day all-day span reads through its inclusive end", func(t *testing.T) {
		got := TimeString(loc, models.EventTime{Date: "2024-01-01"}, models.EventTime{Date: "2024-01-03"}, ref)
		assert.Equal(t, "From Mon Jan 1 to Tue Jan 2", got)
	})

	t.Run("timed event on the reference day", func(t *testing.T) {
		got := TimeString(loc,
			models.EventTime{DateTime: "2024-01-01T09:00:00Z"},
			models.EventTime{DateTime: "2024-01-01T10:30:00Z"}, ref)
		assert.Equal(t, "From 09:00 to 10:30", got)
	})

	t.Run("timed event ending on a later day", func(t *testing.T) {
		got := TimeString(loc,
			models.EventTime{DateTime: "2024-01-01T22:00:00Z"},
			models.EventTime{DateTime: "2024-01-02T01:00:00Z"}, ref)
		assert.Equal(t, "From 22:00 to Tue Jan 2 at 01:00", got)
	})

	t.Run("start after end", func(t *testing.T) {
		// Long-standing behavior: an inverted range renders as a bare
		// starting time rather than an error.
		got := TimeString(loc,
			models.EventTime{DateTime: "2024-01-01T10:00:00Z"},
			models.EventTime{DateTime: "2024-01-01T09:00:00Z"}, ref)
		assert.Equal(t, "Starting at 10:00", got)
	})

	t.Run("unparseable end", func(t *testing.T) {
		got := TimeString(loc, models.EventTime{DateTime: "2024-01-01T10:00:00Z"}, models.EventTime{}, ref)
		assert.Equal(t, "Unknown time", got)
	})

	t.Run("timezone-qualified times normalize before comparing", func(t *testing.T) {
		start := models.EventTime{DateTime: "2024-01-01T10:00:00+02:00"}
		end := models.EventTime{DateTime: "2024-01-01T09:00:00Z"}
		// 10:00+02:00 is 08:00Z, one hour before the end.
		got := TimeString(loc, start, end, ref)
		assert.Equal(t, "From 10:00 to 09:00", got)
	})
}
