package dates

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendacal/internal/locale"
)

func TestParseDateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     time.Time
		dateOnly bool
	}{
		{
			name:     "date only",
			input:    "2024-01-01",
			want:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			dateOnly: true,
		},
		{
			name:  "datetime with Z",
			input: "2024-01-01T14:30:00Z",
			want:  time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC),
		},
		{
			name:  "datetime without offset defaults to UTC",
			input: "2024-01-01T14:30:00",
			want:  time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC),
		},
		{
			name:  "datetime with positive offset",
			input: "2024-01-01T14:30:00+02:00",
			want:  time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name:  "datetime with negative offset",
			input: "2024-06-15T23:00:00-05:00",
			want:  time.Date(2024, 6, 16, 4, 0, 0, 0, time.UTC),
		},
		{
			name:  "partial clock defaults missing fields to zero",
			input: "2024-01-01T14",
			want:  time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC),
		},
		{
			name:  "hour and minute only",
			input: "2024-01-01T14:30",
			want:  time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateString(tt.input)
			require.NoError(t, err)
			assert.True(t, got.UTC().Equal(tt.want), "got %v, want %v", got.UTC(), tt.want)
			assert.Equal(t, tt.dateOnly, got.DateOnly)
		})
	}
}

func TestParseDateStringMalformed(t *testing.T) {
	for _, input := range []string{"", "tomorrow", "2024-1-1", "01/02/2024", "24-01-01"} {
		_, err := ParseDateString(input)
		var parseErr *ParseError
		require.Error(t, err, "input %q", input)
		assert.True(t, errors.As(err, &parseErr), "input %q should yield a ParseError", input)
	}
}

func TestSameDay(t *testing.T) {
	a, err := ParseDateString("2024-01-01T23:00:00Z")
	require.NoError(t, err)
	b, err := ParseDateString("2024-01-01")
	require.NoError(t, err)
	assert.True(t, SameDay(a, b))

	// The comparison happens in UTC: 23:00-05:00 is already January 2nd.
	c, err := ParseDateString("2024-01-01T23:00:00-05:00")
	require.NoError(t, err)
	assert.False(t, SameDay(c, b))
}

func TestTruncateDay(t *testing.T) {
	i, err := ParseDateString("2024-03-05T18:45:12Z")
	require.NoError(t, err)
	day := i.TruncateDay()
	assert.True(t, day.DateOnly)
	assert.Equal(t, "2024-03-05", day.DateKey())
	assert.True(t, day.UTC().Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
}

func TestHumanTime(t *testing.T) {
	loc := locale.Default()
	ref := Instant{Time: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), DateOnly: true}
	sameDay := Instant{Time: time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)}
	otherDay := Instant{Time: time.Date(2024, 3, 7, 9, 15, 0, 0, time.UTC)}

	assert.Equal(t, "14:30", HumanTime(loc, sameDay, ref, false))
	assert.Equal(t, "Tue Mar 5", HumanTime(loc, sameDay, ref, true))
	assert.Equal(t, "Thu Mar 7 at 09:15", HumanTime(loc, otherDay, ref, false))
	assert.Equal(t, "Thu Mar 7", HumanTime(loc, otherDay, ref, true))
}
