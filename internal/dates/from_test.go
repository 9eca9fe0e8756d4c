package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"agendacal/internal/locale"
)

// 2024-03-06 is a Wednesday.
var fromToday = Instant{Time: time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)}

func resolveDay(t *testing.T, raw string) string {
	t.Helper()
	spec := ParseFromSpec(raw, locale.Default().Weekdays)
	return spec.Resolve(fromToday).TruncateDay().DateKey()
}

func TestResolveFromSpecOffsets(t *testing.T) {
	assert.Equal(t, "2024-03-09", resolveDay(t, "3"))
	assert.Equal(t, "2024-03-09", resolveDay(t, "+3"))
	assert.Equal(t, "2024-03-03", resolveDay(t, "-3"))
	assert.Equal(t, "2024-03-06", resolveDay(t, "0"))
}

func TestResolveFromSpecAbsolute(t *testing.T) {
	assert.Equal(t, "2024-05-01", resolveDay(t, "2024-05-01"))
	assert.Equal(t, "2024-05-01", resolveDay(t, "2024-05-01T18:00:00Z"))
}

func TestResolveFromSpecEpoch(t *testing.T) {
	spec := ParseFromSpec("=1700000000", locale.Default().Weekdays)
	got := spec.Resolve(fromToday)
	assert.True(t, got.UTC().Equal(time.Unix(1700000000, 0).UTC()))
}

func TestResolveFromSpecWeekday(t *testing.T) {
	// Upcoming weekdays, relative to Wednesday.
	assert.Equal(t, "2024-03-08", resolveDay(t, "fri"))
	assert.Equal(t, "2024-03-07", resolveDay(t, "thu"))
	// The requested day equals today: "next" wraps a full week forward...
	assert.Equal(t, "2024-03-13", resolveDay(t, "wed"))
	// ...while "previous" keeps today itself.
	assert.Equal(t, "2024-03-06", resolveDay(t, "-wed"))
	// Past weekdays.
	assert.Equal(t, "2024-03-01", resolveDay(t, "-fri"))
	assert.Equal(t, "2024-03-05", resolveDay(t, "-tue"))
	// Wrapping in both directions.
	assert.Equal(t, "2024-03-12", resolveDay(t, "tue"))
	assert.Equal(t, "2024-03-03", resolveDay(t, "-sun"))
}

func TestResolveFromSpecUnrecognized(t *testing.T) {
	for _, raw := range []string{"", "tomorrow", "friday", "=abc", "3.5"} {
		assert.Equal(t, "2024-03-06", resolveDay(t, raw), "input %q should fall back to today", raw)
	}
}

func TestResolveFromSpecInstantPassthrough(t *testing.T) {
	at := Instant{Time: time.Date(2024, 7, 1, 9, 0, 0, 0, time.FixedZone("CEST", 2*3600))}
	got := SpecAt(at).Resolve(fromToday)
	assert.True(t, got.UTC().Equal(at.UTC()))
	assert.Equal(t, time.UTC, got.Time.Location())
}
