package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FromKind discriminates the recognized forms of a "from" specification.
type FromKind int

const (
	FromToday FromKind = iota
	FromInstant
	FromOffset
	FromAbsolute
	FromEpoch
	FromWeekday
)

// FromSpec is the caller-supplied description of where a day-range query
// should begin. It is parsed once per request, resolved immediately to an
// Instant, and discarded.
type FromSpec struct {
	Kind FromKind

	At       Instant // FromInstant
	Days     int     // FromOffset
	Date     string  // FromAbsolute, raw text
	Epoch    int64   // FromEpoch
	Weekday  int     // FromWeekday, index into the weekday table
	Previous bool    // FromWeekday direction
}

// SpecAt wraps an already-resolved instant as a from specification.
func SpecAt(i Instant) FromSpec {
	return FromSpec{Kind: FromInstant, At: i}
}

var (
	offsetSpecRe  = regexp.MustCompile(`^[+-]?\d+$`)
	epochSpecRe   = regexp.MustCompile(`^=(\d+)$`)
	weekdaySpecRe = regexp.MustCompile(`^(-?)([A-Za-z]{3})$`)
)

// ParseFromSpec classifies raw text into a FromSpec. The rules are tried in
// order: signed day offset, ISO date or date-time, "=<seconds>" epoch,
// optionally negated three-letter weekday name. Anything unrecognized means
// "today"; bad input is masked rather than reported, so parsing is total.
func ParseFromSpec(raw string, weekdays []string) FromSpec {
	raw = strings.TrimSpace(raw)
	switch {
	case offsetSpecRe.MatchString(raw):
		days, _ := strconv.Atoi(raw)
		return FromSpec{Kind: FromOffset, Days: days}
	case dateRe.MatchString(raw):
		return FromSpec{Kind: FromAbsolute, Date: raw}
	case epochSpecRe.MatchString(raw):
		sec, _ := strconv.ParseInt(epochSpecRe.FindStringSubmatch(raw)[1], 10, 64)
		return FromSpec{Kind: FromEpoch, Epoch: sec}
	}
	if m := weekdaySpecRe.FindStringSubmatch(raw); m != nil {
		name := strings.ToLower(m[2])
		for i, wd := range weekdays {
			if wd == name {
				return FromSpec{Kind: FromWeekday, Weekday: i, Previous: m[1] == "-"}
			}
		}
	}
	return FromSpec{Kind: FromToday}
}

// Resolve turns the specification into an absolute instant relative to
// today. It is total: every kind, including FromToday, produces a value.
func (f FromSpec) Resolve(today Instant) Instant {
	switch f.Kind {
	case FromInstant:
		return Instant{Time: f.At.Time.UTC(), DateOnly: f.At.DateOnly}
	case FromOffset:
		return today.AddDays(f.Days)
	case FromAbsolute:
		i, err := ParseDateString(f.Date)
		if err != nil {
			return today
		}
		return i
	case FromEpoch:
		return Instant{Time: time.Unix(f.Epoch, 0).UTC()}
	case FromWeekday:
		// Nearest occurrence on the requested side of today. A previous
		// weekday equal to today's resolves to today itself; a next one
		// wraps a full week forward.
		diff := f.Weekday - int(today.UTC().Weekday())
		if f.Previous {
			if diff > 0 {
				diff -= 7
			}
		} else {
			if diff <= 0 {
				diff += 7
			}
		}
		return today.AddDays(diff)
	}
	return today
}
