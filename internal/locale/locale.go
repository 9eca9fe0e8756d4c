// Package locale holds the display formats and strings used when rendering
// events and day buckets. Components receive a *Locale explicitly; nothing
// reads it from ambient state.
package locale

import "os"

// Locale carries day/time layout patterns (Go reference-time layouts) and the
// fixed phrases used by the time-string formatter, plus the ordered table of
// abbreviated weekday names used to resolve "from" specifications.
type Locale struct {
	DayFormat     string // short day label, e.g. "Mon Jan 2"
	LongDayFormat string // long day label, e.g. "Monday, January 2"
	TimeFormat    string // time of day, e.g. "15:04"
	AtFormat      string // day label with time, e.g. "Mon Jan 2 at 15:04"

	AllDay      string
	StartingAt  string
	From        string
	To          string
	UnknownTime string

	// Weekdays is ordered to match time.Weekday, Sunday first.
	Weekdays []string
}

// Default returns the built-in English locale.
func Default() *Locale {
	return &Locale{
		DayFormat:     "Mon Jan 2",
		LongDayFormat: "Monday, January 2",
		TimeFormat:    "15:04",
		AtFormat:      "Mon Jan 2 at 15:04",
		AllDay:        "All day",
		StartingAt:    "Starting at ",
		From:          "From ",
		To:            " to ",
		UnknownTime:   "Unknown time",
		Weekdays:      []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"},
	}
}

// Load returns the default locale with any AGENDA_* environment overrides
// applied. Weekday names are not overridable; the from-spec syntax depends
// on them.
func Load() *Locale {
	loc := Default()
	loc.DayFormat = getenvDefault("AGENDA_DAY_FORMAT", loc.DayFormat)
	loc.LongDayFormat = getenvDefault("AGENDA_LONG_DAY_FORMAT", loc.LongDayFormat)
	loc.TimeFormat = getenvDefault("AGENDA_TIME_FORMAT", loc.TimeFormat)
	loc.AtFormat = getenvDefault("AGENDA_AT_FORMAT", loc.AtFormat)
	return loc
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
