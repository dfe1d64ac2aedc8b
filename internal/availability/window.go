package availability

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DayIntentKind enumerates the recognized day requests.
type DayIntentKind int

const (
	// DayDefault means no day was requested: search the next 7 days.
	DayDefault DayIntentKind = iota
	// DayToday restricts the search to the current local calendar date.
	DayToday
	// DayTomorrow restricts the search to the next local calendar date.
	DayTomorrow
	// DayExplicit restricts the search to an explicit YYYY-MM-DD date.
	DayExplicit
)

// DayIntent is the day request detected in a message. Year/Month/Day are
// only set for DayExplicit and carry exactly what the pattern matched;
// calendar validation happens in ResolveWindow.
type DayIntent struct {
	Kind  DayIntentKind
	Year  int
	Month int
	Day   int
}

// Window is a half-open UTC query range for availability lookups.
type Window struct {
	Start time.Time
	End   time.Time
}

var explicitDatePattern = regexp.MustCompile(`(20\d{2})-(\d{2})-(\d{2})`)

// DetectDayIntent scans a message for a day request. Keywords win over the
// explicit date pattern, and "tomorrow" wins over "today".
func DetectDayIntent(text string) DayIntent {
	lower := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.Contains(lower, "tomorrow") || strings.Contains(lower, "zítra"):
		return DayIntent{Kind: DayTomorrow}
	case strings.Contains(lower, "today") || strings.Contains(lower, "dnes"):
		return DayIntent{Kind: DayToday}
	}
	if m := explicitDatePattern.FindStringSubmatch(lower); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return DayIntent{Kind: DayExplicit, Year: year, Month: month, Day: day}
	}
	return DayIntent{Kind: DayDefault}
}

// Location resolves a timezone name, falling back to a fixed UTC+1 offset
// when the timezone database is unavailable. The fallback does not apply
// daylight saving time; that is a known approximation.
func Location(timezone string) *time.Location {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err == nil {
			return loc
		}
	}
	return time.FixedZone("UTC+1", int(time.Hour/time.Second))
}

// ResolveWindow turns a day intent plus the current instant into a UTC query
// window. Relative and explicit days cover the full local calendar date
// [00:00:00, 23:59:59.999] converted to UTC; the default is the next 7 days
// from now. An explicit date that is not a valid calendar date is an error —
// callers are expected to degrade to the default window.
func ResolveWindow(intent DayIntent, now time.Time, loc *time.Location) (Window, error) {
	nowLocal := now.In(loc)

	var day time.Time
	switch intent.Kind {
	case DayToday:
		day = nowLocal
	case DayTomorrow:
		day = nowLocal.AddDate(0, 0, 1)
	case DayExplicit:
		day = time.Date(intent.Year, time.Month(intent.Month), intent.Day, 0, 0, 0, 0, loc)
		if day.Year() != intent.Year || int(day.Month()) != intent.Month || day.Day() != intent.Day {
			return Window{}, fmt.Errorf("availability: invalid calendar date %04d-%02d-%02d", intent.Year, intent.Month, intent.Day)
		}
	default:
		start := now.UTC()
		return Window{Start: start, End: start.Add(7 * 24 * time.Hour)}, nil
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	return Window{Start: start.UTC(), End: end.UTC()}, nil
}

// NotBeforeFloor computes the earliest UTC instant a slot may start. When a
// specific day was requested the floor still never precedes now, so asking
// for "today" cannot surface past times. The window itself may lie entirely
// in the past for an explicit past date; the floor alone guards against
// suggesting it.
func NotBeforeFloor(intent DayIntent, w Window, now time.Time) time.Time {
	nowUTC := now.UTC()
	if intent.Kind == DayDefault {
		return nowUTC
	}
	if w.Start.After(nowUTC) {
		return w.Start
	}
	return nowUTC
}
