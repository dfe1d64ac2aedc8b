package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDayIntent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want DayIntent
	}{
		{"tomorrow keyword", "can I come tomorrow?", DayIntent{Kind: DayTomorrow}},
		{"czech tomorrow", "zítra prosím", DayIntent{Kind: DayTomorrow}},
		{"today keyword", "anything today", DayIntent{Kind: DayToday}},
		{"czech today", "dnes odpoledne", DayIntent{Kind: DayToday}},
		{"explicit date", "what about 2026-09-05", DayIntent{Kind: DayExplicit, Year: 2026, Month: 9, Day: 5}},
		{"keyword beats date", "tomorrow or 2026-09-05", DayIntent{Kind: DayTomorrow}},
		{"today beats date", "today not 2026-09-05", DayIntent{Kind: DayToday}},
		{"no day request", "do you have a beard trim", DayIntent{Kind: DayDefault}},
		{"empty", "", DayIntent{Kind: DayDefault}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDayIntent(tt.text))
		})
	}
}

func TestResolveWindowToday(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)

	// 2026-09-01 10:00 UTC is 12:00 in Prague (DST, UTC+2).
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	w, err := ResolveWindow(DayIntent{Kind: DayToday}, now, prague)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 8, 31, 22, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, 9, 1, 21, 59, 59, int(999*time.Millisecond), time.UTC), w.End)
}

func TestResolveWindowTomorrow(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)

	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	w, err := ResolveWindow(DayIntent{Kind: DayTomorrow}, now, prague)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 1, 22, 0, 0, 0, time.UTC), w.Start)
	assert.True(t, w.End.After(w.Start))
}

func TestResolveWindowExplicitDate(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	w, err := ResolveWindow(DayIntent{Kind: DayExplicit, Year: 2026, Month: 1, Day: 20}, now, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 19, 23, 0, 0, 0, time.UTC), w.Start)
}

func TestResolveWindowInvalidDate(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	_, err := ResolveWindow(DayIntent{Kind: DayExplicit, Year: 2026, Month: 2, Day: 30}, now, loc)
	assert.Error(t, err)

	_, err = ResolveWindow(DayIntent{Kind: DayExplicit, Year: 2026, Month: 13, Day: 1}, now, loc)
	assert.Error(t, err)
}

func TestResolveWindowDefault(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	w, err := ResolveWindow(DayIntent{Kind: DayDefault}, now, loc)
	require.NoError(t, err)
	assert.Equal(t, now, w.Start)
	assert.Equal(t, now.Add(7*24*time.Hour), w.End)
}

func TestNotBeforeFloor(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	// A window starting in the past (asking for "today" mid-day) must still
	// floor at now.
	past := Window{Start: now.Add(-10 * time.Hour), End: now.Add(14 * time.Hour)}
	assert.Equal(t, now, NotBeforeFloor(DayIntent{Kind: DayToday}, past, now))

	// A fully future day floors at the window start.
	future := Window{Start: now.Add(24 * time.Hour), End: now.Add(48 * time.Hour)}
	assert.Equal(t, future.Start, NotBeforeFloor(DayIntent{Kind: DayExplicit}, future, now))

	// The default window always floors at now.
	def := Window{Start: now, End: now.Add(7 * 24 * time.Hour)}
	assert.Equal(t, now, NotBeforeFloor(DayIntent{Kind: DayDefault}, def, now))
}

func TestLocationFallback(t *testing.T) {
	loc := Location("Not/AZone")
	_, offset := time.Date(2026, 6, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 3600, offset)
}

func TestLocationValid(t *testing.T) {
	loc := Location("Europe/Prague")
	assert.Equal(t, "Europe/Prague", loc.String())
}
