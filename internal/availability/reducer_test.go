package availability

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkadlec/barber-whatsapp-bot/internal/reservio"
)

func noHours() SummarizeOptions {
	return SummarizeOptions{Limit: 10, OpenHourLocal: -1, CloseHourLocal: -1}
}

func TestSummarizeSlotsEmptyInput(t *testing.T) {
	got := SummarizeSlots(nil, noHours())
	assert.Equal(t, "No available booking slots were found in the requested window.", got)
}

func TestSummarizeSlotsUnparsable(t *testing.T) {
	slots := []reservio.BookingSlot{
		{Start: "not-a-time", End: "also-not"},
		{Start: "2026-01-15T09:00:00Z", End: ""},
	}
	got := SummarizeSlots(slots, noHours())
	assert.Equal(t, "Slots data available but could not be parsed.", got)
}

func TestSummarizeSlotsDedupAndOrder(t *testing.T) {
	// Duplicated exact pair plus out-of-order entries.
	slots := []reservio.BookingSlot{
		{Start: "2026-01-15T10:15:00Z", End: "2026-01-15T10:45:00Z"},
		{Start: "2026-01-15T09:00:00Z", End: "2026-01-15T09:30:00Z"},
		{Start: "2026-01-15T09:00:00Z", End: "2026-01-15T09:30:00Z"},
	}
	prague := time.FixedZone("UTC+1", 3600)
	opts := noHours()
	opts.Location = prague
	opts.NotBefore = time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)

	got := SummarizeSlots(slots, opts)
	want := "Here are some available times (Europe/Prague):\n" +
		"- 10:00 AM–10:30 AM\n" +
		"- 11:15 AM–11:45 AM"
	assert.Equal(t, want, got)

	// Reducing an already reduced-equivalent list is a no-op.
	again := SummarizeSlots(slots, opts)
	assert.Equal(t, got, again)
}

func TestSummarizeSlotsSortInvariant(t *testing.T) {
	slots := []reservio.BookingSlot{
		{Start: "2026-01-15T14:00:00Z", End: "2026-01-15T14:30:00Z"},
		{Start: "2026-01-15T09:00:00Z", End: "2026-01-15T09:30:00Z"},
		{Start: "2026-01-15T11:00:00Z", End: "2026-01-15T11:30:00Z"},
	}
	got := SummarizeSlots(slots, noHours())
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "- 9:00 AM–9:30 AM", lines[1])
	assert.Equal(t, "- 11:00 AM–11:30 AM", lines[2])
	assert.Equal(t, "- 2:00 PM–2:30 PM", lines[3])
}

func TestSummarizeSlotsNotBeforeFloor(t *testing.T) {
	slots := []reservio.BookingSlot{
		{Start: "2026-01-15T09:00:00Z", End: "2026-01-15T09:30:00Z"},
		{Start: "2026-01-15T12:00:00Z", End: "2026-01-15T12:30:00Z"},
	}
	opts := noHours()
	// Floor sits inside the window, between the two slots.
	opts.NotBefore = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	got := SummarizeSlots(slots, opts)
	assert.NotContains(t, got, "9:00 AM")
	assert.Contains(t, got, "- 12:00 PM–12:30 PM")
}

func TestSummarizeSlotsNotBeforeOffsetNormalized(t *testing.T) {
	// A +02:00 start equal to the UTC floor must survive.
	slots := []reservio.BookingSlot{
		{Start: "2026-01-15T12:00:00+02:00", End: "2026-01-15T12:30:00+02:00"},
	}
	opts := noHours()
	opts.NotBefore = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	got := SummarizeSlots(slots, opts)
	assert.Contains(t, got, "Here are some available times")
}

func TestSummarizeSlotsMinDuration(t *testing.T) {
	slots := []reservio.BookingSlot{
		{Start: "2026-01-15T09:00:00Z", End: "2026-01-15T09:15:00Z"},
		{Start: "2026-01-15T10:00:00Z", End: "2026-01-15T10:30:00Z"},
	}
	opts := noHours()
	opts.MinDurationMin = 30

	got := SummarizeSlots(slots, opts)
	assert.NotContains(t, got, "9:00 AM")
	assert.Contains(t, got, "- 10:00 AM–10:30 AM")
}

func TestSummarizeSlotsBusinessHours(t *testing.T) {
	prague := time.FixedZone("UTC+1", 3600)
	slots := []reservio.BookingSlot{
		// 08:00–08:30 local: kept.
		{Start: "2026-01-15T07:00:00Z", End: "2026-01-15T07:30:00Z"},
		// 07:30–08:00 local: starts before open, dropped.
		{Start: "2026-01-15T06:30:00Z", End: "2026-01-15T07:00:00Z"},
		// 15:45–16:15 local: ends past close, dropped.
		{Start: "2026-01-15T14:45:00Z", End: "2026-01-15T15:15:00Z"},
		// 15:30–16:00 local: ends exactly on the close hour, kept.
		{Start: "2026-01-15T14:30:00Z", End: "2026-01-15T15:00:00Z"},
	}
	opts := SummarizeOptions{Limit: 10, Location: prague, OpenHourLocal: 8, CloseHourLocal: 16}

	got := SummarizeSlots(slots, opts)
	want := "Here are some available times (Europe/Prague):\n" +
		"- 8:00 AM–8:30 AM\n" +
		"- 3:30 PM–4:00 PM"
	assert.Equal(t, want, got)
}

func TestSummarizeSlotsLimit(t *testing.T) {
	slots := make([]reservio.BookingSlot, 0, 8)
	base := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		start := base.Add(time.Duration(i) * time.Hour)
		slots = append(slots, reservio.BookingSlot{
			Start: start.Format(time.RFC3339),
			End:   start.Add(30 * time.Minute).Format(time.RFC3339),
		})
	}
	opts := noHours()
	opts.Limit = 3

	got := SummarizeSlots(slots, opts)
	lines := strings.Split(got, "\n")
	assert.Len(t, lines, 4) // header + 3 slots
}

func TestSummarizeSlotsLimitSkipsFilteredEntries(t *testing.T) {
	// Filtered-out earlier slots must not consume the limit.
	slots := []reservio.BookingSlot{
		{Start: "2026-01-15T06:00:00Z", End: "2026-01-15T06:30:00Z"},
		{Start: "2026-01-15T10:00:00Z", End: "2026-01-15T10:30:00Z"},
	}
	opts := noHours()
	opts.Limit = 1
	opts.NotBefore = time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)

	got := SummarizeSlots(slots, opts)
	assert.Contains(t, got, "- 10:00 AM–10:30 AM")
}

func TestSummarizeSlotsAnnotateLast(t *testing.T) {
	slots := []reservio.BookingSlot{
		{Start: "2026-01-15T09:00:00Z", End: "2026-01-15T09:30:00Z"},
		{Start: "2026-01-15T10:00:00Z", End: "2026-01-15T10:30:00Z"},
	}
	opts := noHours()
	opts.AnnotateLastStart = true

	got := SummarizeSlots(slots, opts)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	assert.False(t, strings.HasSuffix(lines[1], "(last start today)"))
	assert.Equal(t, "- 10:00 AM–10:30 AM (last start today)", lines[2])
}

func TestSummarizeSlotsMalformedEntryDroppedNotBatch(t *testing.T) {
	slots := []reservio.BookingSlot{
		{Start: "garbage", End: "2026-01-15T09:30:00Z"},
		{Start: "2026-01-15T10:00:00Z", End: "2026-01-15T10:30:00Z"},
	}
	got := SummarizeSlots(slots, noHours())
	assert.Equal(t, "Here are some available times (Europe/Prague):\n- 10:00 AM–10:30 AM", got)
}
