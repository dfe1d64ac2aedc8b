package availability

import (
	"sort"
	"strings"
	"time"

	"github.com/mkadlec/barber-whatsapp-bot/internal/reservio"
)

// Fixed result strings. Downstream prompts and tests rely on exact equality.
const (
	noSlotsMessage    = "No available booking slots were found in the requested window."
	unparsableMessage = "Slots data available but could not be parsed."
	slotsHeader       = "Here are some available times (Europe/Prague):"
)

// SummarizeOptions controls slot reduction and rendering.
type SummarizeOptions struct {
	// Limit caps the number of formatted lines. Filtered-out slots never
	// count against it.
	Limit int

	// Location is the display timezone; nil leaves times as parsed.
	Location *time.Location

	// MinDurationMin drops slots shorter than this many whole minutes.
	// Zero or negative disables the filter.
	MinDurationMin int

	// NotBefore drops slots starting before this UTC instant. The zero
	// value disables the filter.
	NotBefore time.Time

	// OpenHourLocal/CloseHourLocal bound the local business day. The filter
	// applies only when both are within 0–23; pass -1 to disable. A slot
	// must start at or after the open hour and end by the close hour
	// (ending exactly on the close hour with zero minutes is allowed).
	OpenHourLocal  int
	CloseHourLocal int

	// AnnotateLastStart appends a "(last start today)" marker to the final
	// line when at least one slot survives.
	AnnotateLastStart bool
}

type parsedSlot struct {
	start time.Time
	end   time.Time
}

// SummarizeSlots reduces a raw availability listing to a short human-readable
// summary: deduplicate by the exact source timestamp pair, parse, sort by
// start, apply the not-before floor and duration and business-hour filters,
// truncate, and render one line per slot in 12-hour local time.
//
// A malformed timestamp drops only its own entry. The distinct "could not be
// parsed" message is returned when entries were present but nothing survived.
func SummarizeSlots(slots []reservio.BookingSlot, opts SummarizeOptions) string {
	if len(slots) == 0 {
		return noSlotsMessage
	}

	// Dedup on the exact start|end pair as given by the source; first
	// occurrence wins. Entries missing either timestamp are dropped.
	seen := make(map[string]struct{}, len(slots))
	unique := make([]reservio.BookingSlot, 0, len(slots))
	for _, s := range slots {
		if s.Start == "" || s.End == "" {
			continue
		}
		key := s.Start + "|" + s.End
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, s)
	}

	parsed := make([]parsedSlot, 0, len(unique))
	for _, s := range unique {
		start, err := time.Parse(time.RFC3339, s.Start)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, s.End)
		if err != nil {
			continue
		}
		parsed = append(parsed, parsedSlot{start: start, end: end})
	}

	sort.Slice(parsed, func(i, j int) bool {
		return parsed[i].start.Before(parsed[j].start)
	})

	filterHours := opts.OpenHourLocal >= 0 && opts.OpenHourLocal <= 23 &&
		opts.CloseHourLocal >= 0 && opts.CloseHourLocal <= 23

	lines := make([]string, 0, opts.Limit)
	for _, slot := range parsed {
		start, end := slot.start, slot.end

		if !opts.NotBefore.IsZero() && start.UTC().Before(opts.NotBefore.UTC()) {
			continue
		}
		if opts.MinDurationMin > 0 {
			if int(end.Sub(start)/time.Minute) < opts.MinDurationMin {
				continue
			}
		}
		if opts.Location != nil {
			start = start.In(opts.Location)
			end = end.In(opts.Location)
		}
		if filterHours {
			if start.Hour() < opts.OpenHourLocal {
				continue
			}
			if end.Hour() > opts.CloseHourLocal || (end.Hour() == opts.CloseHourLocal && end.Minute() > 0) {
				continue
			}
		}

		lines = append(lines, "- "+start.Format("3:04 PM")+"–"+end.Format("3:04 PM"))
		if opts.Limit > 0 && len(lines) >= opts.Limit {
			break
		}
	}

	if len(lines) == 0 {
		return unparsableMessage
	}
	if opts.AnnotateLastStart {
		lines[len(lines)-1] += " (last start today)"
	}
	return slotsHeader + "\n" + strings.Join(lines, "\n")
}
