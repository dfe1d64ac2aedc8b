package reservio

// BusinessInfo is the subset of business attributes the bot grounds replies on.
type BusinessInfo struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone,omitempty"`
}

// Service represents a bookable service from the business catalog.
// Catalog order is the display order and defines 1-based ordinal selection.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DurationSec int    `json:"durationSec,omitempty"`
}

// BookingSlot is a raw availability entry as returned by the API. Start and
// End are kept as the source's ISO-8601 strings; deduplication keys on the
// exact pair and parsing happens downstream so a malformed entry only drops
// itself.
type BookingSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Narrow response payloads for each API operation (JSON:API envelopes).

type businessResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Name     string `json:"name"`
			Settings struct {
				Timezone string `json:"timezone"`
			} `json:"settings"`
		} `json:"attributes"`
	} `json:"data"`
}

type servicesResponse struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Name     string  `json:"name"`
			Duration float64 `json:"duration"`
		} `json:"attributes"`
	} `json:"data"`
}

type slotsResponse struct {
	Data []struct {
		Attributes struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"attributes"`
	} `json:"data"`
}
