package conversation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mkadlec/barber-whatsapp-bot/internal/reservio"
)

const noServicesMessage = "No services found. Please ask the user to describe the haircut."

// SelectedService is a resolved service choice from user text.
type SelectedService struct {
	ID          string
	Name        string
	DurationMin int
}

// DetectServiceSelection matches user text against the service catalog.
// A whole-message ordinal (1..N) wins; otherwise a case-insensitive
// substring match in either direction is attempted for text of at least two
// runes, first catalog-order hit winning. No match returns nil; that is not
// an error, downstream logic degrades gracefully.
func DetectServiceSelection(text string, services []reservio.Service) *SelectedService {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || len(services) == 0 {
		return nil
	}

	if isAllDigits(trimmed) {
		if n, err := strconv.Atoi(trimmed); err == nil && n >= 1 && n <= len(services) {
			return selectionFromService(services[n-1])
		}
		// An out-of-range ordinal still gets the substring pass; service
		// names can contain digits.
	}

	if len([]rune(trimmed)) < 2 {
		return nil
	}
	lower := strings.ToLower(trimmed)
	for _, svc := range services {
		name := strings.ToLower(svc.Name)
		if name == "" {
			continue
		}
		if strings.Contains(lower, name) || strings.Contains(name, lower) {
			return selectionFromService(svc)
		}
	}
	return nil
}

func selectionFromService(svc reservio.Service) *SelectedService {
	return &SelectedService{
		ID:          svc.ID,
		Name:        svc.Name,
		DurationMin: svc.DurationSec / 60,
	}
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// SummarizeServices renders the catalog as a numbered list. The numbering is
// 1-based catalog order and is the same ordering DetectServiceSelection
// resolves ordinals against.
func SummarizeServices(services []reservio.Service) string {
	if len(services) == 0 {
		return noServicesMessage
	}
	lines := make([]string, 0, len(services)+1)
	lines = append(lines, "Available services (reply with the number):")
	for i, svc := range services {
		name := svc.Name
		if name == "" {
			name = "Unnamed"
		}
		lines = append(lines, fmt.Sprintf("%d) %s — %d min", i+1, name, svc.DurationSec/60))
	}
	return strings.Join(lines, "\n")
}
