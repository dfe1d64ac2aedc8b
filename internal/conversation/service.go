package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mkadlec/barber-whatsapp-bot/internal/availability"
	"github.com/mkadlec/barber-whatsapp-bot/internal/reservio"
	"github.com/mkadlec/barber-whatsapp-bot/pkg/logging"
)

const defaultBusinessName = "our barbershop"

// Pagination limits: the short list for casual replies, the long list when
// the user named a day or asked for more.
const (
	shortSlotLimit = 5
	longSlotLimit  = 50
)

// replyMaxTokens bounds model output; WhatsApp messages are short and a
// runaway completion is wasted spend.
const replyMaxTokens = 1024

// BookingSource is the external availability/catalog source consumed per
// message. All three fetches are fail-open at this layer's callers.
type BookingSource interface {
	GetBusinessInfo(ctx context.Context) (*reservio.BusinessInfo, error)
	GetServices(ctx context.Context) ([]reservio.Service, error)
	GetBookingSlots(ctx context.Context, startUTC, endUTC time.Time, serviceID, resourceID string) ([]reservio.BookingSlot, error)
}

// Options are the per-deployment knobs for the orchestrator.
type Options struct {
	// DefaultServiceID is used for availability lookups when the message
	// does not select a service. Empty means no lookup without a selection.
	DefaultServiceID  string
	DefaultResourceID string

	// Timezone names the shop-local zone; it also appears in model context.
	Timezone string

	OpenHourLocal  int
	CloseHourLocal int

	HistoryLimit int
}

// Service orchestrates one inbound message: intent detection, window
// resolution, availability reduction, and either the deterministic greeting
// path or a model-generated reply.
type Service struct {
	source  BookingSource
	history HistoryStore
	llm     LLMClient
	logger  *logging.Logger
	opts    Options

	location *time.Location
	now      func() time.Time
}

// NewService creates the conversation orchestrator.
func NewService(source BookingSource, history HistoryStore, llm LLMClient, opts Options, logger *logging.Logger) *Service {
	if source == nil {
		panic("conversation: booking source cannot be nil")
	}
	if history == nil {
		panic("conversation: history store cannot be nil")
	}
	if llm == nil {
		panic("conversation: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 5
	}
	return &Service{
		source:   source,
		history:  history,
		llm:      llm,
		logger:   logger,
		opts:     opts,
		location: availability.Location(opts.Timezone),
		now:      time.Now,
	}
}

// Reply processes one inbound message and returns the outbound text. External
// failures degrade the reply rather than failing it; the returned error is
// reserved for unrecoverable conditions and is currently always nil.
func (s *Service) Reply(ctx context.Context, userKey, body string) (string, error) {
	bodyNorm := strings.TrimSpace(body)

	recent, err := s.history.Recent(ctx, userKey, s.opts.HistoryLimit)
	if err != nil {
		s.logger.Warn("history read failed", "error", err, "user", userKey)
		recent = nil
	}

	businessName := defaultBusinessName
	promptTimezone := s.opts.Timezone
	if info, err := s.source.GetBusinessInfo(ctx); err != nil {
		s.logger.Warn("business info fetch failed", "error", err)
	} else if info != nil {
		if info.Name != "" {
			businessName = info.Name
		}
		if info.Timezone != "" {
			promptTimezone = info.Timezone
		}
	}

	services, err := s.source.GetServices(ctx)
	if err != nil {
		s.logger.Warn("services fetch failed", "error", err)
		services = nil
	}
	catalog := SummarizeServices(services)

	selected := DetectServiceSelection(bodyNorm, services)
	now := s.now()

	dayIntent := availability.DetectDayIntent(bodyNorm)
	window, err := availability.ResolveWindow(dayIntent, now, s.location)
	if err != nil {
		// Degrade-to-default: the matched digits were not a real calendar
		// date, so search the next 7 days with no day restriction.
		s.logger.Warn("day request unresolvable", "error", err)
		dayIntent = availability.DayIntent{Kind: availability.DayDefault}
		window, _ = availability.ResolveWindow(dayIntent, now, s.location)
	}
	notBefore := availability.NotBeforeFloor(dayIntent, window, now)

	dayRequested := dayIntent.Kind != availability.DayDefault
	moreRequested := WantsMore(bodyNorm)

	availabilityNote := s.fetchAvailability(ctx, window, notBefore, selected, dayRequested, moreRequested)

	if len(recent) == 0 || IsGreeting(bodyNorm) {
		reply := strings.Join([]string{
			fmt.Sprintf("Welcome to %s! How can I help you book a haircut today?", businessName),
			catalog,
			continuePrompt,
		}, "\n")
		s.appendHistory(ctx, userKey, body, reply, now)
		return reply, nil
	}

	system := []string{
		bookingSystemPrompt,
		fmt.Sprintf("Business: %s. Timezone: %s. Use only haircut-related booking guidance.", businessName, promptTimezone),
		fmt.Sprintf("Current UTC datetime: %s", now.UTC().Format(time.RFC3339)),
		catalog,
	}
	if selected != nil {
		system = append(system, fmt.Sprintf("Selected service id: %s name: %s", selected.ID, selected.Name))
		if availabilityNote != "" {
			system = append(system, availabilityNote)
		}
	}

	// History arrives newest-first; the model wants it oldest-first.
	messages := make([]ChatMessage, 0, 2*len(recent)+1)
	for i := len(recent) - 1; i >= 0; i-- {
		messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: recent[i].UserMessage})
		if recent[i].BotReply != "" {
			messages = append(messages, ChatMessage{Role: ChatRoleAssistant, Content: recent[i].BotReply})
		}
	}
	messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: body})

	reply := fallbackReply
	resp, err := s.llm.Complete(ctx, LLMRequest{
		System:      system,
		Messages:    messages,
		MaxTokens:   replyMaxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		s.logger.Warn("model completion failed", "error", err, "user", userKey)
	} else {
		s.logger.Debug("model completion",
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
			"stop_reason", resp.StopReason,
		)
		if strings.TrimSpace(resp.Text) != "" {
			reply = resp.Text
		}
	}

	s.appendHistory(ctx, userKey, body, reply, now)
	return reply, nil
}

// fetchAvailability looks up and reduces slots for the effective service.
// Returns an empty string when no service id is resolvable or the fetch
// fails — the conversation then simply carries no availability context.
func (s *Service) fetchAvailability(ctx context.Context, window availability.Window, notBefore time.Time, selected *SelectedService, dayRequested, moreRequested bool) string {
	serviceID := s.opts.DefaultServiceID
	minDuration := 0
	if selected != nil {
		serviceID = selected.ID
		minDuration = selected.DurationMin
	}
	if strings.TrimSpace(serviceID) == "" {
		return ""
	}

	slots, err := s.source.GetBookingSlots(ctx, window.Start, window.End, serviceID, s.opts.DefaultResourceID)
	if err != nil {
		s.logger.Warn("availability fetch failed", "error", err, "service_id", serviceID)
		return ""
	}

	limit := shortSlotLimit
	if dayRequested || moreRequested {
		limit = longSlotLimit
	}

	return availability.SummarizeSlots(slots, availability.SummarizeOptions{
		Limit:             limit,
		Location:          s.location,
		MinDurationMin:    minDuration,
		NotBefore:         notBefore,
		OpenHourLocal:     s.opts.OpenHourLocal,
		CloseHourLocal:    s.opts.CloseHourLocal,
		AnnotateLastStart: dayRequested,
	})
}

func (s *Service) appendHistory(ctx context.Context, userKey, userMessage, botReply string, at time.Time) {
	if err := s.history.Append(ctx, userKey, userMessage, botReply, at.UTC()); err != nil {
		s.logger.Warn("history append failed", "error", err, "user", userKey)
	}
}
