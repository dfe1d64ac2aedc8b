package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mkadlec/barber-whatsapp-bot/internal/observability/metrics"
	"github.com/mkadlec/barber-whatsapp-bot/pkg/logging"
)

var tracer trace.Tracer

func init() {
	tracer = otel.Tracer("barberbot.internal.messaging")
}

// ReplyService produces a bot reply for one inbound message.
type ReplyService interface {
	Reply(ctx context.Context, userKey, body string) (string, error)
}

// Handler serves the WhatsApp webhook and health endpoints.
type Handler struct {
	bot       ReplyService
	authToken string
	metrics   *metrics.WebhookMetrics
	logger    *logging.Logger
}

// NewHandler creates a webhook handler. An empty authToken disables Twilio
// signature validation (local development).
func NewHandler(bot ReplyService, authToken string, m *metrics.WebhookMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		bot:       bot,
		authToken: authToken,
		metrics:   m,
		logger:    logger,
	}
}

// HealthCheck reports service liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// WhatsAppWebhook handles inbound Twilio WhatsApp messages and answers
// with a TwiML message. Failures inside the bot degrade to a generic
// reply rather than an error status; Twilio retries on non-2xx and the
// user would see nothing in the meantime.
func (h *Handler) WhatsAppWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "messaging.whatsapp_webhook")
	defer span.End()

	start := time.Now()

	if h.authToken != "" {
		if !ValidateTwilioSignature(r, h.authToken, buildAbsoluteURL(r)) {
			span.SetStatus(codes.Error, "invalid signature")
			h.metrics.RecordInbound("rejected")
			h.logger.Warn("rejected webhook with invalid twilio signature")
			http.Error(w, "invalid signature", http.StatusForbidden)
			return
		}
	}

	req, err := ParseWhatsAppWebhook(r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.metrics.RecordInbound("bad_request")
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if req.From == "" || strings.TrimSpace(req.Body) == "" {
		h.metrics.RecordInbound("bad_request")
		http.Error(w, "missing From or Body", http.StatusBadRequest)
		return
	}

	span.SetAttributes(
		attribute.String("twilio.message_sid", req.MessageSid),
		attribute.Int("message.length", len(req.Body)),
	)

	reply, err := h.bot.Reply(ctx, req.From, req.Body)
	if err != nil {
		span.RecordError(err)
		h.metrics.RecordReply("error")
		h.logger.Error("bot reply failed", "error", err)
		reply = "Sorry, something went wrong. Please try again in a moment."
	} else {
		h.metrics.RecordReply("ok")
	}

	h.metrics.RecordInbound("ok")
	h.metrics.ObserveLatency(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(MessageTwiML(reply)))
}
