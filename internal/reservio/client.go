package reservio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mkadlec/barber-whatsapp-bot/pkg/logging"
)

const defaultBaseURL = "https://api.reservio.com/v2"

// isoSeconds renders a UTC instant the way the availability filter expects it.
const isoSeconds = "2006-01-02T15:04:05Z"

// Client is a lightweight Reservio v2 REST client.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	apiKey       string
	businessID   string
	timeout      time.Duration
	slotsTimeout time.Duration
	logger       *logging.Logger
}

// NewClient creates a new Reservio client. The API key is optional; without
// it requests are sent unauthenticated (public availability endpoints).
// Timeouts are per call: timeout covers the business and services lookups,
// slotsTimeout covers the heavier availability query.
func NewClient(baseURL, apiKey, businessID string, timeout, slotsTimeout time.Duration, logger *logging.Logger) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if slotsTimeout <= 0 {
		slotsTimeout = 12 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{},
		apiKey:       apiKey,
		businessID:   businessID,
		timeout:      timeout,
		slotsTimeout: slotsTimeout,
		logger:       logger,
	}
}

// GetBusinessInfo returns the business name and timezone.
func (c *Client) GetBusinessInfo(ctx context.Context) (*BusinessInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out businessResponse
	path := fmt.Sprintf("/businesses/%s", url.PathEscape(c.businessID))
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &BusinessInfo{
		Name:     out.Data.Attributes.Name,
		Timezone: out.Data.Attributes.Settings.Timezone,
	}, nil
}

// GetServices returns the business service catalog in display order.
func (c *Client) GetServices(ctx context.Context) ([]Service, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out servicesResponse
	path := fmt.Sprintf("/businesses/%s/services", url.PathEscape(c.businessID))
	params := url.Values{}
	params.Set("page[limit]", "50")
	params.Set("page[offset]", "0")
	if err := c.get(ctx, path, params, &out); err != nil {
		return nil, err
	}
	services := make([]Service, 0, len(out.Data))
	for _, s := range out.Data {
		services = append(services, Service{
			ID:          s.ID,
			Name:        s.Attributes.Name,
			DurationSec: int(s.Attributes.Duration),
		})
	}
	return services, nil
}

// GetBookingSlots returns raw availability for the window. The result is
// unsorted and may contain duplicates across resources; callers are expected
// to reduce it before display.
func (c *Client) GetBookingSlots(ctx context.Context, startUTC, endUTC time.Time, serviceID, resourceID string) ([]BookingSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.slotsTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("filter[from]", startUTC.UTC().Format(isoSeconds))
	params.Set("filter[to]", endUTC.UTC().Format(isoSeconds))
	if strings.TrimSpace(serviceID) != "" {
		params.Set("filter[serviceId]", serviceID)
	}
	if strings.TrimSpace(resourceID) != "" {
		params.Set("filter[resourceId]", resourceID)
	}

	var out slotsResponse
	path := fmt.Sprintf("/businesses/%s/availability/booking-slots", url.PathEscape(c.businessID))
	if err := c.get(ctx, path, params, &out); err != nil {
		return nil, err
	}

	slots := make([]BookingSlot, 0, len(out.Data))
	for _, s := range out.Data {
		slots = append(slots, BookingSlot{Start: s.Attributes.Start, End: s.Attributes.End})
	}
	return slots, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if strings.TrimSpace(c.businessID) == "" {
		return fmt.Errorf("reservio: missing business id")
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("reservio: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if strings.TrimSpace(c.apiKey) != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reservio: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reservio: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return fmt.Errorf("reservio: status %d: %s", resp.StatusCode, msg)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("reservio: unmarshal response: %w", err)
	}
	return nil
}
