package owm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JaimeDevz/weather-app/internal/models"
	"github.com/JaimeDevz/weather-app/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org"
	DefaultTimeout = 10 * time.Second

	// Error bodies from the provider are tiny; anything larger is not worth parsing.
	maxErrorBody = 64 << 10
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Forecast fetches the 5-day/3-hour forecast for city and returns the
// provider's body untouched. Failures are always *UpstreamError.
func (c *Client) Forecast(ctx context.Context, city string) ([]byte, error) {
	ctx, span := otel.Tracer("owm").Start(ctx, "owm.Forecast")
	defer span.End()
	span.SetAttributes(attribute.String("weather.city", city))

	start := time.Now()
	body, err := c.forecast(ctx, city)
	outcome := "ok"
	var ue *UpstreamError
	if errors.As(err, &ue) {
		outcome = ue.Kind.String()
		span.SetAttributes(attribute.Int("http.status_code", ue.Status))
		span.SetStatus(codes.Error, ue.Message)
		if ue.cause != nil {
			span.RecordError(ue.cause)
		}
	}
	observability.ObserveUpstream(ctx, outcome, time.Since(start))
	return body, err
}

func (c *Client) forecast(ctx context.Context, city string) ([]byte, error) {
	u := fmt.Sprintf(
		"%s/data/2.5/forecast?q=%s&appid=%s&units=metric",
		c.baseURL, url.QueryEscape(city), url.QueryEscape(c.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, networkError(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, statusError(resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(fmt.Errorf("reading forecast body: %w", err))
	}
	return body, nil
}

// extractMessage pulls the provider's "message" field out of an error body.
// It never fails; an absent or malformed body yields "".
func extractMessage(body []byte) string {
	var eb models.ErrorBody
	if len(body) == 0 || json.Unmarshal(body, &eb) != nil {
		return ""
	}
	return strings.TrimSpace(eb.Message)
}
