package presenter

import (
	"bytes"
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

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Gateway fetches a city's forecast from the weather gateway.
type Gateway interface {
	GetForecast(ctx context.Context, city string) (*models.ForecastResponse, error)
}

// RequestError is a failed gateway call. Status is 0 when no response arrived.
type RequestError struct {
	Status  int
	Message string
	cause   error
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *RequestError) Unwrap() error { return e.cause }

// forecastSchema is the part of the provider document the views rely on.
const forecastSchema = `{
  "type": "object",
  "required": ["city"],
  "properties": {
    "city": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "country": {"type": "string"},
        "sunrise": {"type": "integer"},
        "sunset": {"type": "integer"}
      }
    },
    "list": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["dt", "main"],
        "properties": {
          "dt": {"type": "integer"},
          "main": {"type": "object"},
          "weather": {"type": "array"},
          "wind": {"type": "object"}
        }
      }
    }
  }
}`

type GatewayClient struct {
	baseURL    string
	httpClient *http.Client
	schema     *jsonschema.Schema
}

func NewGatewayClient(baseURL string, timeout time.Duration) (*GatewayClient, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("forecast.json", strings.NewReader(forecastSchema)); err != nil {
		return nil, fmt.Errorf("load forecast schema: %w", err)
	}
	schema, err := compiler.Compile("forecast.json")
	if err != nil {
		return nil, fmt.Errorf("compile forecast schema: %w", err)
	}
	return &GatewayClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		schema:     schema,
	}, nil
}

func (c *GatewayClient) GetForecast(ctx context.Context, city string) (*models.ForecastResponse, error) {
	u := c.baseURL + "/api/weather/" + url.PathEscape(city)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &RequestError{Message: "invalid request", cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, &RequestError{Message: "request canceled", cause: err}
		}
		return nil, &RequestError{Message: "weather service unreachable", cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Status: resp.StatusCode, Message: "weather service unreachable", cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb models.ErrorBody
		msg := ""
		if json.Unmarshal(body, &eb) == nil {
			msg = strings.TrimSpace(eb.Message)
		}
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return nil, &RequestError{Status: resp.StatusCode, Message: msg}
	}

	return c.decode(resp.StatusCode, body)
}

func (c *GatewayClient) decode(status int, body []byte) (*models.ForecastResponse, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &RequestError{Status: status, Message: "malformed forecast payload", cause: err}
	}
	if err := c.schema.Validate(doc); err != nil {
		return nil, &RequestError{Status: status, Message: "malformed forecast payload", cause: err}
	}

	var out models.ForecastResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &RequestError{Status: status, Message: "malformed forecast payload", cause: err}
	}
	return &out, nil
}
