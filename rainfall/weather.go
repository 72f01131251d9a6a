package rainfall

// OpenWeather-style lookup used as the first tier of the rainfall fallback
// chain. The call is strictly best-effort: a short client timeout bounds
// the request and a circuit breaker stops hammering an unreachable service,
// so a slow weather source can never stall a recommendation.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

const defaultWeatherTimeout = 2 * time.Second

type owmDaily struct {
	Dt   int64   `json:"dt"`
	Rain float64 `json:"rain"`
}

type owmResp struct {
	Daily []owmDaily `json:"daily"`
}

// OWMClient queries the OpenWeather one-call API for recent rainfall at the
// device's coordinates.
type OWMClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewOWMClient builds a weather client. An empty key yields a client whose
// lookups always fail fast, which the estimator absorbs.
func NewOWMClient(apiKey string) *OWMClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "weather",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &OWMClient{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/3.0/onecall",
		client:  &http.Client{Timeout: defaultWeatherTimeout},
		breaker: breaker,
	}
}

// RecentRainfall returns the rainfall (mm) reported for today at the given
// coordinates.
func (c *OWMClient) RecentRainfall(ctx context.Context, lat, lon float64) (float64, error) {
	if c.apiKey == "" {
		return 0, fmt.Errorf("missing api key")
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.fetch(ctx, lat, lon)
	})
	if err != nil {
		return 0, err
	}

	return result.(float64), nil
}

func (c *OWMClient) fetch(ctx context.Context, lat, lon float64) (float64, error) {
	url := fmt.Sprintf("%s?lat=%f&lon=%f&exclude=current,minutely,hourly,alerts&units=metric&appid=%s",
		c.baseURL, lat, lon, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return 0, fmt.Errorf("weather status %d: %s", resp.StatusCode, string(body))
	}

	var out owmResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	if len(out.Daily) == 0 {
		return 0, fmt.Errorf("no daily data")
	}

	return out.Daily[0].Rain, nil
}
