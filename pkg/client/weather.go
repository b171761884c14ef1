package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Weather is the subset of forecast data the risk pipeline consumes.
type Weather struct {
	Temperature float64
	IsRainy     bool
}

// WeatherClient reads current conditions from an OpenWeatherMap-compatible
// endpoint. The free tier has no reliable day-level forecast, so current
// weather doubles as a proxy for the appointment date.
type WeatherClient struct {
	httpClient *HttpClient
	apiKey     string
}

func NewWeatherClient(baseURL, apiKey string, timeout time.Duration) *WeatherClient {
	return &WeatherClient{
		httpClient: NewHttpClient(baseURL, timeout),
		apiKey:     apiKey,
	}
}

type weatherResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
}

func (c *WeatherClient) Current(ctx context.Context, city string) (Weather, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	resp, err := c.httpClient.GET(ctx, "/weather?"+q.Encode())
	if err != nil {
		return Weather{}, fmt.Errorf("weather request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Weather{}, fmt.Errorf("weather request returned status %d", resp.StatusCode)
	}

	var body weatherResponse
	if err := resp.DecodeJSON(&body); err != nil {
		return Weather{}, fmt.Errorf("failed to decode weather response: %w", err)
	}

	weather := Weather{Temperature: body.Main.Temp}
	for _, w := range body.Weather {
		if strings.EqualFold(w.Main, "rain") {
			weather.IsRainy = true
			break
		}
	}
	return weather, nil
}
