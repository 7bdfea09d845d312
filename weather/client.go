// Package weather samples wind and ocean-current conditions from the
// Open-Meteo forecast and marine APIs.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/patil-piyush/OceanGuard/models"
)

const (
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	defaultMarineURL   = "https://marine-api.open-meteo.com/v1/marine"
)

type Client struct {
	forecastURL string
	marineURL   string
	http        *http.Client
}

func NewClient(forecastURL, marineURL string) *Client {
	if forecastURL == "" {
		forecastURL = defaultForecastURL
	}
	if marineURL == "" {
		marineURL = defaultMarineURL
	}
	return &Client{
		forecastURL: forecastURL,
		marineURL:   marineURL,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

type hourlyPayload struct {
	Hourly struct {
		Time             []string  `json:"time"`
		WindSpeed        []float64 `json:"windspeed_10m"`
		WindDirection    []float64 `json:"winddirection_10m"`
		CurrentSpeed     []float64 `json:"current_speed"`
		CurrentDirection []float64 `json:"current_direction"`
	} `json:"hourly"`
}

// Sample fetches wind and current data for a point. Each source fails
// independently: an unreachable API leaves its fields nil and the snapshot is
// still usable, so report creation never aborts on weather trouble.
func (c *Client) Sample(ctx context.Context, lat, lng float64) models.WeatherSnapshot {
	snap := models.WeatherSnapshot{Timestamp: time.Now().UTC()}

	if wind, err := c.fetch(ctx, c.forecastURL, lat, lng, "winddirection_10m,windspeed_10m"); err != nil {
		log.Printf("weather: wind fetch failed: %v", err)
	} else if len(wind.Hourly.WindSpeed) > 0 && len(wind.Hourly.WindDirection) > 0 {
		snap.WindSpeed = &wind.Hourly.WindSpeed[0]
		snap.WindDirection = &wind.Hourly.WindDirection[0]
		if len(wind.Hourly.Time) > 0 {
			if t, err := time.Parse("2006-01-02T15:04", wind.Hourly.Time[0]); err == nil {
				snap.Timestamp = t.UTC()
			}
		}
	}

	if curr, err := c.fetch(ctx, c.marineURL, lat, lng, "current_speed,current_direction"); err != nil {
		log.Printf("weather: current fetch failed: %v", err)
	} else if len(curr.Hourly.CurrentSpeed) > 0 && len(curr.Hourly.CurrentDirection) > 0 {
		snap.CurrentSpeed = &curr.Hourly.CurrentSpeed[0]
		snap.CurrentDirection = &curr.Hourly.CurrentDirection[0]
	}

	return snap
}

func (c *Client) fetch(ctx context.Context, base string, lat, lng float64, hourly string) (*hourlyPayload, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%f", lat))
	q.Set("longitude", fmt.Sprintf("%f", lng))
	q.Set("hourly", hourly)
	q.Set("timezone", "UTC")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload hourlyPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &payload, nil
}
