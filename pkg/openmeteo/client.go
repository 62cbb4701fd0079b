// Package openmeteo provides a typed client for the Open-Meteo
// geocoding and forecast APIs.
//
// API Docs: https://open-meteo.com/en/docs and https://open-meteo.com/en/docs/geocoding-api
package openmeteo

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/effective-security/weathermcp/pkg/httpclient"
	"github.com/effective-security/x/values"
)

//go:generate mockgen -source=client.go -destination=../../mocks/mockopenmeteo/openmeteo_mock.gen.go -package mockopenmeteo

const (
	// DefaultGeocodingURL is the geocoding search endpoint
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	// DefaultForecastURL is the forecast endpoint
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	// DefaultLanguage is the language of geocoding results
	DefaultLanguage = "es"
)

// DailyVariables are requested by DailyForecast
var DailyVariables = []string{
	"temperature_2m_max",
	"temperature_2m_min",
	"precipitation_sum",
}

// API is the subset of Open-Meteo used by the weather tools
type API interface {
	// Geocode searches for the primary match of a place name
	Geocode(ctx context.Context, name string) (*GeocodeResponse, error)
	// CurrentWeather returns the current conditions at the coordinates
	CurrentWeather(ctx context.Context, at Coordinates) (*ForecastResponse, error)
	// DailyForecast returns daily aggregates for the given number of days
	DailyForecast(ctx context.Context, at Coordinates, days int) (*ForecastResponse, error)
}

// Config for the Client, empty values are replaced by defaults
type Config struct {
	GeocodingURL string
	ForecastURL  string
	Language     string
}

// Client implements API
type Client struct {
	fetcher      httpclient.Fetcher
	geocodingURL string
	forecastURL  string
	language     string
}

var _ API = (*Client)(nil)

// New returns Client
func New(fetcher httpclient.Fetcher, cfg Config) *Client {
	return &Client{
		fetcher:      fetcher,
		geocodingURL: values.StringsCoalesce(cfg.GeocodingURL, DefaultGeocodingURL),
		forecastURL:  values.StringsCoalesce(cfg.ForecastURL, DefaultForecastURL),
		language:     values.StringsCoalesce(cfg.Language, DefaultLanguage),
	}
}

// Geocode implements API
func (c *Client) Geocode(ctx context.Context, name string) (*GeocodeResponse, error) {
	q := url.Values{}
	q.Set("name", name)
	q.Set("count", "1")
	q.Set("language", c.language)
	q.Set("format", "json")

	res := new(GeocodeResponse)
	if err := c.fetcher.FetchJSON(ctx, c.geocodingURL, q, res); err != nil {
		return nil, err
	}
	return res, nil
}

// CurrentWeather implements API
func (c *Client) CurrentWeather(ctx context.Context, at Coordinates) (*ForecastResponse, error) {
	q := coordinatesQuery(at)
	q.Set("current_weather", "true")
	q.Set("timezone", "auto")

	res := new(ForecastResponse)
	if err := c.fetcher.FetchJSON(ctx, c.forecastURL, q, res); err != nil {
		return nil, err
	}
	return res, nil
}

// DailyForecast implements API.
// The days value is sent as is, the caller applies any bounds.
func (c *Client) DailyForecast(ctx context.Context, at Coordinates, days int) (*ForecastResponse, error) {
	q := coordinatesQuery(at)
	q.Set("daily", strings.Join(DailyVariables, ","))
	q.Set("timezone", "auto")
	q.Set("forecast_days", strconv.Itoa(days))

	res := new(ForecastResponse)
	if err := c.fetcher.FetchJSON(ctx, c.forecastURL, q, res); err != nil {
		return nil, err
	}
	return res, nil
}

func coordinatesQuery(at Coordinates) url.Values {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(at.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(at.Longitude, 'f', -1, 64))
	return q
}
