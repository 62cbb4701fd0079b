package openmeteo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/effective-security/weathermcp/pkg/httpclient"
	"github.com/effective-security/weathermcp/pkg/openmeteo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStub(t *testing.T, check func(r *http.Request), body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check(r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func Test_Defaults(t *testing.T) {
	var calledURL string
	fetcher := fetchFunc(func(ctx context.Context, endpoint string) {
		calledURL = endpoint
	})
	c := openmeteo.New(fetcher, openmeteo.Config{})

	_, err := c.Geocode(context.Background(), "Madrid")
	require.NoError(t, err)
	assert.Equal(t, openmeteo.DefaultGeocodingURL, calledURL)

	_, err = c.CurrentWeather(context.Background(), openmeteo.Coordinates{})
	require.NoError(t, err)
	assert.Equal(t, openmeteo.DefaultForecastURL, calledURL)
}

func Test_Geocode(t *testing.T) {
	server := newStub(t, func(r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Madrid", q.Get("name"))
		assert.Equal(t, "1", q.Get("count"))
		assert.Equal(t, "es", q.Get("language"))
		assert.Equal(t, "json", q.Get("format"))
	}, `{"results":[{"id":3117735,"name":"Madrid","latitude":40.4165,"longitude":-3.70256,"country_code":"ES","country":"España","timezone":"Europe/Madrid"}],"generationtime_ms":0.6}`)

	c := openmeteo.New(httpclient.New(httpclient.Config{}), openmeteo.Config{
		GeocodingURL: server.URL + "/v1/search",
	})

	res, err := c.Geocode(context.Background(), "Madrid")
	require.NoError(t, err)
	first := res.First()
	require.NotNil(t, first)
	require.NotNil(t, first.Name)
	assert.Equal(t, "Madrid", *first.Name)
	assert.Equal(t, "España", *first.Country)
	assert.Equal(t, 40.4165, *first.Latitude)
	assert.Equal(t, -3.70256, *first.Longitude)

	t.Run("language", func(t *testing.T) {
		server := newStub(t, func(r *http.Request) {
			assert.Equal(t, "en", r.URL.Query().Get("language"))
		}, `{}`)
		c := openmeteo.New(httpclient.New(httpclient.Config{}), openmeteo.Config{
			GeocodingURL: server.URL,
			Language:     "en",
		})
		res, err := c.Geocode(context.Background(), "Paris")
		require.NoError(t, err)
		assert.Nil(t, res.Results)
		assert.Nil(t, res.First())
	})
}

func Test_CurrentWeather(t *testing.T) {
	server := newStub(t, func(r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "40.4168", q.Get("latitude"))
		assert.Equal(t, "-3.7038", q.Get("longitude"))
		assert.Equal(t, "true", q.Get("current_weather"))
		assert.Equal(t, "auto", q.Get("timezone"))
		assert.Empty(t, q.Get("daily"))
	}, `{"latitude":40.4,"longitude":-3.7,"current_weather":{"temperature":15.2,"windspeed":10.0,"winddirection":270,"weathercode":3,"time":"2024-01-01T12:00"}}`)

	c := openmeteo.New(httpclient.New(httpclient.Config{}), openmeteo.Config{ForecastURL: server.URL})
	res, err := c.CurrentWeather(context.Background(), openmeteo.Coordinates{Latitude: 40.4168, Longitude: -3.7038})
	require.NoError(t, err)
	require.False(t, res.CurrentWeather.IsEmpty())
	assert.Equal(t, 15.2, *res.CurrentWeather.Temperature)
	assert.Equal(t, 10.0, *res.CurrentWeather.WindSpeed)
	assert.Equal(t, "2024-01-01T12:00", *res.CurrentWeather.Time)
	assert.Nil(t, res.Daily)
}

func Test_DailyForecast(t *testing.T) {
	server := newStub(t, func(r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "temperature_2m_max,temperature_2m_min,precipitation_sum", q.Get("daily"))
		assert.Equal(t, "auto", q.Get("timezone"))
		assert.Equal(t, "2", q.Get("forecast_days"))
		assert.Empty(t, q.Get("current_weather"))
	}, `{"daily":{"time":["2024-01-01","2024-01-02"],"temperature_2m_max":[12.5,null],"temperature_2m_min":[3.1,4.0],"precipitation_sum":[0.0,1.2]}}`)

	c := openmeteo.New(httpclient.New(httpclient.Config{}), openmeteo.Config{ForecastURL: server.URL})
	res, err := c.DailyForecast(context.Background(), openmeteo.Coordinates{Latitude: 1, Longitude: 2}, 2)
	require.NoError(t, err)
	require.False(t, res.Daily.IsEmpty())
	assert.Equal(t, 2, res.Daily.Len())
	assert.Nil(t, res.Daily.TemperatureMax[1])
	assert.Equal(t, 1.2, *res.Daily.PrecipitationSum[1])
}

func Test_EmptyBlocks(t *testing.T) {
	var cw *openmeteo.CurrentWeather
	assert.True(t, cw.IsEmpty())
	assert.True(t, (&openmeteo.CurrentWeather{}).IsEmpty())

	var d *openmeteo.Daily
	assert.True(t, d.IsEmpty())
	assert.Equal(t, 0, d.Len())
	assert.True(t, (&openmeteo.Daily{}).IsEmpty())

	zero := &openmeteo.Daily{Time: []string{}}
	assert.False(t, zero.IsEmpty())
	assert.Equal(t, 0, zero.Len())

	res := new(openmeteo.ForecastResponse)
	require.NoError(t, json.Unmarshal([]byte(`{"daily":{"time":[],"temperature_2m_max":[]}}`), res))
	assert.False(t, res.Daily.IsEmpty())
	res = new(openmeteo.ForecastResponse)
	require.NoError(t, json.Unmarshal([]byte(`{"daily":{}}`), res))
	assert.True(t, res.Daily.IsEmpty())

	short := &openmeteo.Daily{
		Time:             []string{"a", "b", "c"},
		TemperatureMax:   make([]*float64, 3),
		TemperatureMin:   make([]*float64, 2),
		PrecipitationSum: make([]*float64, 3),
	}
	assert.Equal(t, 2, short.Len())
}

func Test_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	c := openmeteo.New(httpclient.New(httpclient.Config{}), openmeteo.Config{ForecastURL: server.URL})
	res, err := c.DailyForecast(context.Background(), openmeteo.Coordinates{}, 0)
	require.Error(t, err)
	assert.Nil(t, res)
	code, ok := httpclient.StatusCode(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, code)
}

type fetchFunc func(ctx context.Context, endpoint string)

func (f fetchFunc) FetchJSON(ctx context.Context, endpoint string, _ url.Values, _ any) error {
	f(ctx, endpoint)
	return nil
}
