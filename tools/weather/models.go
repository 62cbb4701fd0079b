package weather

import (
	"fmt"
	"strings"

	"github.com/effective-security/weathermcp/pkg/openmeteo"
)

// UnknownCountry is rendered when the geocoding match has no country
const UnknownCountry = "desconocido"

// Place is the result of geocode_city
type Place struct {
	Query     string  `json:"query" yaml:"query"`
	Found     bool    `json:"found" yaml:"found"`
	Name      string  `json:"name,omitempty" yaml:"name,omitempty"`
	Country   string  `json:"country,omitempty" yaml:"country,omitempty"`
	Latitude  float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
}

// NewPlace returns the Place of the primary match.
// A match without coordinates is not usable and is reported as not found.
func NewPlace(query string, res *openmeteo.GeocodeResponse) *Place {
	p := &Place{Query: query}
	first := res.First()
	if first == nil || first.Latitude == nil || first.Longitude == nil {
		return p
	}
	p.Found = true
	p.Name = stringOr(first.Name, query)
	p.Country = stringOr(first.Country, UnknownCountry)
	p.Latitude = *first.Latitude
	p.Longitude = *first.Longitude
	return p
}

func (p *Place) IsEmpty() bool {
	return !p.Found
}

func (p *Place) String() string {
	if !p.Found {
		return "No se encontraron resultados para la ciudad: " + p.Query
	}
	return fmt.Sprintf("Ciudad: %s, País: %s\nLatitud: %s, Longitud: %s",
		p.Name, p.Country, formatFloat(p.Latitude), formatFloat(p.Longitude))
}

// Conditions is the result of get_current_weather
type Conditions struct {
	At          openmeteo.Coordinates `json:"at" yaml:"at"`
	Available   bool                  `json:"available" yaml:"available"`
	Temperature *float64              `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	WindSpeed   *float64              `json:"wind_speed,omitempty" yaml:"wind_speed,omitempty"`
	ObservedAt  string                `json:"observed_at,omitempty" yaml:"observed_at,omitempty"`
}

// NewConditions returns the Conditions from the forecast payload
func NewConditions(at openmeteo.Coordinates, res *openmeteo.ForecastResponse) *Conditions {
	c := &Conditions{At: at}
	if res == nil || res.CurrentWeather.IsEmpty() {
		return c
	}
	cw := res.CurrentWeather
	c.Available = true
	c.Temperature = cw.Temperature
	c.WindSpeed = cw.WindSpeed
	c.ObservedAt = stringOr(cw.Time, missingValue)
	return c
}

func (c *Conditions) IsEmpty() bool {
	return !c.Available
}

func (c *Conditions) String() string {
	if !c.Available {
		return "No se pudieron obtener los datos climáticos actuales."
	}
	return fmt.Sprintf("Clima actual en (%s, %s):\n- Temperatura: %s°C\n- Velocidad del viento: %s km/h\n- Hora de observación: %s",
		formatFloat(c.At.Latitude), formatFloat(c.At.Longitude),
		formatOptional(c.Temperature),
		formatOptional(c.WindSpeed),
		c.ObservedAt,
	)
}

// ForecastDay is a single day of the Forecast
type ForecastDay struct {
	Date          string   `json:"date" yaml:"date"`
	TempMax       *float64 `json:"temp_max,omitempty" yaml:"temp_max,omitempty"`
	TempMin       *float64 `json:"temp_min,omitempty" yaml:"temp_min,omitempty"`
	Precipitation *float64 `json:"precipitation,omitempty" yaml:"precipitation,omitempty"`
}

func (d *ForecastDay) String() string {
	return fmt.Sprintf("- %s: Máx %s°C, Mín %s°C, Precipitación: %smm",
		stringOr(&d.Date, missingValue),
		formatOptional(d.TempMax),
		formatOptional(d.TempMin),
		formatOptional(d.Precipitation),
	)
}

// Forecast is the result of get_forecast, days are in the upstream order
type Forecast struct {
	At        openmeteo.Coordinates `json:"at" yaml:"at"`
	Days      int                   `json:"days" yaml:"days"`
	Available bool                  `json:"available" yaml:"available"`
	Items     []*ForecastDay        `json:"items,omitempty" yaml:"items,omitempty"`
}

// NewForecast returns the Forecast from the forecast payload.
// Days are truncated to the shortest of the daily arrays.
func NewForecast(at openmeteo.Coordinates, days int, res *openmeteo.ForecastResponse) *Forecast {
	f := &Forecast{At: at, Days: days}
	if res == nil || res.Daily.IsEmpty() {
		return f
	}
	daily := res.Daily
	f.Available = true
	count := daily.Len()
	f.Items = make([]*ForecastDay, 0, count)
	for i := 0; i < count; i++ {
		f.Items = append(f.Items, &ForecastDay{
			Date:          daily.Time[i],
			TempMax:       daily.TemperatureMax[i],
			TempMin:       daily.TemperatureMin[i],
			Precipitation: daily.PrecipitationSum[i],
		})
	}
	return f
}

func (f *Forecast) IsEmpty() bool {
	return !f.Available
}

func (f *Forecast) String() string {
	if !f.Available {
		return "No se pudo obtener el pronóstico."
	}
	lines := make([]string, 0, len(f.Items)+1)
	lines = append(lines, fmt.Sprintf("Pronóstico para (%s, %s) por %d días:",
		formatFloat(f.At.Latitude), formatFloat(f.At.Longitude), f.Days))
	for _, d := range f.Items {
		lines = append(lines, d.String())
	}
	return strings.Join(lines, "\n")
}
