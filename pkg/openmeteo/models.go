package openmeteo

// Coordinates of a point, in decimal degrees.
// The range is not validated, the upstream API is authoritative.
type Coordinates struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// GeocodeResponse is the payload of the geocoding search endpoint.
// Results is nil when upstream omits the key.
type GeocodeResponse struct {
	Results []*GeocodeResult `json:"results"`
}

// GeocodeResult is a single match of the geocoding search.
// All fields are optional in the upstream payload.
type GeocodeResult struct {
	ID          *int64   `json:"id,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Country     *string  `json:"country,omitempty"`
	CountryCode *string  `json:"country_code,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Timezone    *string  `json:"timezone,omitempty"`
}

// First returns the primary match, or nil
func (r *GeocodeResponse) First() *GeocodeResult {
	if r == nil || len(r.Results) == 0 {
		return nil
	}
	return r.Results[0]
}

// ForecastResponse is the payload of the forecast endpoint.
// CurrentWeather and Daily are nil when not requested or not returned.
type ForecastResponse struct {
	Latitude       float64         `json:"latitude"`
	Longitude      float64         `json:"longitude"`
	Timezone       string          `json:"timezone,omitempty"`
	CurrentWeather *CurrentWeather `json:"current_weather,omitempty"`
	Daily          *Daily          `json:"daily,omitempty"`
}

// CurrentWeather is the `current_weather` block
type CurrentWeather struct {
	Temperature   *float64 `json:"temperature,omitempty"`
	WindSpeed     *float64 `json:"windspeed,omitempty"`
	WindDirection *float64 `json:"winddirection,omitempty"`
	WeatherCode   *int     `json:"weathercode,omitempty"`
	Time          *string  `json:"time,omitempty"`
}

// IsEmpty returns true if the block carries no values
func (c *CurrentWeather) IsEmpty() bool {
	return c == nil ||
		(c.Temperature == nil && c.WindSpeed == nil && c.WindDirection == nil && c.WeatherCode == nil && c.Time == nil)
}

// Daily is the `daily` block, one entry per day in each array.
// Individual values may be null upstream.
type Daily struct {
	Time             []string   `json:"time"`
	TemperatureMax   []*float64 `json:"temperature_2m_max"`
	TemperatureMin   []*float64 `json:"temperature_2m_min"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
}

// IsEmpty returns true if the block is missing or has none of the variables.
// Variables present with no values make a valid block of zero days.
func (d *Daily) IsEmpty() bool {
	return d == nil ||
		(d.Time == nil && d.TemperatureMax == nil && d.TemperatureMin == nil && d.PrecipitationSum == nil)
}

// Len returns the number of complete days: the shortest of the arrays
func (d *Daily) Len() int {
	if d == nil {
		return 0
	}
	return min(len(d.Time), len(d.TemperatureMax), len(d.TemperatureMin), len(d.PrecipitationSum))
}
