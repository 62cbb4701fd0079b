package weather

import (
	"github.com/effective-security/weathermcp/pkg/openmeteo"
	"github.com/effective-security/weathermcp/tools"
)

// Config of the Toolset
type Config struct {
	// DefaultDays of the forecast when not requested
	DefaultDays int
	// MaxDays of the forecast, larger requests are reduced to it
	MaxDays int
}

// Toolset is the set of weather tools sharing one Open-Meteo client
type Toolset struct {
	Geocode        *GeocodeTool
	CurrentWeather *CurrentWeatherTool
	Forecast       *ForecastTool
}

// NewToolset returns the weather tools
func NewToolset(api openmeteo.API, cb tools.Callback, cfg Config) *Toolset {
	return &Toolset{
		Geocode:        NewGeocodeTool(api, cb),
		CurrentWeather: NewCurrentWeatherTool(api, cb),
		Forecast:       NewForecastTool(api, cb).WithDays(cfg.DefaultDays, cfg.MaxDays),
	}
}

// MCPTools returns the tools in registration order
func (s *Toolset) MCPTools() []tools.IMCPTool {
	return []tools.IMCPTool{s.Geocode, s.CurrentWeather, s.Forecast}
}

// Tools returns the tools in registration order
func (s *Toolset) Tools() []tools.ITool {
	return []tools.ITool{s.Geocode, s.CurrentWeather, s.Forecast}
}
