// Package weather provides the geocoding, current weather and forecast tools
// backed by the Open-Meteo APIs.
package weather

import (
	"reflect"

	"github.com/effective-security/weathermcp/callbacks"
	"github.com/effective-security/weathermcp/pkg/openmeteo"
	"github.com/effective-security/weathermcp/pkg/schema"
	"github.com/effective-security/weathermcp/tools"
)

// Tool names as advertised to the clients
const (
	GeocodeToolName        = "geocode_city"
	CurrentWeatherToolName = "get_current_weather"
	ForecastToolName       = "get_forecast"
)

// baseTool carries the common parts of the weather tools
type baseTool struct {
	name        string
	description string
	funcParams  any

	api      openmeteo.API
	callback tools.Callback
}

func newBaseTool(name, description string, args reflect.Type, api openmeteo.API, cb tools.Callback) baseTool {
	if cb == nil {
		cb = callbacks.NewNoop()
	}
	return baseTool{
		name:        name,
		description: description,
		funcParams:  schema.MustNew(args).Parameters,
		api:         api,
		callback:    cb,
	}
}

func (t *baseTool) Name() string {
	return t.name
}

func (t *baseTool) Description() string {
	return t.description
}

func (t *baseTool) Parameters() any {
	return t.funcParams
}
