package weather

import (
	"context"
	"reflect"

	"github.com/effective-security/weathermcp/pkg/openmeteo"
	"github.com/effective-security/weathermcp/tools"
	mcp "github.com/metoro-io/mcp-golang"
)

// CoordinatesRequest represents the get_current_weather arguments
type CoordinatesRequest struct {
	Latitude  float64 `json:"latitude" yaml:"latitude" toml:"latitude" jsonschema:"required,title=Latitude,description=Latitud de la ubicación." fake:"{latitude}"`
	Longitude float64 `json:"longitude" yaml:"longitude" toml:"longitude" jsonschema:"required,title=Longitude,description=Longitud de la ubicación." fake:"{longitude}"`
}

func (r *CoordinatesRequest) coordinates() openmeteo.Coordinates {
	return openmeteo.Coordinates{Latitude: r.Latitude, Longitude: r.Longitude}
}

// CurrentWeatherTool returns the current conditions at a location
type CurrentWeatherTool struct {
	baseTool
}

var _ tools.Tool[CoordinatesRequest, Conditions] = (*CurrentWeatherTool)(nil)
var _ tools.MCPTool[CoordinatesRequest] = (*CurrentWeatherTool)(nil)

func NewCurrentWeatherTool(api openmeteo.API, cb tools.Callback) *CurrentWeatherTool {
	return &CurrentWeatherTool{
		baseTool: newBaseTool(
			CurrentWeatherToolName,
			"Obtiene las condiciones climáticas actuales para una ubicación específica.",
			reflect.TypeOf(CoordinatesRequest{}),
			api, cb,
		),
	}
}

// NewInput implements tools.InputProvider
func (t *CurrentWeatherTool) NewInput() any {
	return &CoordinatesRequest{}
}

// Run returns the current conditions, Available is false when upstream has none
func (t *CurrentWeatherTool) Run(ctx context.Context, req *CoordinatesRequest) (*Conditions, error) {
	at := req.coordinates()
	res, err := t.api.CurrentWeather(ctx, at)
	if err != nil {
		return nil, err
	}
	return NewConditions(at, res), nil
}

func (t *CurrentWeatherTool) invoke(ctx context.Context, req *CoordinatesRequest) string {
	return invoke(ctx, t, t.callback, req, "Error al obtener el clima: ", t.Run)
}

func (t *CurrentWeatherTool) Call(ctx context.Context, input string) (string, error) {
	req, err := decode[CoordinatesRequest](input)
	if err != nil {
		return "", err
	}
	return t.invoke(ctx, req), nil
}

func (t *CurrentWeatherTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *CurrentWeatherTool) RunMCP(ctx context.Context, req *CoordinatesRequest) (*mcp.ToolResponse, error) {
	return mcp.NewToolResponse(mcp.NewTextContent(t.invoke(ctx, req))), nil
}
