package weather

import (
	"context"
	"reflect"

	"github.com/effective-security/weathermcp/pkg/openmeteo"
	"github.com/effective-security/weathermcp/tools"
	mcp "github.com/metoro-io/mcp-golang"
)

const (
	// DefaultForecastDays is used when days is not provided
	DefaultForecastDays = 3
	// MaxForecastDays is the upper bound of days, larger values are reduced to it
	MaxForecastDays = 7
)

// ForecastRequest represents the get_forecast arguments
type ForecastRequest struct {
	Latitude  float64 `json:"latitude" yaml:"latitude" toml:"latitude" jsonschema:"required,title=Latitude,description=Latitud de la ubicación." fake:"{latitude}"`
	Longitude float64 `json:"longitude" yaml:"longitude" toml:"longitude" jsonschema:"required,title=Longitude,description=Longitud de la ubicación." fake:"{longitude}"`
	Days      *int    `json:"days,omitempty" yaml:"days,omitempty" toml:"days,omitempty" jsonschema:"title=Days,description=Número de días de pronóstico (máximo 7).,default=3" validate:"omitempty,min=1" fake:"{number:1,7}"`
}

// ForecastTool returns the daily forecast at a location
type ForecastTool struct {
	baseTool
	defaultDays int
	maxDays     int
}

var _ tools.Tool[ForecastRequest, Forecast] = (*ForecastTool)(nil)
var _ tools.MCPTool[ForecastRequest] = (*ForecastTool)(nil)

func NewForecastTool(api openmeteo.API, cb tools.Callback) *ForecastTool {
	return &ForecastTool{
		baseTool: newBaseTool(
			ForecastToolName,
			"Obtiene el pronóstico del tiempo para los próximos días.",
			reflect.TypeOf(ForecastRequest{}),
			api, cb,
		),
		defaultDays: DefaultForecastDays,
		maxDays:     MaxForecastDays,
	}
}

// WithDays overrides the default and the maximum number of days,
// zero values keep the current settings
func (t *ForecastTool) WithDays(defaultDays, maxDays int) *ForecastTool {
	if maxDays > 0 {
		t.maxDays = maxDays
	}
	if defaultDays > 0 {
		t.defaultDays = defaultDays
	}
	return t
}

// NewInput implements tools.InputProvider
func (t *ForecastTool) NewInput() any {
	return &ForecastRequest{}
}

// days returns the requested number of days, bounded by the maximum
func (t *ForecastTool) days(req *ForecastRequest) int {
	days := t.defaultDays
	if req.Days != nil {
		days = *req.Days
	}
	return min(days, t.maxDays)
}

// Run returns the forecast, Available is false when upstream has no daily data
func (t *ForecastTool) Run(ctx context.Context, req *ForecastRequest) (*Forecast, error) {
	at := openmeteo.Coordinates{Latitude: req.Latitude, Longitude: req.Longitude}
	days := t.days(req)
	res, err := t.api.DailyForecast(ctx, at, days)
	if err != nil {
		return nil, err
	}
	return NewForecast(at, days, res), nil
}

func (t *ForecastTool) invoke(ctx context.Context, req *ForecastRequest) string {
	return invoke(ctx, t, t.callback, req, "Error al obtener el pronóstico: ", t.Run)
}

func (t *ForecastTool) Call(ctx context.Context, input string) (string, error) {
	req, err := decode[ForecastRequest](input)
	if err != nil {
		return "", err
	}
	return t.invoke(ctx, req), nil
}

func (t *ForecastTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *ForecastTool) RunMCP(ctx context.Context, req *ForecastRequest) (*mcp.ToolResponse, error) {
	return mcp.NewToolResponse(mcp.NewTextContent(t.invoke(ctx, req))), nil
}
