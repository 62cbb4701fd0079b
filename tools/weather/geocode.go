package weather

import (
	"context"
	"reflect"

	"github.com/effective-security/weathermcp/pkg/openmeteo"
	"github.com/effective-security/weathermcp/tools"
	mcp "github.com/metoro-io/mcp-golang"
)

// GeocodeRequest represents the geocode_city arguments
type GeocodeRequest struct {
	CityName string `json:"city_name" yaml:"city_name" toml:"city_name" jsonschema:"required,title=City Name,description=El nombre de la ciudad a buscar." validate:"required" fake:"{city}"`
}

// GeocodeTool resolves a place name to the coordinates of its primary match
type GeocodeTool struct {
	baseTool
}

var _ tools.Tool[GeocodeRequest, Place] = (*GeocodeTool)(nil)
var _ tools.MCPTool[GeocodeRequest] = (*GeocodeTool)(nil)

func NewGeocodeTool(api openmeteo.API, cb tools.Callback) *GeocodeTool {
	return &GeocodeTool{
		baseTool: newBaseTool(
			GeocodeToolName,
			"Convierte el nombre de una ciudad en coordenadas de latitud y longitud.",
			reflect.TypeOf(GeocodeRequest{}),
			api, cb,
		),
	}
}

// NewInput implements tools.InputProvider
func (t *GeocodeTool) NewInput() any {
	return &GeocodeRequest{}
}

// Run returns the primary match, Found is false when there is none
func (t *GeocodeTool) Run(ctx context.Context, req *GeocodeRequest) (*Place, error) {
	res, err := t.api.Geocode(ctx, req.CityName)
	if err != nil {
		return nil, err
	}
	return NewPlace(req.CityName, res), nil
}

func (t *GeocodeTool) invoke(ctx context.Context, req *GeocodeRequest) string {
	return invoke(ctx, t, t.callback, req, "Error al buscar la ciudad: ", t.Run)
}

func (t *GeocodeTool) Call(ctx context.Context, input string) (string, error) {
	req, err := decode[GeocodeRequest](input)
	if err != nil {
		return "", err
	}
	return t.invoke(ctx, req), nil
}

func (t *GeocodeTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *GeocodeTool) RunMCP(ctx context.Context, req *GeocodeRequest) (*mcp.ToolResponse, error) {
	return mcp.NewToolResponse(mcp.NewTextContent(t.invoke(ctx, req))), nil
}
