package tools

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/weathermcp/encoding"
	mcp "github.com/metoro-io/mcp-golang"
)

// ErrFailedUnmarshalInput is returned by Call when the input does not match the tool parameters
var ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")

// McpServerRegistrator is implemented by the MCP server
type McpServerRegistrator interface {
	RegisterTool(name string, description string, handler any) error
}

// ITool is a tool that can be invoked by an agent.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, advertised to the clients.
	Description() string
	// Parameters returns the JSON schema of the tool arguments.
	Parameters() any

	// Call executes the tool with the given JSON input and returns the result.
	// If the tool fails to parse the input, it returns ErrFailedUnmarshalInput error.
	Call(context.Context, string) (string, error)
}

// Callback receives the tool lifecycle events
type Callback interface {
	OnToolStart(ctx context.Context, tool ITool, input string)
	OnToolEnd(ctx context.Context, tool ITool, input string, output string)
	OnToolError(ctx context.Context, tool ITool, input string, err error)
}

// Tool is a typed tool
type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// IMCPTool is an interface that extends ITool to include functionality for
// registering the tool with an MCP server.
type IMCPTool interface {
	ITool
	RegisterMCP(registrator McpServerRegistrator) error
}

// MCPTool is a typed MCP tool
type MCPTool[I any] interface {
	IMCPTool
	RunMCP(context.Context, *I) (*mcp.ToolResponse, error)
}

// InputProvider returns a new instance of the tool arguments
type InputProvider interface {
	NewInput() any
}

// RegisterMCP registers the tools on the server
func RegisterMCP(registrator McpServerRegistrator, list ...IMCPTool) error {
	for _, tool := range list {
		if err := tool.RegisterMCP(registrator); err != nil {
			return errors.Wrapf(err, "failed to register tool %s", tool.Name())
		}
	}
	return nil
}

// Find returns the tool by name
func Find(name string, list ...ITool) (ITool, bool) {
	for _, tool := range list {
		if tool.Name() == name {
			return tool, true
		}
	}
	return nil, false
}

// Descriptor of a tool in the catalogue
type Descriptor struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Description string `json:"description" yaml:"description" toml:"description"`
	Parameters  any    `json:"parameters,omitempty" yaml:"parameters,omitempty" toml:"-"`
	Example     string `json:"example,omitempty" yaml:"example,omitempty" toml:"example,omitempty"`
}

// Catalogue of the tools
type Catalogue struct {
	Tools []Descriptor `json:"tools" yaml:"tools" toml:"tools"`
}

// GetCatalogue describes the tools, with the arguments example
// encoded in the requested format
func GetCatalogue(format encoding.Format, list ...ITool) (*Catalogue, error) {
	enc, err := encoding.ForFormat(format)
	if err != nil {
		return nil, err
	}

	c := &Catalogue{}
	for _, tool := range list {
		d := Descriptor{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		}
		if format != encoding.FormatJSON {
			// the schema types carry only json tags
			d.Parameters = asGeneric(d.Parameters)
		}
		if p, ok := tool.(InputProvider); ok {
			example, err := encoding.Example(enc, p.NewInput())
			if err != nil {
				return nil, errors.WithMessagef(err, "tool %s", tool.Name())
			}
			d.Example = string(example)
		}
		c.Tools = append(c.Tools, d)
	}
	return c, nil
}

// GetDescriptions returns the catalogue of the tools in the format
func GetDescriptions(format encoding.Format, list ...ITool) (string, error) {
	c, err := GetCatalogue(format, list...)
	if err != nil {
		return "", err
	}
	enc, err := encoding.ForFormat(format)
	if err != nil {
		return "", err
	}
	bs, err := enc.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode catalogue")
	}
	return string(bs), nil
}

func asGeneric(v any) any {
	js, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var res map[string]any
	if err = json.Unmarshal(js, &res); err != nil {
		return nil
	}
	return res
}

type callIDKey struct{}

// WithCallID returns a context carrying the tool call ID
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDKey{}, id)
}

// CallID returns the tool call ID from the context, or empty string
func CallID(ctx context.Context) string {
	id, _ := ctx.Value(callIDKey{}).(string)
	return id
}
