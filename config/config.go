// Package config provides the configuration of the weather MCP server.
// The configuration file is optional, the defaults reproduce
// the behavior of the public Open-Meteo service.
package config

import (
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/weathermcp/mcp"
	"github.com/effective-security/weathermcp/mcp/httptransport"
	"github.com/effective-security/weathermcp/pkg/httpclient"
	"github.com/effective-security/weathermcp/pkg/openmeteo"
	"github.com/effective-security/weathermcp/tools/weather"
	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/go-playground/validator/v10"
)

// Defaults
const (
	DefaultServerName    = mcp.DefaultName
	DefaultServerVersion = mcp.DefaultVersion
	DefaultListen        = ":8080"
	DefaultEndpoint      = httptransport.DefaultEndpoint
	DefaultGinMode       = "release"
	DefaultGeocodingURL  = openmeteo.DefaultGeocodingURL
	DefaultForecastURL   = openmeteo.DefaultForecastURL
	DefaultLanguage      = openmeteo.DefaultLanguage
	DefaultTimeoutMS     = int(httpclient.DefaultTimeout / time.Millisecond)
	DefaultUserAgent     = "weathermcp"
	DefaultForecastDays  = weather.DefaultForecastDays
	DefaultMaxDays       = weather.MaxForecastDays
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// Config of the server
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server"`
	HTTP      HTTPConfig      `json:"http" yaml:"http"`
	OpenMeteo OpenMeteoConfig `json:"open_meteo" yaml:"open_meteo"`
	Forecast  ForecastConfig  `json:"forecast" yaml:"forecast"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

// ServerConfig is the identity advertised to MCP clients
type ServerConfig struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// HTTPConfig of the HTTP entry point
type HTTPConfig struct {
	// Listen is the address to listen on, for example `:8080`
	Listen string `json:"listen,omitempty" yaml:"listen,omitempty" validate:"required"`
	// Endpoint is the path of the MCP JSON-RPC endpoint
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" validate:"required,startswith=/"`
	// GinMode is debug|release|test
	GinMode string `json:"gin_mode,omitempty" yaml:"gin_mode,omitempty" validate:"oneof=debug release test"`
}

// OpenMeteoConfig of the upstream client
type OpenMeteoConfig struct {
	GeocodingURL string `json:"geocoding_url,omitempty" yaml:"geocoding_url,omitempty" validate:"required,url"`
	ForecastURL  string `json:"forecast_url,omitempty" yaml:"forecast_url,omitempty" validate:"required,url"`
	// Language of the geocoding results
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	// TimeoutMS is the timeout of a single upstream request, in milliseconds
	TimeoutMS int    `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty" validate:"min=1"`
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
}

// Timeout returns the upstream request timeout
func (c *OpenMeteoConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// ForecastConfig bounds the number of forecast days
type ForecastConfig struct {
	DefaultDays int `json:"default_days,omitempty" yaml:"default_days,omitempty" validate:"min=1,ltefield=MaxDays"`
	MaxDays     int `json:"max_days,omitempty" yaml:"max_days,omitempty" validate:"min=1"`
}

// LogConfig of the process
type LogConfig struct {
	// Level is trace|debug|info|notice|warning|error|critical
	Level string `json:"level,omitempty" yaml:"level,omitempty" validate:"oneof=trace debug info notice warning error critical"`
	// Format is text|json
	Format string `json:"format,omitempty" yaml:"format,omitempty" validate:"oneof=text json"`
}

// LogLevel returns the xlog level
func (c *LogConfig) LogLevel() xlog.LogLevel {
	switch c.Level {
	case "trace":
		return xlog.TRACE
	case "debug":
		return xlog.DEBUG
	case "notice":
		return xlog.NOTICE
	case "warning":
		return xlog.WARNING
	case "error":
		return xlog.ERROR
	case "critical":
		return xlog.CRITICAL
	}
	return xlog.INFO
}

// Default returns the configuration with all defaults applied
func Default() *Config {
	cfg := new(Config)
	cfg.SetDefaults()
	return cfg
}

// Load returns the configuration from file,
// or the defaults if the file name is empty.
// Environment variables in the file are expanded.
func Load(file string) (*Config, error) {
	cfg := new(Config)
	if file != "" {
		if err := configloader.UnmarshalAndExpand(file, cfg); err != nil {
			return nil, errors.WithMessagef(err, "failed to load config %s", file)
		}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv returns the configuration from the file named
// by the environment variable, or the defaults
func LoadFromEnv(name string) (*Config, error) {
	return Load(os.Getenv(name))
}

// SetDefaults replaces empty values with defaults
func (c *Config) SetDefaults() {
	c.Server.Name = values.StringsCoalesce(c.Server.Name, DefaultServerName)
	c.Server.Version = values.StringsCoalesce(c.Server.Version, DefaultServerVersion)

	c.HTTP.Listen = values.StringsCoalesce(c.HTTP.Listen, DefaultListen)
	c.HTTP.Endpoint = values.StringsCoalesce(c.HTTP.Endpoint, DefaultEndpoint)
	c.HTTP.GinMode = strings.ToLower(values.StringsCoalesce(c.HTTP.GinMode, DefaultGinMode))

	c.OpenMeteo.GeocodingURL = values.StringsCoalesce(c.OpenMeteo.GeocodingURL, DefaultGeocodingURL)
	c.OpenMeteo.ForecastURL = values.StringsCoalesce(c.OpenMeteo.ForecastURL, DefaultForecastURL)
	c.OpenMeteo.Language = values.StringsCoalesce(c.OpenMeteo.Language, DefaultLanguage)
	c.OpenMeteo.TimeoutMS = values.NumbersCoalesce(c.OpenMeteo.TimeoutMS, DefaultTimeoutMS)
	c.OpenMeteo.UserAgent = values.StringsCoalesce(c.OpenMeteo.UserAgent, DefaultUserAgent)

	c.Forecast.MaxDays = values.NumbersCoalesce(c.Forecast.MaxDays, DefaultMaxDays)
	c.Forecast.DefaultDays = values.NumbersCoalesce(c.Forecast.DefaultDays, min(DefaultForecastDays, c.Forecast.MaxDays))

	c.Log.Level = strings.ToLower(values.StringsCoalesce(c.Log.Level, DefaultLogLevel))
	c.Log.Format = strings.ToLower(values.StringsCoalesce(c.Log.Format, DefaultLogFormat))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate returns an error for the first invalid value
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.WithStack(err)
	}
	fe := verrs[0]
	return errors.Newf("invalid config %s: failed on %s", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag())
}
