// Package encoding converts tool arguments and catalogues
// between Go values and JSON, YAML or TOML documents.
package encoding

import (
	"reflect"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/cockroachdb/errors"
	jsonenc "github.com/effective-security/weathermcp/encoding/json"
	tomlenc "github.com/effective-security/weathermcp/encoding/toml"
	yamlenc "github.com/effective-security/weathermcp/encoding/yaml"
)

// Encoder marshals and unmarshals documents of a single format
type Encoder interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(bs []byte, v any) error
}

// Faker is implemented by types that provide their own example value
type Faker interface {
	Fake() any
}

// Format of a document
type Format = string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

var (
	_ Encoder = (*jsonenc.Encoder)(nil)
	_ Encoder = (*tomlenc.Encoder)(nil)
	_ Encoder = (*yamlenc.Encoder)(nil)
)

// ForFormat returns the Encoder of the format, case insensitive
func ForFormat(format Format) (Encoder, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return jsonenc.NewEncoder(), nil
	case FormatYAML, "yml":
		return yamlenc.NewEncoder(), nil
	case FormatTOML:
		return tomlenc.NewEncoder(), nil
	}
	return nil, errors.Newf("unsupported format: %s", format)
}

// Example returns a document of the sample's type filled with fake values.
// Values come from Faker if implemented, or from `fake` struct tags.
func Example(enc Encoder, sample any) ([]byte, error) {
	t := reflect.TypeOf(sample)
	if t == nil {
		return nil, errors.New("nil sample")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	tValue := reflect.New(t)
	instance := tValue.Interface()
	if f, ok := tValue.Elem().Interface().(Faker); ok {
		instance = f.Fake()
	} else if err := gofakeit.Struct(instance); err != nil {
		return nil, errors.Wrapf(err, "failed to generate %s", t.Name())
	}
	return enc.Marshal(instance)
}
