package encoding_test

import (
	"testing"

	"github.com/effective-security/weathermcp/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Location struct {
	City      string  `json:"city" yaml:"city" toml:"city" fake:"Madrid"`
	Latitude  float64 `json:"latitude" yaml:"latitude" toml:"latitude" fake:"40.5"`
	Longitude float64 `json:"longitude" yaml:"longitude" toml:"longitude" fake:"-3.5"`
	Days      *int    `json:"days,omitempty" yaml:"days,omitempty" toml:"days,omitempty" fake:"5"`
}

type fixed struct {
	Name string `json:"name" yaml:"name" toml:"name"`
}

func (fixed) Fake() any {
	return &fixed{Name: "fixed"}
}

func Test_ForFormat(t *testing.T) {
	for _, f := range append(encoding.Formats, "YAML", "yml", "") {
		enc, err := encoding.ForFormat(f)
		require.NoError(t, err, f)
		assert.NotNil(t, enc)
	}

	_, err := encoding.ForFormat("xml")
	assert.EqualError(t, err, "unsupported format: xml")
}

func Test_Example(t *testing.T) {
	tcases := []struct {
		format encoding.Format
		exp    string
	}{
		{
			format: encoding.FormatJSON,
			exp:    "{\n\t\"city\": \"Madrid\",\n\t\"latitude\": 40.5,\n\t\"longitude\": -3.5,\n\t\"days\": 5\n}",
		},
		{
			format: encoding.FormatYAML,
			exp:    "city: Madrid\nlatitude: 40.5\nlongitude: -3.5\ndays: 5\n",
		},
		{
			format: encoding.FormatTOML,
			exp:    "city = \"Madrid\"\nlatitude = 40.5\nlongitude = -3.5\ndays = 5\n",
		},
	}
	for _, tc := range tcases {
		t.Run(tc.format, func(t *testing.T) {
			enc, err := encoding.ForFormat(tc.format)
			require.NoError(t, err)

			bs, err := encoding.Example(enc, Location{})
			require.NoError(t, err)
			assert.Equal(t, tc.exp, string(bs))

			var loc Location
			require.NoError(t, enc.Unmarshal(bs, &loc))
			assert.Equal(t, "Madrid", loc.City)
			assert.Equal(t, 40.5, loc.Latitude)
			require.NotNil(t, loc.Days)
			assert.Equal(t, 5, *loc.Days)
		})
	}

	enc, _ := encoding.ForFormat(encoding.FormatJSON)
	bs, err := encoding.Example(enc, &fixed{})
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"name\": \"fixed\"\n}", string(bs))

	_, err = encoding.Example(enc, nil)
	assert.EqualError(t, err, "nil sample")
}

func Test_Unmarshal_Fenced(t *testing.T) {
	enc, _ := encoding.ForFormat(encoding.FormatJSON)
	var loc Location
	require.NoError(t, enc.Unmarshal([]byte("```json\n{\"city\":\"Lima\",\"latitude\":-12.04}\n```"), &loc))
	assert.Equal(t, "Lima", loc.City)
	assert.Equal(t, -12.04, loc.Latitude)
	assert.Nil(t, loc.Days)

	enc, _ = encoding.ForFormat(encoding.FormatYAML)
	loc = Location{}
	require.NoError(t, enc.Unmarshal([]byte("```yaml\ncity: Quito\nlongitude: -78.5\n```"), &loc))
	assert.Equal(t, "Quito", loc.City)
	assert.Equal(t, -78.5, loc.Longitude)

	enc, _ = encoding.ForFormat(encoding.FormatTOML)
	loc = Location{}
	require.NoError(t, enc.Unmarshal([]byte("city = \"Bogotá\"\ndays = 2\n"), &loc))
	assert.Equal(t, "Bogotá", loc.City)
	assert.Equal(t, 2, *loc.Days)
}
