package yaml

import (
	"bytes"

	"github.com/effective-security/weathermcp/utils"
	"gopkg.in/yaml.v3"
)

type Encoder struct {
	indent int
}

func NewEncoder() *Encoder {
	return &Encoder{indent: 2}
}

// WithIndent sets the number of spaces per nesting level
func (e *Encoder) WithIndent(indent int) *Encoder {
	e.indent = indent
	return e
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(e.indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	return yaml.Unmarshal(utils.TrimBackticks(bs), ret)
}
