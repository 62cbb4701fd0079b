package json

import (
	"encoding/json"

	"github.com/bububa/ljson"
	"github.com/effective-security/weathermcp/utils"
)

// Encoder of indented JSON, the decoder is lenient to loosely typed input
type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "\t")
}

// Unmarshal accepts fenced or prefixed JSON,
// and numbers or booleans sent as strings
func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	return ljson.Unmarshal(utils.CleanJSON(bs), ret)
}
