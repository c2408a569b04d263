package rule

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
)

// Value is a tagged union of the types a condition value, action parameter
// or match discrepancy can hold: string, number or bool. It replaces the
// untyped values the rest of the system would otherwise pass around.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

func String(s string) Value  { return Value{kind: KindString, str: s} }
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return json.Marshal(v.str)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch t := raw.(type) {
	case string:
		*v = String(t)
	case float64:
		*v = Number(t)
	case bool:
		*v = Bool(t)
	default:
		return fmt.Errorf("unsupported value type %T", raw)
	}

	return nil
}
