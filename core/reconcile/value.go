package reconcile

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"sheet-sync/core/utils"
)

// Kind is the primitive kind of a cell value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Value is a cell value restricted to the kinds the remote table accepts.
// The zero Value is null.
type Value struct {
	kind  Kind
	str   string
	num   float64
	i     int64
	exact bool
	b     bool
}

// maxExactFloat is the largest magnitude below which every integer is exact in a float64.
const maxExactFloat = 1 << 53

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value. NaN and infinities become null.
// Integral values within the exact float range are stored as integers, so Number(5) == Int(5).
func Number(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Value{}
	}
	if n == math.Trunc(n) && math.Abs(n) <= maxExactFloat {
		return Int(int64(n))
	}
	return Value{kind: KindNumber, num: n}
}

// Int returns an integer value. The integer is kept exactly, including beyond 2^53.
func Int(n int64) Value {
	return Value{kind: KindNumber, num: float64(n), i: n, exact: true}
}

func uintValue(n uint64) Value {
	if n > math.MaxInt64 {
		return Number(float64(n))
	}
	return Int(int64(n))
}

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// ValueOf converts a value produced by a database driver or a JSON decoder.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case []byte:
		return String(string(t))
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case int32:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case uint:
		return uintValue(uint64(t))
	case uint64:
		return uintValue(t)
	case uint32:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint8:
		return Int(int64(t))
	case float32, float64:
		return Number(utils.ToFloat(t))
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return Int(n)
		}
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		return Number(f)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return String(t.Format(time.DateOnly))
		}
		return String(t.Format("2006-01-02T15:04:05"))
	default:
		return String(utils.ToString(t))
	}
}

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Interface returns the value as a plain Go value (nil, string, int64, float64 or bool).
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.exact {
			return v.i
		}
		return v.num
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// Key returns the canonical matching key of the value.
// Numbers compare numerically, so 5 and 5.0 share a key. Null has no key.
func (v Value) Key() (string, bool) {
	switch v.kind {
	case KindString:
		return "s:" + v.str, true
	case KindNumber:
		if v.exact {
			return "n:" + strconv.FormatInt(v.i, 10), true
		}
		return "n:" + strconv.FormatFloat(v.num, 'f', -1, 64), true
	case KindBool:
		return "b:" + strconv.FormatBool(v.b), true
	default:
		return "", false
	}
}

// Equal reports whether two values share the same matching key.
func (v Value) Equal(o Value) bool {
	a, okA := v.Key()
	b, okB := o.Key()
	return okA && okB && a == b
}

// GoString renders the value for test failure output.
func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindNumber:
		if v.exact {
			return strconv.FormatInt(v.i, 10)
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "null"
	}
}

// MarshalJSON encodes the value as its plain JSON primitive.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes a JSON primitive. Objects and arrays are kept as their JSON text.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch raw.(type) {
	case map[string]any, []any:
		*v = String(string(data))
	default:
		*v = ValueOf(raw)
	}
	return nil
}
