package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Kind enumerates the closed set of scalar shapes a cell value can take.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one cell of a result row. It is a tagged union over the six
// kinds above; the zero Value is SQL NULL. Values are immutable once
// constructed, so rows can be cloned by copying the map.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	bytes []byte
}

func Null() Value           { return Value{kind: KindNull} }
func Bool(b bool) Value     { return Value{kind: KindBool, b: b} }
func Int(i int64) Value     { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func Text(s string) Value   { return Value{kind: KindText, s: s} }
func Bytes(p []byte) Value  { return Value{kind: KindBytes, bytes: p} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// ValueOf converts an arbitrary driver-supplied scalar into a Value.
// Unrecognized types are stringified rather than rejected, so a scan
// result can always be displayed and round-tripped.
func ValueOf(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		return Int(cast.ToInt64(t))
	case uint64:
		if t > 1<<63-1 {
			return Text(strconv.FormatUint(t, 10))
		}
		return Int(int64(t))
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case string:
		return Text(t)
	case []byte:
		p := make([]byte, len(t))
		copy(p, t)
		return Bytes(p)
	case time.Time:
		return Text(t.Format(time.RFC3339))
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i)
		}
		if f, err := t.Float64(); err == nil {
			return Float(f)
		}
		return Text(t.String())
	case [16]byte:
		// pgx hands uuid columns back as raw 16-byte arrays
		return Text(uuid.UUID(t).String())
	case driver.Valuer:
		dv, err := t.Value()
		if err != nil {
			return Text(cast.ToString(t))
		}
		return ValueOf(dv)
	case fmt.Stringer:
		return Text(t.String())
	default:
		return Text(cast.ToString(t))
	}
}

// AsBool reports the value coerced to a bool plus whether the kind was
// actually boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt reports the value coerced to an int64 plus whether the kind was
// actually integral.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsText reports the text payload plus whether the kind was actually text.
func (v Value) AsText() (string, bool) { return v.s, v.kind == KindText }

// Any unwraps the value into the native Go scalar for use as a driver
// bind argument. NULL becomes an untyped nil.
func (v Value) Any() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindBytes:
		return v.bytes
	default:
		return nil
	}
}

// NormalizedString renders the value in the canonical comparison form:
// NULL is the empty string, text is taken verbatim, and every other
// kind is stringified the way it would appear in a JSON document.
// Comparing two cells through this function is symmetric, so edits that
// merely change representation without changing content do not count
// as modifications.
func (v Value) NormalizedString() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindText:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBytes:
		return base64.StdEncoding.EncodeToString(v.bytes)
	default:
		return ""
	}
}

// String implements fmt.Stringer for logs and the table renderer.
// NULL renders distinctly from the empty string here, unlike in
// NormalizedString, because display and comparison have different jobs.
func (v Value) String() string {
	if v.kind == KindNull {
		return "NULL"
	}
	return v.NormalizedString()
}

// MarshalJSON encodes the value as the matching JSON scalar; bytes are
// base64-encoded strings, matching encoding/json's convention for []byte.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindText:
		return json.Marshal(v.s)
	case KindBytes:
		return json.Marshal(v.bytes)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON scalar into a Value. Numbers without a
// fraction or exponent become KindInt, all other numbers KindFloat;
// arrays and objects are preserved as their raw JSON text.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Null()
	case bool:
		*v = Bool(t)
	case json.Number:
		*v = ValueOf(t)
	case string:
		*v = Text(t)
	default:
		*v = Text(string(data))
	}
	return nil
}
