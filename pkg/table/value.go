package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the type of a cell value.
type Kind int

// Value kinds, listed in their cross-kind sort order.
const (
	KindNull Kind = iota
	KindNumber
	KindTime
	KindString
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a single typed table cell. The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	tm   time.Time
	str  string
}

// Null returns the null value.
func Null() Value { return Value{} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Time returns a time value.
func Time(t time.Time) Value { return Value{kind: KindTime, tm: t} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// ValueOf converts a Go value into a Value.
// Supported inputs are nil, string, time.Time, bool, Value and all integer
// and floating-point types. Anything else is formatted with %v and stored
// as a string.
func ValueOf(x any) Value {
	switch v := x.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case string:
		return String(v)
	case time.Time:
		return Time(v)
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case int:
		return Number(float64(v))
	case int8:
		return Number(float64(v))
	case int16:
		return Number(float64(v))
	case int32:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case uint:
		return Number(float64(v))
	case uint8:
		return Number(float64(v))
	case uint16:
		return Number(float64(v))
	case uint32:
		return Number(float64(v))
	case uint64:
		return Number(float64(v))
	case bool:
		return String(strconv.FormatBool(v))
	default:
		return String(fmt.Sprintf("%v", v))
	}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric payload and whether the value is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Time returns the time payload and whether the value is a time.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.tm, true
}

// String returns the display form of the value. Numbers use the shortest
// representation, times use RFC 3339 (or 2006-01-02 for midnight UTC
// dates), strings are returned verbatim and null is the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindTime:
		t := v.tm
		if isDate(t) {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339Nano)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// Key returns a string that is equal for two values exactly when Equal
// reports true. It is suitable as a map key.
func (v Value) Key() string {
	switch v.kind {
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindTime:
		return "t:" + v.tm.UTC().Format(time.RFC3339Nano)
	case KindString:
		return "s:" + v.str
	default:
		return "null"
	}
}

// Equal reports whether two values have the same kind and payload.
// Times are compared as instants.
func (v Value) Equal(o Value) bool {
	return Compare(v, o) == 0
}

// Compare orders two values. Within a kind the ordering is numeric,
// chronological or lexical; across kinds null < number < time < string.
// NaN sorts before every other number.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindNumber:
		an, bn := math.IsNaN(a.num), math.IsNaN(b.num)
		switch {
		case an && bn:
			return 0
		case an:
			return -1
		case bn:
			return 1
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	case KindTime:
		return a.tm.Compare(b.tm)
	case KindString:
		return strings.Compare(a.str, b.str)
	default:
		return 0
	}
}

// MarshalJSON encodes numbers as JSON numbers, times as RFC 3339 strings,
// strings verbatim and null as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	case KindTime:
		return json.Marshal(v.tm.Format(time.RFC3339Nano))
	case KindString:
		return json.Marshal(v.str)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes numbers, strings and null. Strings that parse as
// a supported time layout become time values.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Null()
	case float64:
		*v = Number(x)
	case bool:
		*v = String(strconv.FormatBool(x))
	case string:
		if t, ok := ParseTime(x); ok {
			*v = Time(t)
		} else {
			*v = String(x)
		}
	default:
		return fmt.Errorf("unsupported cell value %s", string(data))
	}
	return nil
}

// timeLayouts are tried in order when inferring time values from text.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
	"2006-01",
}

// ParseTime parses s using the supported time layouts.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber parses s as a float64.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isDate(t time.Time) bool {
	if t.Location() != time.UTC {
		return false
	}
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}
