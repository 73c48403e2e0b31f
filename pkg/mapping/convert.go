package mapping

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leapquery/pkg/core"
)

// ErrNull is returned when NULL is read into a value that cannot hold it.
var ErrNull = errors.New("NULL value")

// timeLayouts are the textual date forms drivers hand back, most specific
// first. SQLite stores dates as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Convert coerces a driver value into V. Supported targets are string,
// int, int64, float64, bool, time.Time and any. NULL yields ErrNull.
func Convert[V any](v any) (V, error) {
	var zero V
	if v == nil {
		return zero, ErrNull
	}
	if x, ok := v.(V); ok {
		return x, nil
	}

	var (
		out any
		err error
	)
	switch any(zero).(type) {
	case string:
		out, err = toString(v)
	case int:
		var n int64
		n, err = toInt64(v)
		out = int(n)
	case int64:
		out, err = toInt64(v)
	case float64:
		out, err = toFloat64(v)
	case bool:
		out, err = toBool(v)
	case time.Time:
		out, err = toTime(v)
	default:
		return zero, fmt.Errorf("cannot convert %T to %T", v, zero)
	}
	if err != nil {
		return zero, err
	}
	return out.(V), nil
}

// Coerce normalizes a driver value to the canonical Go type of an
// attribute type: string, int64, float64, time.Time or bool. NULL stays nil.
func Coerce(t core.AttrType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case core.TypeString:
		return toString(v)
	case core.TypeInteger:
		return toInt64(v)
	case core.TypeFloat:
		return toFloat64(v)
	case core.TypeDate:
		return toTime(v)
	case core.TypeBoolean:
		return toBool(v)
	default:
		return v, nil
	}
}

func toString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case int64, int, float64, bool:
		return fmt.Sprint(x), nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	}
	return "", fmt.Errorf("cannot convert %T to string", v)
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", x)
		}
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("value %v is not integral", x)
		}
		return int64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return parseInt(string(x))
	case string:
		return parseInt(x)
	}
	return 0, fmt.Errorf("cannot convert %T to integer", v)
}

func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to integer", s)
	}
	return n, nil
}

func toFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case []byte:
		return parseFloat(string(x))
	case string:
		return parseFloat(x)
	}
	return 0, fmt.Errorf("cannot convert %T to float", v)
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to float", s)
	}
	return f, nil
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case int64:
		return x != 0, nil
	case int:
		return x != 0, nil
	case []byte:
		return parseBool(string(x))
	case string:
		return parseBool(x)
	}
	return false, fmt.Errorf("cannot convert %T to boolean", v)
}

func parseBool(s string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("cannot convert %q to boolean", s)
	}
	return b, nil
}

func toTime(v any) (time.Time, error) {
	var s string
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case []byte:
		s = string(x)
	case string:
		s = x
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to date", v)
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot convert %q to date", s)
}
