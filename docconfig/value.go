package docconfig

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// IsScalar reports whether v is substituted into placeholders: text,
// integers and floating-point numbers. Booleans and null are not scalars.
func IsScalar(v any) bool {
	_, ok := FormatScalar(v)

	return ok
}

// FormatScalar returns the text form of a scalar value. The second result
// is false when v is not a scalar.
func FormatScalar(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case int:
		return strconv.Itoa(val), true
	case int8:
		return strconv.FormatInt(int64(val), 10), true
	case int16:
		return strconv.FormatInt(int64(val), 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case uint8:
		return strconv.FormatUint(uint64(val), 10), true
	case uint16:
		return strconv.FormatUint(uint64(val), 10), true
	case uint32:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case *big.Int:
		return val.String(), true
	case float32:
		return formatFloat(float64(val)), true
	case float64:
		return formatFloat(val), true
	default:
		return "", false
	}
}

// formatFloat renders f in shortest round-trip form. Integral values keep
// a ".0" suffix and exponents outside [-4, 16) switch to scientific
// notation, so 1.0 renders "1.0" and 1e16 renders "1e+16".
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)

	_, expStr, _ := strings.Cut(sci, "e")

	exp, err := strconv.Atoi(expStr)
	if err == nil && (exp < -4 || exp >= 16) {
		return sci
	}

	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(fixed, ".") {
		fixed += ".0"
	}

	return fixed
}

// Truthy reports whether v enables a conditional block. Null, false, zero,
// the empty string, an empty sequence and an empty mapping are falsy.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int8:
		return val != 0
	case int16:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	case uint:
		return val != 0
	case uint8:
		return val != 0
	case uint16:
		return val != 0
	case uint32:
		return val != 0
	case uint64:
		return val != 0
	case *big.Int:
		return val.Sign() != 0
	case float32:
		return val != 0
	case float64:
		return val != 0
	case []any:
		return len(val) > 0
	case []*Scope:
		return len(val) > 0
	case *Scope:
		return val.Len() > 0
	default:
		return true
	}
}

// Items returns the mappings of a repeatable list. The second result is
// false unless v is a sequence whose every item is a mapping; an empty
// sequence is a valid, empty list.
func Items(v any) ([]*Scope, bool) {
	switch val := v.(type) {
	case []*Scope:
		return val, true
	case []any:
		items := make([]*Scope, 0, len(val))

		for _, it := range val {
			sc, ok := it.(*Scope)
			if !ok || sc == nil {
				return nil, false
			}

			items = append(items, sc)
		}

		return items, true
	default:
		return nil, false
	}
}
