package docconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// ErrNotMapping is returned when a configuration document's root is not a
// mapping.
var ErrNotMapping = errors.New("document root is not a mapping")

// Load reads the configuration document at path. Files ending in .yaml or
// .yml are parsed as YAML, everything else as JSON.
func Load(path string) (*Scope, error) {
	const errCtx = "loading config"

	data, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var sc *Scope

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		sc, err = ParseYAML(data)
	default:
		sc, err = ParseJSON(data)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	return sc, nil
}

// ParseJSON parses a JSON document whose root is an object. Object key
// order is preserved.
func ParseJSON(data []byte) (*Scope, error) {
	const errCtx = "parsing json"

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	val, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf(
			"%s: unexpected trailing data %v", errCtx, tok,
		)
	}

	sc, ok := val.(*Scope)
	if !ok {
		return nil, fmt.Errorf("%s: %w", errCtx, ErrNotMapping)
	}

	return sc, nil
}

// decodeJSONValue consumes one complete value from the token stream.
func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch tk := tok.(type) {
	case json.Delim:
		switch tk {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(tk))
		}
	case json.Number:
		return normalizeNumber(tk), nil
	case float64:
		// Streams that ignore UseNumber hand out float64 for every number.
		if tk == math.Trunc(tk) && math.Abs(tk) < 1<<53 {
			return int64(tk), nil
		}

		return tk, nil
	default:
		// string, bool or nil
		return tk, nil
	}
}

func decodeJSONObject(dec *json.Decoder) (*Scope, error) {
	sc := NewScope()

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}

		val, err := decodeJSONValue(dec)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		sc.Set(key, val)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return sc, nil
}

func decodeJSONArray(dec *json.Decoder) ([]any, error) {
	list := make([]any, 0)

	for dec.More() {
		val, err := decodeJSONValue(dec)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", len(list), err)
		}

		list = append(list, val)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return list, nil
}

// normalizeNumber keeps integer literals as int64, or *big.Int past the
// int64 range, and everything else as float64.
func normalizeNumber(num json.Number) any {
	lit := num.String()

	if !strings.ContainsAny(lit, ".eE") {
		if iv, err := num.Int64(); err == nil {
			return iv
		}

		if bi, ok := new(big.Int).SetString(lit, 10); ok {
			return bi
		}
	}

	fv, err := num.Float64()
	if err != nil {
		return lit
	}

	return fv
}

// ParseYAML parses a YAML document whose root is a mapping. Mapping key
// order is preserved.
func ParseYAML(data []byte) (*Scope, error) {
	const errCtx = "parsing yaml"

	var raw any

	if err := yaml.UnmarshalWithOptions(
		data, &raw, yaml.UseOrderedMap(),
	); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	sc, ok := normalize(raw).(*Scope)
	if !ok {
		return nil, fmt.Errorf("%s: %w", errCtx, ErrNotMapping)
	}

	return sc, nil
}

// normalize converts decoded YAML values into the configuration value set:
// mappings become *Scope, sequences []any, integers int64 and floats
// float64.
func normalize(v any) any {
	switch val := v.(type) {
	case yaml.MapSlice:
		sc := NewScope()

		for _, it := range val {
			sc.Set(fmt.Sprint(it.Key), normalize(it.Value))
		}

		return sc
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		sc := NewScope()
		for _, k := range keys {
			sc.Set(k, normalize(val[k]))
		}

		return sc
	case []any:
		out := make([]any, len(val))
		for i, it := range val {
			out[i] = normalize(it)
		}

		return out
	case int:
		return int64(val)
	case uint64:
		if val <= math.MaxInt64 {
			return int64(val)
		}

		return val
	case float32:
		return float64(val)
	default:
		return val
	}
}
