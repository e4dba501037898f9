// Package render converts evaluated internal/interp/runtime values into
// JSON, YAML, XML, PList, and a plain MessagePack encoding of the same
// generic tree (not Pkl's own binary format).
package render

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/cwbudde/go-pkl/internal/errors"
	"github.com/cwbudde/go-pkl/internal/interp/runtime"
)

// toGo lowers a Value into the generic Go shape (map[string]any,
// []any, string, int64, float64, bool, nil) every renderer in this package
// starts from, keeping the format-specific code in json.go/yaml.go/xml.go/
// plist.go/binary.go limited to serialization concerns.
func toGo(v runtime.Value) (any, error) {
	switch val := v.(type) {
	case runtime.Null:
		return nil, nil
	case runtime.Bool:
		return bool(val), nil
	case runtime.Int:
		if val.IsInt64() {
			return val.Int64(), nil
		}
		f, _ := new(big.Float).SetInt(val.Int).Float64()
		return f, nil
	case runtime.Float:
		return float64(val), nil
	case runtime.String:
		return string(val), nil
	case runtime.Duration:
		return fmt.Sprintf("%g.%s", val.Value, val.Unit), nil
	case runtime.DataSize:
		return fmt.Sprintf("%g.%s", val.Value, val.Unit), nil
	case runtime.Pair:
		first, err := toGo(val.First)
		if err != nil {
			return nil, err
		}
		second, err := toGo(val.Second)
		if err != nil {
			return nil, err
		}
		return []any{first, second}, nil
	case runtime.List:
		out := make([]any, len(val.Elements))
		for i, e := range val.Elements {
			g, err := toGo(e)
			if err != nil {
				return nil, err
			}
			out[i] = g
		}
		return out, nil
	case *runtime.Set:
		out := make([]any, len(val.Elements))
		for i, e := range val.Elements {
			g, err := toGo(e)
			if err != nil {
				return nil, err
			}
			out[i] = g
		}
		return out, nil
	case *runtime.Map:
		out := make(map[string]any, len(val.Entries))
		for _, entry := range val.Entries {
			g, err := toGo(entry.Value)
			if err != nil {
				return nil, err
			}
			out[entry.Key.String()] = g
		}
		return out, nil
	case *runtime.Object:
		out := make(map[string]any)
		for _, name := range val.Members() {
			m, _, _ := val.Lookup(name)
			gv, err := cellToGo(m)
			if err != nil {
				return nil, err
			}
			out[name] = gv
		}
		return out, nil
	case *runtime.Function:
		return nil, errors.Internal("cannot render a Function value")
	default:
		return nil, errors.Internal("unhandled value kind %T in renderer", v)
	}
}

// cellToGo evaluates a member's cached value for rendering. Rendering
// always runs after full module evaluation, so every member reachable from
// the root is expected to already be Computed; a non-Computed member here
// means the caller rendered before forcing evaluation.
func cellToGo(m *runtime.Member) (any, error) {
	if m.CellState() != runtime.Computed {
		return nil, errors.Internal("member %q was not evaluated before rendering", m.Name)
	}
	v, err := m.Cached()
	if err != nil {
		return nil, err
	}
	return toGo(v)
}

// sortedKeys returns m's keys in a stable order, used by renderers (XML,
// PList) whose underlying encoder has no ordered-map type of its own.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

