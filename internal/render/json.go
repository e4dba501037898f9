package render

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/go-pkl/internal/errors"
	"github.com/cwbudde/go-pkl/internal/interp/runtime"
)

// JSON renders root as formatted JSON text. Unlike the other renderers,
// this one builds the document incrementally with sjson.SetRaw rather than
// handing a Go value to encoding/json: every nested value is rendered to
// its own JSON fragment first, then spliced into the parent document at its
// path. A render error inside a nested value is returned as is; it does not
// name that value's path.
func JSON(root *runtime.Object) (string, error) {
	doc, err := jsonValue(root)
	if err != nil {
		return "", err
	}
	if !gjson.Valid(doc) {
		return "", errors.Internal("renderer produced invalid JSON")
	}
	return string(pretty.Pretty([]byte(doc))), nil
}

func jsonValue(v runtime.Value) (string, error) {
	g, err := toGo(v)
	if err != nil {
		return "", err
	}
	return jsonFromGo(g)
}

// jsonFromGo assembles a JSON document from a generic Go value entirely
// through sjson.SetRaw calls, keyed by gjson-style paths, rather than
// encoding/json.Marshal.
func jsonFromGo(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "null", nil
	case bool, int64, float64, string:
		wrapped, err := sjson.Set("", "x", val)
		if err != nil {
			return "", errors.Internal("encoding scalar: %v", err)
		}
		return gjson.Get(wrapped, "x").Raw, nil
	case []any:
		doc := "[]"
		var err error
		for i, elem := range val {
			frag, ferr := jsonFromGo(elem)
			if ferr != nil {
				return "", ferr
			}
			doc, err = sjson.SetRaw(doc, itoa(i), frag)
			if err != nil {
				return "", errors.Internal("assembling JSON array: %v", err)
			}
		}
		return doc, nil
	case map[string]any:
		// sjson paths treat "." as a path separator, so a property name
		// containing a literal dot must be escaped per its path syntax.
		doc := "{}"
		var err error
		for _, k := range sortedKeys(val) {
			frag, ferr := jsonFromGo(val[k])
			if ferr != nil {
				return "", ferr
			}
			doc, err = sjson.SetRaw(doc, strings.ReplaceAll(k, ".", `\.`), frag)
			if err != nil {
				return "", errors.Internal("assembling JSON object: %v", err)
			}
		}
		return doc, nil
	default:
		return "", errors.Internal("unhandled Go value %T in JSON renderer", v)
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	n := i
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
