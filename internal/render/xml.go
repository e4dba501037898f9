package render

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/cwbudde/go-pkl/internal/interp/runtime"
)

// XML renders root as an XML document. No library in the retrieved example
// repos wraps a generic Go value (map/slice/scalar) into arbitrary XML
// elements the way goccy/go-yaml or tidwall/sjson do for their formats -
// the examples' only XML usage was typed struct (un)marshalling, which
// doesn't fit a dynamically-shaped Pkl object - so this renders through
// encoding/xml's low-level token Encoder directly (DESIGN.md).
func XML(root *runtime.Object, rootName string) (string, error) {
	g, err := toGo(root)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	enc := xml.NewEncoder(&sb)
	enc.Indent("", "  ")
	if err := encodeXMLValue(enc, rootName, g); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func encodeXMLValue(enc *xml.Encoder, name string, v any) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	switch val := v.(type) {
	case nil:
		return enc.EncodeElement("", start)
	case bool, int64, float64:
		return enc.EncodeElement(fmt.Sprintf("%v", val), start)
	case string:
		return enc.EncodeElement(val, start)
	case []any:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		for _, elem := range val {
			if err := encodeXMLValue(enc, "item", elem); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())
	case map[string]any:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		for _, k := range sortedKeys(val) {
			if err := encodeXMLValue(enc, k, val[k]); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())
	default:
		return fmt.Errorf("unhandled Go value %T in XML renderer", v)
	}
}
