package render

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-pkl/internal/errors"
	"github.com/cwbudde/go-pkl/internal/interp/runtime"
)

// PList renders root as an Apple property-list XML document. No PList
// encoder was available among the retrieved examples (see DESIGN.md), so
// this hand-writes the small, fixed PList grammar directly; it is simple
// enough (eight element kinds, no attributes beyond <dict>/<array>
// nesting) that a full library would buy little over the plain
// string-building encoding/xml already covers for XML proper.
func PList(root *runtime.Object) (string, error) {
	g, err := toGo(root)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n")
	sb.WriteString(`<plist version="1.0">` + "\n")
	if err := writePList(&sb, g, 1); err != nil {
		return "", err
	}
	sb.WriteString("</plist>\n")
	return sb.String(), nil
}

func writePList(sb *strings.Builder, v any, depth int) error {
	indent := strings.Repeat("  ", depth)
	switch val := v.(type) {
	case nil:
		fmt.Fprintf(sb, "%s<string></string>\n", indent)
	case bool:
		if val {
			fmt.Fprintf(sb, "%s<true/>\n", indent)
		} else {
			fmt.Fprintf(sb, "%s<false/>\n", indent)
		}
	case int64:
		fmt.Fprintf(sb, "%s<integer>%d</integer>\n", indent, val)
	case float64:
		fmt.Fprintf(sb, "%s<real>%g</real>\n", indent, val)
	case string:
		fmt.Fprintf(sb, "%s<string>%s</string>\n", indent, escapePListText(val))
	case []any:
		fmt.Fprintf(sb, "%s<array>\n", indent)
		for _, e := range val {
			if err := writePList(sb, e, depth+1); err != nil {
				return err
			}
		}
		fmt.Fprintf(sb, "%s</array>\n", indent)
	case map[string]any:
		fmt.Fprintf(sb, "%s<dict>\n", indent)
		for _, k := range sortedKeys(val) {
			fmt.Fprintf(sb, "%s<key>%s</key>\n", strings.Repeat("  ", depth+1), escapePListText(k))
			if err := writePList(sb, val[k], depth+1); err != nil {
				return err
			}
		}
		fmt.Fprintf(sb, "%s</dict>\n", indent)
	default:
		return errors.Internal("unhandled Go value %T in PList renderer", v)
	}
	return nil
}

func escapePListText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
