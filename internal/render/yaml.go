package render

import (
	"github.com/goccy/go-yaml"

	"github.com/cwbudde/go-pkl/internal/interp/runtime"
)

// YAML renders root as a YAML document via goccy/go-yaml, marshalling the
// same generic Go shape toGo produces for every other renderer.
func YAML(root *runtime.Object) (string, error) {
	g, err := toGo(root)
	if err != nil {
		return "", err
	}
	out, err := yaml.MarshalWithOptions(g, yaml.UseLiteralStyleIfMultiline(true))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
