package pkl_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-pkl/pkg/pkl"
)

func TestEvaluateText_RendersJSON(t *testing.T) {
	ev := pkl.New(pkl.DefaultOptions())
	root, err := ev.EvaluateText(`name = "Ada"
age = 36
`)
	require.NoError(t, err)

	out, err := pkl.Render(root, pkl.FormatJSON)
	require.NoError(t, err)
	require.Contains(t, out, `"name": "Ada"`)
	require.Contains(t, out, `"age": 36`)
}

func TestEvaluateFile_ForcesNestedObjectBeforeRendering(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.pkl"), []byte(`server {
  host = "localhost"
  port = 8080
}
`), 0o644))

	opts := pkl.DefaultOptions()
	opts.RootDir = dir
	ev := pkl.New(opts)

	root, err := ev.EvaluateFile("main.pkl")
	require.NoError(t, err)

	out, err := pkl.Render(root, pkl.FormatJSON)
	require.NoError(t, err)
	require.Contains(t, out, `"host": "localhost"`)
	require.Contains(t, out, `"port": 8080`)
}

func TestEvaluateText_SandboxDeniesNetworkImport(t *testing.T) {
	ev := pkl.New(pkl.DefaultOptions())
	_, err := ev.EvaluateText(`import "https://example.com/remote.pkl"
x = 1
`)
	require.Error(t, err)
}

func TestRender_UnknownFormatErrors(t *testing.T) {
	ev := pkl.New(pkl.DefaultOptions())
	root, err := ev.EvaluateText(`x = 1
`)
	require.NoError(t, err)
	_, err = pkl.Render(root, pkl.Format("bogus"))
	require.Error(t, err)
}
