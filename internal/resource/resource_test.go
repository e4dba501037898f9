package resource_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-pkl/internal/resource"
	"github.com/cwbudde/go-pkl/internal/security"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("content of "+n), 0o644))
	}
}

func TestRead_FileScheme(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt")

	m := resource.New(security.New(security.LevelSandbox))
	content, err := m.Read("file://" + filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "content of a.txt", content)
}

func TestRead_DeniedBySecurityManager(t *testing.T) {
	sec := security.New(security.LevelSandbox)
	sec.Denied = []string{"file:///secret*"}
	m := resource.New(sec)
	_, err := m.Read("file:///secret/data.txt")
	require.Error(t, err)
}

func TestReadGlob_OrdersMatchesLexicographically(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "charlie.txt", "alpha.txt", "bravo.txt")

	m := resource.New(security.New(security.LevelSandbox))
	matches, err := m.ReadGlob("file://" + filepath.Join(dir, "*.txt"))
	require.NoError(t, err)
	require.Len(t, matches, 3)
	require.Contains(t, matches[0].URI, "alpha.txt")
	require.Contains(t, matches[1].URI, "bravo.txt")
	require.Contains(t, matches[2].URI, "charlie.txt")
}

func TestReadGlob_UnregisteredSchemeErrors(t *testing.T) {
	m := resource.New(security.New(security.LevelTrusted))
	_, err := m.ReadGlob("custom://thing/*")
	require.Error(t, err)
}

type fakeExternalReader struct {
	scheme   string
	elements []string
	contents map[string]string
}

func (f *fakeExternalReader) Scheme() string { return f.scheme }
func (f *fakeExternalReader) Read(uri string) (string, error) {
	return f.contents[uri], nil
}
func (f *fakeExternalReader) ListElements(uri string) ([]string, error) {
	return f.elements, nil
}

func TestReadGlob_ExternalReaderIsSortedToo(t *testing.T) {
	ext := &fakeExternalReader{
		scheme:   "custom",
		elements: []string{"custom://z", "custom://a", "custom://m"},
		contents: map[string]string{"custom://z": "Z", "custom://a": "A", "custom://m": "M"},
	}
	m := resource.New(security.New(security.LevelTrusted))
	m.Register(ext)

	matches, err := m.ReadGlob("custom://*")
	require.NoError(t, err)
	require.Equal(t, []resource.Match{
		{URI: "custom://a", Content: "A"},
		{URI: "custom://m", Content: "M"},
		{URI: "custom://z", Content: "Z"},
	}, matches)
}
