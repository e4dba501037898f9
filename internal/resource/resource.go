// Package resource implements the `read`/`read?`/`read*` family: resolving
// a resource URI (optionally glob-patterned) against the filesystem or an
// external reader, subject to internal/security's trust gate.
package resource

import (
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/cwbudde/go-pkl/internal/errors"
	"github.com/cwbudde/go-pkl/internal/security"
)

// Match is one resolved element of a `read*` glob, in the lexicographic URI
// order spec.md §8 requires.
type Match struct {
	URI     string
	Content string
}

// ExternalReader is the subset of internal/reader.Bridge the resource
// manager calls into for non-file:// schemes registered by an external
// reader process (spec.md §6's External Reader Bridge).
type ExternalReader interface {
	Scheme() string
	Read(uri string) (string, error)
	ListElements(uri string) ([]string, error)
}

// Manager resolves resource reads, dispatching file:// URIs directly and
// any other scheme to a registered ExternalReader.
type Manager struct {
	Security  *security.Manager
	Externals map[string]ExternalReader
}

func New(sec *security.Manager) *Manager {
	return &Manager{Security: sec, Externals: make(map[string]ExternalReader)}
}

func (m *Manager) Register(r ExternalReader) { m.Externals[r.Scheme()] = r }

// Read returns the contents addressed by uri.
func (m *Manager) Read(uri string) (string, error) {
	if m.Security != nil {
		if err := m.Security.CheckResourceRead(uri); err != nil {
			return "", err
		}
	}
	scheme := schemeOf(uri)
	if scheme == "file" {
		data, err := os.ReadFile(strings.TrimPrefix(uri, "file://"))
		if err != nil {
			return "", errors.IO("reading %s: %v", uri, err)
		}
		return string(data), nil
	}
	ext, ok := m.Externals[scheme]
	if !ok {
		return "", errors.IO("no reader registered for scheme %q", scheme)
	}
	return ext.Read(uri)
}

// ReadGlob expands a `read*` pattern (file:// only - external readers
// enumerate their own namespaces via ListElements, which spec.md leaves as
// a scheme-specific concern) into matches ordered lexicographically by URI
// (spec.md §8), via x/text/collate rather than raw byte comparison.
func (m *Manager) ReadGlob(pattern string) ([]Match, error) {
	if m.Security != nil {
		if err := m.Security.CheckResourceRead(pattern); err != nil {
			return nil, err
		}
	}
	col := collate.New(language.Und)
	scheme := schemeOf(pattern)
	if scheme != "file" {
		ext, ok := m.Externals[scheme]
		if !ok {
			return nil, errors.IO("no reader registered for scheme %q", scheme)
		}
		elements, err := ext.ListElements(pattern)
		if err != nil {
			return nil, err
		}
		col.Strings(elements)
		out := make([]Match, 0, len(elements))
		for _, uri := range elements {
			content, err := ext.Read(uri)
			if err != nil {
				return nil, err
			}
			out = append(out, Match{URI: uri, Content: content})
		}
		return out, nil
	}

	rawPath := strings.TrimPrefix(pattern, "file://")
	matches, err := doublestar.FilepathGlob(rawPath)
	if err != nil {
		return nil, errors.IO("invalid resource glob %q: %v", pattern, err)
	}
	col.Strings(matches)
	out := make([]Match, 0, len(matches))
	for _, p := range matches {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.IO("reading %s: %v", p, err)
		}
		out = append(out, Match{URI: "file://" + p, Content: string(data)})
	}
	return out, nil
}

func schemeOf(uri string) string {
	if i := strings.Index(uri, "://"); i >= 0 {
		return uri[:i]
	}
	return "file"
}
