// Package security implements the trust-level gate spec.md §5 places in
// front of module and resource resolution: which URI schemes a module
// evaluation is allowed to reach, and the allow/deny list an embedder can
// configure on top of the scheme defaults.
package security

import (
	"strings"

	"github.com/cwbudde/go-pkl/internal/errors"
)

// Level is the trust tier a module evaluation runs under.
type Level int

const (
	// LevelSandbox permits only file:// reads beneath the evaluator's
	// declared root (when one is set), in-process (pkl:) standard library
	// modules, and the modulepath: and repl: schemes.
	LevelSandbox Level = iota
	// LevelStandard additionally permits https:// and package:// reads.
	LevelStandard
	// LevelTrusted lifts all scheme restrictions; only the explicit
	// deny-list still applies.
	LevelTrusted
)

// Manager gates module and resource reads by scheme and by an explicit
// allow/deny pattern list, evaluated deny-first then allow (a deny entry
// always wins over an allow entry for the same URI).
type Manager struct {
	Level   Level
	Allowed []string // glob-style URI prefixes, "*" wildcards only
	Denied  []string
	Root    string // filesystem root LevelSandbox reads are confined to
}

func New(level Level) *Manager {
	return &Manager{Level: level}
}

// CheckModuleRead reports whether uri may be imported under m's policy.
func (m *Manager) CheckModuleRead(uri string) error {
	return m.check(uri, "import")
}

// CheckResourceRead reports whether uri may be read via `read`/`read?`/`read*`.
func (m *Manager) CheckResourceRead(uri string) error {
	return m.check(uri, "read")
}

func (m *Manager) check(uri, verb string) error {
	for _, d := range m.Denied {
		if matchPrefix(d, uri) {
			return errors.Security("%s of %q is explicitly denied", verb, uri)
		}
	}
	for _, a := range m.Allowed {
		if matchPrefix(a, uri) {
			return nil
		}
	}

	scheme := schemeOf(uri)
	switch m.Level {
	case LevelTrusted:
		return nil
	case LevelStandard:
		switch scheme {
		case "file", "https", "package", "pkl", "modulepath", "repl":
			return m.checkRoot(uri, scheme)
		}
		return errors.Security("%s of %q denied: scheme %q is not permitted at trust level Standard", verb, uri, scheme)
	default: // LevelSandbox
		switch scheme {
		case "file", "pkl", "modulepath", "repl":
			return m.checkRoot(uri, scheme)
		}
		return errors.Security("%s of %q denied: scheme %q requires trust level Standard or Trusted", verb, uri, scheme)
	}
}

func (m *Manager) checkRoot(uri, scheme string) error {
	if scheme != "file" || m.Root == "" {
		return nil
	}
	path := strings.TrimPrefix(uri, "file://")
	if !strings.HasPrefix(path, m.Root) {
		return errors.Security("file %q is outside the permitted root %q", path, m.Root)
	}
	return nil
}

func schemeOf(uri string) string {
	if i := strings.Index(uri, "://"); i >= 0 {
		return uri[:i]
	}
	return "file"
}

// matchPrefix supports a single trailing "*" wildcard, matching the glob
// syntax spec.md's allowedModules/allowedResources options accept.
func matchPrefix(pattern, uri string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(uri, strings.TrimSuffix(pattern, "*"))
	}
	return pattern == uri
}
