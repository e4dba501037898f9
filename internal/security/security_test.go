package security_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-pkl/internal/security"
)

func TestSandbox_AllowsFileAndPklSchemes(t *testing.T) {
	m := security.New(security.LevelSandbox)
	require.NoError(t, m.CheckModuleRead("file:///tmp/foo.pkl"))
	require.NoError(t, m.CheckModuleRead("pkl:base"))
}

func TestSandbox_DeniesNetworkSchemes(t *testing.T) {
	m := security.New(security.LevelSandbox)
	err := m.CheckModuleRead("https://example.com/foo.pkl")
	require.Error(t, err)
}

func TestStandard_AllowsHTTPS(t *testing.T) {
	m := security.New(security.LevelStandard)
	require.NoError(t, m.CheckModuleRead("https://example.com/foo.pkl"))
}

func TestTrusted_AllowsEverythingNotDenied(t *testing.T) {
	m := security.New(security.LevelTrusted)
	require.NoError(t, m.CheckModuleRead("https://example.com/foo.pkl"))
	require.NoError(t, m.CheckResourceRead("s3://bucket/key"))
}

func TestDenyList_OverridesTrustedLevel(t *testing.T) {
	m := security.New(security.LevelTrusted)
	m.Denied = []string{"https://evil.example.com/*"}
	err := m.CheckModuleRead("https://evil.example.com/payload.pkl")
	require.Error(t, err)
}

func TestAllowList_OverridesSandboxScheme(t *testing.T) {
	m := security.New(security.LevelSandbox)
	m.Allowed = []string{"https://trusted.example.com/*"}
	require.NoError(t, m.CheckModuleRead("https://trusted.example.com/lib.pkl"))
}

func TestDenyList_WinsOverAllowListForSameURI(t *testing.T) {
	m := security.New(security.LevelTrusted)
	m.Allowed = []string{"https://example.com/*"}
	m.Denied = []string{"https://example.com/secret.pkl"}
	err := m.CheckModuleRead("https://example.com/secret.pkl")
	require.Error(t, err)
}

func TestRoot_ConfinesFileReadsUnderRoot(t *testing.T) {
	m := security.New(security.LevelSandbox)
	m.Root = "/workspace/project"
	require.NoError(t, m.CheckResourceRead("file:///workspace/project/config.pkl"))
	err := m.CheckResourceRead("file:///etc/passwd")
	require.Error(t, err)
}
