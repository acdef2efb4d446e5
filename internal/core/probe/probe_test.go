package probe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeTargetDefaultsToHTTPS(t *testing.T) {
	target, err := NormalizeTarget("Example.COM/path")
	require.NoError(t, err)
	require.Equal(t, "https://Example.COM/path", target.String())
	require.Equal(t, "example.com", target.Hostname)
	require.True(t, target.IsHTTPS)
}

func TestNormalizeTargetKeepsHTTP(t *testing.T) {
	target, err := NormalizeTarget("http://example.com")
	require.NoError(t, err)
	require.Equal(t, "http://example.com", target.String())
	require.False(t, target.IsHTTPS)
}

func TestNormalizeTargetTrimsWhitespace(t *testing.T) {
	target, err := NormalizeTarget("  example.com  ")
	require.NoError(t, err)
	require.Equal(t, "example.com", target.Hostname)
}

func TestNormalizeTargetRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"ftp://example.com",
		"https://",
		"http://",
	}
	for _, raw := range cases {
		_, err := NormalizeTarget(raw)
		require.Error(t, err, "input %q", raw)
	}
}

func TestTargetStringNilSafe(t *testing.T) {
	var target *Target
	require.Equal(t, "", target.String())
	require.Equal(t, "", (&Target{}).String())
}
