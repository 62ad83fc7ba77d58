package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, "username: alice\naccess_key: k-123\nendpoint: https://cloud.example\n")

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "k-123", p.AccessKey)
	assert.Equal(t, "https://cloud.example", p.Endpoint)
}

func TestLoadProfileMissingFileIsSetupError(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read profile")
}

func TestLoadProfileRequiresCredentials(t *testing.T) {
	path := writeProfile(t, "username: alice\nendpoint: https://cloud.example\n")
	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_key")
}

func TestLoadProfileRequiresEndpoint(t *testing.T) {
	path := writeProfile(t, "username: alice\naccess_key: k\n")
	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint")
}
