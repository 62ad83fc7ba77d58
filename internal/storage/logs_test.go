package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLogPathCreatesBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "logs")
	ls := NewLogStorage(base)

	path, err := ls.JobLogPath("smoke", "chrome_login")
	require.NoError(t, err)

	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	name := filepath.Base(path)
	assert.True(t, strings.HasPrefix(name, "smoke_chrome_login_"), "got %s", name)
	assert.True(t, strings.HasSuffix(name, ".log"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "abc", sanitize("a b/c"))
	assert.Equal(t, "chrome_login-2", sanitize("chrome_login-2"))
	assert.Equal(t, "job", sanitize("///"))
}
