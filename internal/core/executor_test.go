package core

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridrunner/internal/storage"
)

func TestCommandRendering(t *testing.T) {
	e := &Executor{
		RunPrefix:      "bundle exec rake test:run",
		OutputPipeline: "2>&1",
	}
	got := e.Command("chrome_login", "/tmp/x.log")
	assert.Equal(t, "bundle exec rake test:run -n chrome_login 2>&1 > /tmp/x.log", got)
}

func TestCommandRenderingWithoutPipeline(t *testing.T) {
	e := &Executor{RunPrefix: "run-suite"}
	assert.Equal(t, "run-suite -n job1 > /tmp/j.log", e.Command("job1", "/tmp/j.log"))
}

func TestStartCreatesJobLogFile(t *testing.T) {
	dir := t.TempDir()
	suite := &Suite{Name: "smoke", RunPrefix: "echo worker for"}
	e := NewExecutor(suite, storage.NewLogStorage(dir))

	h, err := e.Start("chrome_login")
	require.NoError(t, err)
	assert.Greater(t, h.Pid(), 0)
	require.NoError(t, h.Wait())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "one log file per started job")
	assert.Contains(t, entries[0].Name(), "chrome_login")
}
