package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStarter records starts in order and hands back instantly-exiting
// handles.
type fakeStarter struct {
	started []string
}

func (f *fakeStarter) Start(job string) (StartedJob, error) {
	f.started = append(f.started, job)
	return fakeProc{pid: 1000 + len(f.started)}, nil
}

type fakeProc struct{ pid int }

func (p fakeProc) Pid() int    { return p.pid }
func (p fakeProc) Wait() error { return nil }

// scriptedCensus replays a fixed sequence of census counts, repeating the
// last one. Counts are what PSCensus would return; the launcher itself
// subtracts one more for its own process.
type scriptedCensus struct {
	counts []int
	calls  int
}

func (c *scriptedCensus) Count() (int, error) {
	i := c.calls
	if i >= len(c.counts) {
		i = len(c.counts) - 1
	}
	c.calls++
	return c.counts[i], nil
}

func fastLauncher(cap int, jobs []string, starter JobStarter, census ProcessCensus) *Launcher {
	l := NewLauncher(cap, jobs, starter, census)
	l.AdmissionInterval = time.Millisecond
	l.BurstGrace = time.Millisecond
	return l
}

func TestRunSmallBatchFiresEverything(t *testing.T) {
	starter := &fakeStarter{}
	census := &scriptedCensus{counts: []int{99}}
	l := fastLauncher(5, []string{"a", "b", "c"}, starter, census)

	require.NoError(t, l.Run(context.Background()))

	assert.Equal(t, []string{"a", "b", "c"}, starter.started)
	assert.Zero(t, census.calls, "small batches bypass admission control")
	for _, job := range l.Snapshot() {
		assert.Equal(t, StateStarted, job.State, "job %s", job.Name)
	}
}

func TestRunBurstThenAdmission(t *testing.T) {
	// jobs=[a b c], cap=2: burst starts a and b. First census sample shows
	// 2 workers besides the launcher (no headroom), second shows 1, which
	// admits c.
	starter := &fakeStarter{}
	census := &scriptedCensus{counts: []int{3, 3, 2}}
	l := fastLauncher(2, []string{"a", "b", "c"}, starter, census)

	require.NoError(t, l.Run(context.Background()))

	assert.Equal(t, []string{"a", "b", "c"}, starter.started)
	assert.Equal(t, 3, census.calls, "two blocked samples before headroom")
}

func TestKeepRunningNeverOverAdmits(t *testing.T) {
	// cap=3, 5 queued behind the burst. Samples: 1 (0 running -> 3 slots),
	// then 4 (3 running -> blocked), then 2 (1 running -> 2 slots).
	starter := &fakeStarter{}
	census := &scriptedCensus{counts: []int{1, 4, 2}}
	l := fastLauncher(3, nil, starter, census)

	require.NoError(t, l.keepRunning(context.Background(), []string{"j1", "j2", "j3", "j4", "j5"}))

	assert.Equal(t, []string{"j1", "j2", "j3", "j4", "j5"}, starter.started)
	assert.Equal(t, 3, census.calls)
}

func TestRunStartsEveryQueuedJob(t *testing.T) {
	// Queue length not divisible by the cap: nothing may be dropped.
	jobs := []string{"j1", "j2", "j3", "j4", "j5", "j6", "j7"}
	starter := &fakeStarter{}
	census := &scriptedCensus{counts: []int{1}}
	l := fastLauncher(3, jobs, starter, census)

	require.NoError(t, l.Run(context.Background()))

	assert.Equal(t, jobs, starter.started)
}

func TestRunLargeQueueBurstOrder(t *testing.T) {
	jobs := []string{"e", "d", "c", "b", "a"}
	starter := &fakeStarter{}
	census := &scriptedCensus{counts: []int{1}}
	l := fastLauncher(2, jobs, starter, census)

	require.NoError(t, l.Run(context.Background()))

	// Burst is the first cap entries in original queue order.
	assert.Equal(t, []string{"e", "d"}, starter.started[:2])
	assert.Equal(t, jobs, starter.started)
}

func TestRunHonorsContextWhileBlocked(t *testing.T) {
	starter := &fakeStarter{}
	census := &scriptedCensus{counts: []int{100}} // never any headroom
	l := fastLauncher(2, []string{"a", "b", "c"}, starter, census)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, []string{"a", "b"}, starter.started, "c must not start without headroom")
}

func TestDefaultCapIsPositive(t *testing.T) {
	assert.Greater(t, DefaultCap(), 0)
	l := NewLauncher(0, []string{"a"}, &fakeStarter{}, &scriptedCensus{counts: []int{1}})
	assert.Equal(t, DefaultCap(), l.Cap)
}
