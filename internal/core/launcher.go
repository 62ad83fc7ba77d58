package core

import (
	"context"
	"runtime"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Platform default caps: the restricted OS/browser family gets a low cap,
// everything else a higher one.
const (
	restrictedDefaultCap = 4
	standardDefaultCap   = 10
)

const (
	defaultAdmissionInterval = 5 * time.Second
	defaultBurstGrace        = 5 * time.Second
	largeBatchThreshold      = 8
)

// Launcher drives all queued jobs to completion while never knowingly
// exceeding the concurrency cap at the moment an admission decision is made.
//
// Admission is sample-then-act: the census count can be stale by the time the
// new processes start, so a concurrent sibling invocation of the harness can
// push the effective total over the cap. That is accepted behavior of the
// polling design, not something to lock around.
type Launcher struct {
	Cap               int
	AdmissionInterval time.Duration
	BurstGrace        time.Duration

	jobs    []string
	states  map[string]JobState
	starter JobStarter
	census  ProcessCensus
	started []StartedJob
}

// DefaultCap resolves the platform default concurrency cap.
func DefaultCap() int {
	if runtime.GOOS == "windows" {
		return restrictedDefaultCap
	}
	return standardDefaultCap
}

// NewLauncher builds a launcher over an ordered job queue. A cap of zero or
// less means the platform default.
func NewLauncher(cap int, jobs []string, starter JobStarter, census ProcessCensus) *Launcher {
	if cap <= 0 {
		cap = DefaultCap()
	}
	states := make(map[string]JobState, len(jobs))
	for _, j := range jobs {
		states[j] = StateQueued
	}
	return &Launcher{
		Cap:               cap,
		AdmissionInterval: defaultAdmissionInterval,
		BurstGrace:        defaultBurstGrace,
		jobs:              append([]string(nil), jobs...),
		states:            states,
		starter:           starter,
		census:            census,
	}
}

// Snapshot returns the launcher's local view of each job, in queue order.
func (l *Launcher) Snapshot() []Job {
	out := make([]Job, 0, len(l.jobs))
	for _, name := range l.jobs {
		out = append(out, Job{Name: name, State: l.states[name]})
	}
	return out
}

// Run starts every queued job subject to admission control, then blocks until
// all spawned processes have exited.
func (l *Launcher) Run(ctx context.Context) error {
	begin := time.Now()
	log.Infof("launching %d jobs (cap %d)", len(l.jobs), l.Cap)

	if len(l.jobs) <= l.Cap {
		// Small batch: fire everything at once, no admission control.
		if len(l.jobs) > largeBatchThreshold {
			log.Warnf("starting %d jobs at once, expect load", len(l.jobs))
		}
		if err := l.startJobs(l.jobs); err != nil {
			return err
		}
		if err := sleepCtx(ctx, l.BurstGrace); err != nil {
			return err
		}
	} else {
		// Burst fills the cap; the rest go through the admission loop.
		if err := l.startJobs(l.jobs[:l.Cap]); err != nil {
			return err
		}
		if err := l.keepRunning(ctx, l.jobs[l.Cap:]); err != nil {
			return err
		}
	}

	for _, h := range l.started {
		if err := h.Wait(); err != nil {
			log.Warnf("worker pid %d exited with error: %v", h.Pid(), err)
		}
	}
	log.Infof("all jobs finished: started %s, ended %s",
		begin.Format(time.RFC3339), time.Now().Format(time.RFC3339))
	return nil
}

// keepRunning admits queued jobs as census samples show headroom. Iterative
// on purpose: the queue can be long. Terminates when the queue is empty.
func (l *Launcher) keepRunning(ctx context.Context, remaining []string) error {
	for len(remaining) > 0 {
		running, err := l.census.Count()
		if err != nil {
			return errors.Wrap(err, "admission check failed")
		}
		running = clampCount(running - 1) // the launcher's own process

		if running >= l.Cap {
			if err := sleepCtx(ctx, l.AdmissionInterval); err != nil {
				return err
			}
			continue
		}

		slots := l.Cap - running
		if slots > len(remaining) {
			slots = len(remaining)
		}
		if err := l.startJobs(remaining[:slots]); err != nil {
			return err
		}
		remaining = remaining[slots:]
	}
	return nil
}

func (l *Launcher) startJobs(names []string) error {
	for _, name := range names {
		h, err := l.starter.Start(name)
		if err != nil {
			l.states[name] = StateUnknown
			return errors.Wrapf(err, "cannot start job %s", name)
		}
		l.states[name] = StateStarted
		l.started = append(l.started, h)
		log.Infof("started job %s (pid %d)", name, h.Pid())
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
