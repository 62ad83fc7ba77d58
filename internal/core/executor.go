package core

import (
	"fmt"
	"os/exec"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gridrunner/internal/storage"
)

// StartedJob is a handle to one spawned worker process.
type StartedJob interface {
	Pid() int
	Wait() error
}

// JobStarter starts one named job as a detached OS process.
type JobStarter interface {
	Start(jobName string) (StartedJob, error)
}

// Executor renders the launch template for a job and spawns it through the
// shell. The worker shares no stdio with the launcher; everything it prints
// lands in a per-job log file.
type Executor struct {
	SuiteName      string
	RunPrefix      string
	OutputPipeline string
	Logs           *storage.LogStorage
}

func NewExecutor(suite *Suite, logs *storage.LogStorage) *Executor {
	return &Executor{
		SuiteName:      suite.Name,
		RunPrefix:      suite.RunPrefix,
		OutputPipeline: suite.OutputPipeline,
		Logs:           logs,
	}
}

// Command renders the full shell command for one job:
// <run-prefix> -n <job> <output-pipeline> > <log-path>
func (e *Executor) Command(jobName, logPath string) string {
	cmd := fmt.Sprintf("%s -n %s", e.RunPrefix, jobName)
	if e.OutputPipeline != "" {
		cmd += " " + e.OutputPipeline
	}
	return fmt.Sprintf("%s > %s", cmd, logPath)
}

// Start spawns the job process and returns its handle.
func (e *Executor) Start(jobName string) (StartedJob, error) {
	logPath, err := e.Logs.JobLogPath(e.SuiteName, jobName)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot prepare log file for job %s", jobName)
	}

	cmd := exec.Command("sh", "-c", e.Command(jobName, logPath))
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "cannot start job %s", jobName)
	}
	log.WithField("job", jobName).Debugf("spawned: %s", cmd.Args[2])
	return &workerProcess{cmd: cmd}, nil
}

type workerProcess struct {
	cmd *exec.Cmd
}

func (p *workerProcess) Pid() int    { return p.cmd.Process.Pid }
func (p *workerProcess) Wait() error { return p.cmd.Wait() }
