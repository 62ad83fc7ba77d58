package core

// JobState is what the launcher knows about a job locally. The launcher
// never observes process exit through this state; once a job is started the
// OS process table and the remote service are the only sources of truth.
type JobState string

const (
	StateQueued  JobState = "queued"
	StateStarted JobState = "started"
	StateUnknown JobState = "unknown"
)

// Job is one named unit of test execution, mapped 1:1 to one OS process.
type Job struct {
	Name  string
	State JobState
}
