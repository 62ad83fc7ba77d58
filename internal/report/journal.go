package report

import (
	"bytes"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Record summarizes one completed launcher run.
type Record struct {
	RunID    string    `json:"run_id"`
	Suite    string    `json:"suite"`
	Jobs     int       `json:"jobs"`
	Cap      int       `json:"cap"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
}

// NewRecord stamps a fresh run record with a unique id.
func NewRecord(suite string, jobs, cap int, started, finished time.Time) Record {
	return Record{
		RunID:    uuid.NewString(),
		Suite:    suite,
		Jobs:     jobs,
		Cap:      cap,
		Started:  started,
		Finished: finished,
	}
}

// Journal is an append-only run history.
// File format: JSON lines (one record per line).
type Journal struct {
	mu      sync.Mutex
	records []Record
	path    string
}

// OpenJournal loads an existing journal file or starts an empty one.
func OpenJournal(path string) (*Journal, error) {
	j := &Journal{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return j, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open journal %s", path)
	}
	if len(data) == 0 {
		return j, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var r Record
		if err := dec.Decode(&r); err != nil {
			return nil, errors.Wrapf(err, "corrupt journal %s", path)
		}
		j.records = append(j.records, r)
	}
	return j, nil
}

// Append persists one record to disk and keeps it in memory.
func (j *Journal) Append(r Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, "open journal %s", j.path)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(r); err != nil {
		return errors.Wrap(err, "write journal record")
	}
	j.records = append(j.records, r)
	return nil
}

// Records returns the loaded records, oldest first.
func (j *Journal) Records() []Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Record, len(j.records))
	copy(out, j.records)
	return out
}
