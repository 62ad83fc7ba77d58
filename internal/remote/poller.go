package remote

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const defaultPollInterval = 20 * time.Second

// Poller aggregates remote job statuses and offers a fixed-interval wait for
// a whole batch.
//
// WaitAllDone is a fallback completion signal kept for compatibility: when
// the launcher can observe local process exit, that is authoritative and
// this poller is unnecessary. Only jobs executing off-box need it.
type Poller struct {
	Client       *Client
	PollInterval time.Duration
}

func NewPoller(client *Client) *Poller {
	return &Poller{Client: client, PollInterval: defaultPollInterval}
}

// RecentStatuses returns the statuses of the limit most recently created
// remote jobs. A job whose status cannot be fetched or parsed is logged and
// omitted; the batch carries on without it.
func (p *Poller) RecentStatuses(ctx context.Context, limit int) ([]Status, error) {
	ids, err := p.Client.RecentJobIDs(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "cannot list recent remote jobs")
	}
	if len(ids) > limit {
		ids = ids[:limit] // never trust the service to honor the limit
	}

	statuses := make([]Status, 0, len(ids))
	for _, id := range ids {
		status, err := p.Client.JobStatus(ctx, id)
		if err != nil {
			log.Warnf("dropping job %s from status batch: %v", id, err)
			continue
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// WaitAllDone polls until no remote job in the batch reports in-progress.
// A failed poll is a warning, not a halt: local execution never depends on
// the remote service answering. There is no deadline beyond ctx, so a job
// the service never finishes keeps the loop alive.
func (p *Poller) WaitAllDone(ctx context.Context, totalJobs int) error {
	for {
		statuses, err := p.RecentStatuses(ctx, totalJobs)
		if err != nil {
			log.Warnf("remote status poll failed, will poll again: %v", err)
		} else if !anyInProgress(statuses) {
			return nil
		}
		if err := pollSleep(ctx, p.PollInterval); err != nil {
			return err
		}
	}
}

func anyInProgress(statuses []Status) bool {
	for _, s := range statuses {
		if s == StatusInProgress {
			return true
		}
	}
	return false
}

func pollSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
