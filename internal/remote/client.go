package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gridrunner/internal/config"
)

// Status of one remote job as reported by the device cloud.
// Observed per-job machine: unknown -> in_progress -> {complete, error};
// unknown is also terminal when the status can never be fetched.
type Status string

const (
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
	StatusInProgress Status = "in_progress"
	StatusUnknown    Status = "unknown"
)

const fetchAttempts = 5

// Wire records. Decoding is strict: a payload with fields we do not know is
// treated as malformed rather than silently accepted.
type jobRecord struct {
	ID string `json:"id"`
}

type jobDetail struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Client queries the device cloud's REST API with basic auth. Every network
// call is attempted up to fetchAttempts times with no backoff; the final
// attempt's own failure is what the caller sees.
type Client struct {
	HTTP      *http.Client
	Endpoint  string
	Username  string
	AccessKey string
}

func NewClient(profile *config.Profile) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		Endpoint:  profile.Endpoint,
		Username:  profile.Username,
		AccessKey: profile.AccessKey,
	}
}

// RecentJobIDs fetches the ids of the limit most recently created remote jobs.
func (c *Client) RecentJobIDs(ctx context.Context, limit int) ([]string, error) {
	url := fmt.Sprintf("%s/rest/v1/%s/jobs?limit=%d", c.Endpoint, c.Username, limit)
	var records []jobRecord
	if err := c.getJSON(ctx, url, &records); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// JobStatus fetches the status of one remote job by id.
func (c *Client) JobStatus(ctx context.Context, id string) (Status, error) {
	url := fmt.Sprintf("%s/rest/v1/%s/jobs/%s", c.Endpoint, c.Username, id)
	var detail jobDetail
	if err := c.getJSON(ctx, url, &detail); err != nil {
		return StatusUnknown, err
	}
	return parseStatus(detail.Status), nil
}

// parseStatus maps the service's status strings onto the local set. Anything
// unrecognized is unknown: the service grows states faster than we do.
func parseStatus(s string) Status {
	switch s {
	case "complete":
		return StatusComplete
	case "error":
		return StatusError
	case "in progress", "in_progress":
		return StatusInProgress
	default:
		return StatusUnknown
	}
}

// getJSON performs one authenticated GET with bounded retry and strict
// decoding. Only the network round trip is retried; a malformed body will
// not get better on a second read.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return errors.WithStack(err)
			}
			req.SetBasicAuth(c.Username, c.AccessKey)

			resp, err := c.HTTP.Do(req)
			if err != nil {
				return errors.WithStack(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return errors.Errorf("GET %s: unexpected status %s", url, resp.Status)
			}
			body, err = io.ReadAll(resp.Body)
			return errors.WithStack(err)
		},
		retry.Attempts(fetchAttempts),
		retry.Delay(0),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warnf("remote call failed (attempt %d/%d): %v", n+1, fetchAttempts, err)
		}),
	)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return errors.Wrapf(err, "malformed response from %s", url)
	}
	return nil
}
