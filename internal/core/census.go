package core

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ProcessCensus answers how many sibling worker processes are currently
// alive. Counts are point-in-time snapshots, never cached.
type ProcessCensus interface {
	Count() (int, error)
}

// PSCensus counts processes whose command line matches the launcher's static
// invocation signature, via the ps listing facility. The pipeline's own grep
// shows up in the listing, so one row is always subtracted; a pattern that
// matches nothing would yield -1, which is clamped to zero.
//
// Subtracting the launcher's own live process is the caller's job: it only
// applies when the count feeds an admission decision.
type PSCensus struct {
	Signature string
}

// NewPSCensus fails when the listing facility is missing: without it the
// launcher has no admission control.
func NewPSCensus(signature string) (*PSCensus, error) {
	if _, err := exec.LookPath("ps"); err != nil {
		return nil, errors.Wrap(err, "process listing facility (ps) not available")
	}
	return &PSCensus{Signature: signature}, nil
}

// Count samples the process table once.
func (c *PSCensus) Count() (int, error) {
	pipeline := fmt.Sprintf("ps -ef | grep -- %s | wc -l", strconv.Quote(c.Signature))
	out, err := exec.Command("sh", "-c", pipeline).Output()
	if err != nil {
		return 0, errors.Wrap(err, "process census failed")
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, errors.Wrapf(err, "unexpected census output %q", string(out))
	}
	return clampCount(n - 1), nil // minus the grep itself
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
