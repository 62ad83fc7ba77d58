// cloudsim is a local stand-in for the device-cloud execution service. It
// serves the two REST endpoints the status poller uses, so the launcher's
// remote path can be exercised without an account on the real service.
package main

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

func main() {
	var (
		addr     = flag.String("addr", ":8080", "listen address")
		username = flag.String("username", "dev", "basic auth username")
		key      = flag.String("key", "dev-key", "basic auth access key")
		runFor   = flag.Duration("job-duration", 30*time.Second, "how long seeded jobs report in progress")
		seed     = flag.Int("seed", 0, "number of jobs to seed at startup")
	)
	flag.Parse()

	sim := newSimulator(*username, *key, *runFor)
	for i := 0; i < *seed; i++ {
		sim.createJob("complete")
	}

	log.Infof("cloudsim listening on %s (user %s)", *addr, *username)
	if err := http.ListenAndServe(*addr, sim.router()); err != nil {
		log.Fatalf("cloudsim: %v", err)
	}
}
