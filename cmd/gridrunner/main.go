package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"gridrunner/internal/config"
	"gridrunner/internal/core"
	"gridrunner/internal/remote"
	"gridrunner/internal/report"
	"gridrunner/internal/storage"
)

func main() {
	var (
		suitePath   = flag.String("suite", "suite.yaml", "suite file listing the jobs to launch")
		capFlag     = flag.Int("cap", 0, "concurrency cap (0 = suite setting or platform default)")
		logDir      = flag.String("logs", "", "job log directory (overrides the suite file)")
		journalPath = flag.String("journal", "", "append a run record to this JSONL file")
		profilePath = flag.String("profile", "", "device-cloud profile file (required with --wait-remote)")
		waitRemote  = flag.Bool("wait-remote", false, "after launching, poll the device cloud until no job is in progress")
		verbose     = flag.Bool("verbose", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if err := run(*suitePath, *capFlag, *logDir, *journalPath, *profilePath, *waitRemote); err != nil {
		fmt.Fprintln(os.Stderr, "gridrunner:", err)
		os.Exit(1)
	}
}

func run(suitePath string, capFlag int, logDir, journalPath, profilePath string, waitRemote bool) error {
	ctx := context.Background()

	suite, err := core.LoadSuite(suitePath)
	if err != nil {
		return err
	}
	if capFlag == 0 {
		capFlag = suite.Concurrency
	}
	if logDir == "" {
		logDir = suite.LogDir
	}

	// Everything the run needs must be in place before any job starts:
	// a missing ps facility or profile aborts here, not mid-batch.
	census, err := core.NewPSCensus(suite.RunPrefix)
	if err != nil {
		return err
	}
	var profile *config.Profile
	if waitRemote {
		if profilePath == "" {
			return errors.New("--wait-remote requires --profile")
		}
		if profile, err = config.LoadProfile(profilePath); err != nil {
			return err
		}
	}

	executor := core.NewExecutor(suite, storage.NewLogStorage(logDir))
	launcher := core.NewLauncher(capFlag, suite.Jobs, executor, census)

	begin := time.Now()
	if err := launcher.Run(ctx); err != nil {
		return err
	}

	if journalPath != "" {
		journal, err := report.OpenJournal(journalPath)
		if err != nil {
			return err
		}
		rec := report.NewRecord(suite.Name, len(suite.Jobs), launcher.Cap, begin, time.Now())
		if err := journal.Append(rec); err != nil {
			return err
		}
	}

	if waitRemote {
		poller := remote.NewPoller(remote.NewClient(profile))
		log.Info("waiting for device cloud to report all jobs done")
		return poller.WaitAllDone(ctx, len(suite.Jobs))
	}
	return nil
}
