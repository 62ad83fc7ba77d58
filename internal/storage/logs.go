package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LogStorage hands out per-job log file paths under a base directory.
type LogStorage struct {
	BaseDir string
}

// NewLogStorage creates a new log storage handler
func NewLogStorage(baseDir string) *LogStorage {
	return &LogStorage{BaseDir: baseDir}
}

// JobLogPath returns the log file path for one job, creating the base
// directory on demand. The timestamp keeps reruns of the same job apart.
func (ls *LogStorage) JobLogPath(suite, job string) (string, error) {
	if err := os.MkdirAll(ls.BaseDir, 0775); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s_%s.log", sanitize(suite), sanitize(job), timestamp)
	return filepath.Join(ls.BaseDir, filename), nil
}

// sanitize removes special characters from names used in filenames
func sanitize(name string) string {
	clean := ""
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' {
			clean += string(r)
		}
	}
	if clean == "" {
		return "job"
	}
	return clean
}
