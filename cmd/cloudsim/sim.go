package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// simulator is an in-memory stand-in for the device cloud. Seeded jobs
// report "in progress" until runFor elapses, then settle on their final
// status.
type simulator struct {
	mu       sync.Mutex
	jobs     []*simJob // newest first
	username string
	key      string
	runFor   time.Duration
}

type simJob struct {
	ID      string
	Final   string // status once runFor has elapsed
	Created time.Time
}

func newSimulator(username, key string, runFor time.Duration) *simulator {
	return &simulator{username: username, key: key, runFor: runFor}
}

func (s *simulator) createJob(final string) *simJob {
	if final == "" {
		final = "complete"
	}
	job := &simJob{ID: uuid.NewString(), Final: final, Created: time.Now()}
	s.mu.Lock()
	s.jobs = append([]*simJob{job}, s.jobs...)
	s.mu.Unlock()
	log.Infof("seeded job %s (final status %s)", job.ID, job.Final)
	return job
}

func (s *simulator) status(job *simJob) string {
	if time.Since(job.Created) < s.runFor {
		return "in progress"
	}
	return job.Final
}

func (s *simulator) router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.auth)
	r.Route("/rest/v1/{user}/jobs", func(r chi.Router) {
		r.Get("/", s.handleListJobs)
		r.Post("/", s.handleCreateJob)
		r.Get("/{id}", s.handleJobStatus)
	})
	return r
}

func (s *simulator) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, key, ok := r.BasicAuth()
		if !ok || user != s.username || key != s.key {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GET /rest/v1/{user}/jobs?limit=N -> newest job ids first
func (s *simulator) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		http.Error(w, "bad limit", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > len(s.jobs) {
		limit = len(s.jobs)
	}
	records := make([]map[string]string, 0, limit)
	for _, job := range s.jobs[:limit] {
		records = append(records, map[string]string{"id": job.ID})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// POST /rest/v1/{user}/jobs -> seed a job, optional {"status": "error"} body
func (s *simulator) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	job := s.createJob(body.Status)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": job.ID})
}

// GET /rest/v1/{user}/jobs/{id} -> current status
func (s *simulator) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if job.ID == id {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"id": job.ID, "status": s.status(job)})
			return
		}
	}
	http.Error(w, "job not found", http.StatusNotFound)
}
