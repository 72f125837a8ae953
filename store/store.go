// Package store keeps finished jobs per session with expiry, replacing a
// single process-wide "latest result" slot.
package store

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"notes-web/models"
)

// Store maps session ID -> job ID -> job.
type Store struct {
	userJobs map[string]map[string]*models.Job
	ttl      time.Duration
	mu       sync.RWMutex
	now      func() time.Time
	log      logrus.FieldLogger
}

// New returns a store whose jobs expire ttl after creation.
func New(ttl time.Duration, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{
		userJobs: make(map[string]map[string]*models.Job),
		ttl:      ttl,
		now:      time.Now,
		log:      log,
	}
}

// Add stores job under its session.
func (s *Store) Add(job *models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userJobs[job.SessionID] == nil {
		s.userJobs[job.SessionID] = make(map[string]*models.Job)
	}
	s.userJobs[job.SessionID][job.ID] = job
}

// Get returns a job of the session if it exists and has not expired.
func (s *Store) Get(sessionID, jobID string) (*models.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.userJobs[sessionID][jobID]
	if !ok || s.expired(job) {
		return nil, false
	}
	return job, true
}

// Latest returns the newest live job of the given kind for the session.
func (s *Store) Latest(sessionID string, kind models.JobKind) (*models.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Job
	for _, job := range s.userJobs[sessionID] {
		if job.Kind != kind || s.expired(job) {
			continue
		}
		if latest == nil || job.CreatedAt.After(latest.CreatedAt) {
			latest = job
		}
	}
	return latest, latest != nil
}

// List returns the session's live jobs, newest first.
func (s *Store) List(sessionID string) []*models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]*models.Job, 0, len(s.userJobs[sessionID]))
	for _, job := range s.userJobs[sessionID] {
		if !s.expired(job) {
			jobs = append(jobs, job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	return jobs
}

// Sweep drops expired jobs and deletes their PDFs. It returns how many jobs
// were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	var dead []*models.Job
	for sessionID, jobs := range s.userJobs {
		for id, job := range jobs {
			if s.expired(job) {
				dead = append(dead, job)
				delete(jobs, id)
			}
		}
		if len(jobs) == 0 {
			delete(s.userJobs, sessionID)
		}
	}
	s.mu.Unlock()

	for _, job := range dead {
		if job.OutputPath == "" {
			continue
		}
		if err := os.Remove(job.OutputPath); err != nil && !os.IsNotExist(err) {
			s.log.WithError(err).WithField("job", job.ID).Warn("could not delete expired output")
		}
	}
	return len(dead)
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.WithField("removed", n).Info("expired jobs swept")
			}
		}
	}
}

func (s *Store) expired(job *models.Job) bool {
	return s.ttl > 0 && s.now().Sub(job.CreatedAt) >= s.ttl
}
