// Package jobs tracks background processes and reaps them without blocking.
package jobs

import (
	"errors"
	"fmt"
	"io"

	"smallsh/internal/exitstatus"
	"smallsh/internal/logger"
)

// ErrFull is returned when the job table has no room for another process.
var ErrFull = errors.New("too many background jobs")

// Job is a live background process.
type Job struct {
	PID     int
	Command string
}

// Reaper inspects and signals child processes.
type Reaper interface {
	// Poll checks pid without blocking. done is false while it still runs.
	Poll(pid int) (status exitstatus.Status, done bool, err error)
	// Kill forcibly terminates pid.
	Kill(pid int) error
}

// Set is the insertion-ordered collection of live background jobs.
type Set struct {
	jobs   []Job
	limit  int
	reaper Reaper
	log    *logger.Logger
}

// New creates a Set holding at most limit jobs; limit 0 means unbounded.
func New(limit int, reaper Reaper, log *logger.Logger) *Set {
	return &Set{
		limit:  limit,
		reaper: reaper,
		log:    log,
	}
}

// Full reports whether Add would fail.
func (s *Set) Full() bool {
	return s.limit > 0 && len(s.jobs) >= s.limit
}

// Add registers a freshly started background process.
func (s *Set) Add(pid int, command string) error {
	if s.Full() {
		return ErrFull
	}
	s.jobs = append(s.jobs, Job{PID: pid, Command: command})
	return nil
}

func (s *Set) Len() int {
	return len(s.jobs)
}

// List returns a copy of the live jobs in registration order.
func (s *Set) List() []Job {
	return append([]Job{}, s.jobs...)
}

// Contains reports whether pid is tracked.
func (s *Set) Contains(pid int) bool {
	for _, job := range s.jobs {
		if job.PID == pid {
			return true
		}
	}
	return false
}

// Reap polls every job once, removes the finished ones and reports each of
// them on w. It returns the number of jobs removed.
func (s *Set) Reap(w io.Writer) int {
	removed := 0
	for i := 0; i < len(s.jobs); {
		job := s.jobs[i]
		status, done, err := s.reaper.Poll(job.PID)
		switch {
		case err != nil:
			// The process is gone without a status we can report.
			s.log.Error(job.Command, fmt.Errorf("reap pid %d: %w", job.PID, err))
		case !done:
			i++
			continue
		default:
			fmt.Fprintf(w, "background pid %d is done: %s\n", job.PID, status)
			s.log.Reap(job.PID, status)
		}
		s.remove(i)
		removed++
	}
	return removed
}

// KillAll forcibly terminates every job and makes one non-blocking attempt
// to collect each. The set is empty afterwards.
func (s *Set) KillAll() {
	for _, job := range s.jobs {
		err := s.reaper.Kill(job.PID)
		s.log.Kill(job.PID, err)
		_, _, _ = s.reaper.Poll(job.PID)
	}
	s.jobs = nil
}

func (s *Set) remove(i int) {
	s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
}
