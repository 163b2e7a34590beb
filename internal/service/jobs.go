package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"convertapi/internal/model"
)

// ErrConversionInFlight is returned when a conversion is started for a file
// that already has one running. Transitions within a file's job are strictly
// sequential; nothing may enter "converting" twice.
var ErrConversionInFlight = errors.New("conversion already in flight")

// JobTracker keeps the transient per-file conversion jobs in memory. Jobs are
// not persisted: a restart forgets unfinished work, matching the session-bound
// nature of a conversion batch. Finished jobs are swept after a TTL.
type JobTracker struct {
	mu   sync.RWMutex
	jobs map[string]*model.ConversionJob
	ttl  time.Duration
}

// NewJobTracker creates a tracker that keeps finished jobs for ttl.
func NewJobTracker(ttl time.Duration) *JobTracker {
	return &JobTracker{
		jobs: make(map[string]*model.ConversionJob),
		ttl:  ttl,
	}
}

// Begin transitions the file's job to "converting". A job in "error" re-arms;
// a job already converting is rejected with ErrConversionInFlight.
func (t *JobTracker) Begin(fileID, target string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if job, ok := t.jobs[fileID]; ok && job.Status == model.StatusConverting {
		return ErrConversionInFlight
	}
	t.jobs[fileID] = &model.ConversionJob{
		FileID:    fileID,
		Status:    model.StatusConverting,
		Target:    target,
		UpdatedAt: time.Now().UTC(),
	}
	return nil
}

// Complete marks the job done and attaches the produced result.
func (t *JobTracker) Complete(fileID string, result *model.ConversionResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[fileID]
	if !ok {
		return
	}
	job.Status = model.StatusDone
	job.Result = result
	job.Error = ""
	job.UpdatedAt = time.Now().UTC()
}

// Fail marks the job errored. No partial result is ever attached.
func (t *JobTracker) Fail(fileID string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[fileID]
	if !ok {
		return
	}
	job.Status = model.StatusError
	job.Result = nil
	job.Error = err.Error()
	job.UpdatedAt = time.Now().UTC()
}

// Get returns a copy of the file's job. Files that never started a conversion
// report an idle job.
func (t *JobTracker) Get(fileID string) model.ConversionJob {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if job, ok := t.jobs[fileID]; ok {
		out := *job
		if job.Result != nil {
			res := *job.Result
			out.Result = &res
		}
		return out
	}
	return model.ConversionJob{FileID: fileID, Status: model.StatusIdle}
}

// Remove drops the file's job, whatever its state.
func (t *JobTracker) Remove(fileID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.jobs, fileID)
}

// Sweep drops finished jobs older than the TTL and returns how many were
// removed. Jobs still converting are never swept.
func (t *JobTracker) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for id, job := range t.jobs {
		if job.Status == model.StatusConverting {
			continue
		}
		if now.Sub(job.UpdatedAt) > t.ttl {
			delete(t.jobs, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until the context is done.
func (t *JobTracker) StartSweeper(ctx context.Context, interval time.Duration, log zerolog.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := t.Sweep(now); n > 0 {
					log.Debug().Int("removed", n).Msg("swept finished conversion jobs")
				}
			}
		}
	}()
}
