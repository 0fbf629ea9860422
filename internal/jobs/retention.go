package jobs

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Ananth-NQI/autoresponder/internal/storage"
)

// RetentionJob periodically deletes chat logs older than the retention window
type RetentionJob struct {
	store     storage.Store
	retention time.Duration
	interval  time.Duration
	now       func() time.Time

	mu        sync.Mutex
	isRunning bool
	stop      chan struct{}
	done      chan struct{}
}

// NewRetentionJob creates a new retention job that runs every interval
func NewRetentionJob(store storage.Store, retention, interval time.Duration) *RetentionJob {
	return &RetentionJob{
		store:     store,
		retention: retention,
		interval:  interval,
		now:       time.Now,
	}
}

// Start begins the cleanup loop
func (j *RetentionJob) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.isRunning {
		log.Info().Msg("Retention job already running")
		return
	}
	if j.retention <= 0 {
		log.Info().Msg("Chat log retention disabled")
		return
	}

	j.isRunning = true
	j.stop = make(chan struct{})
	j.done = make(chan struct{})
	go j.loop(j.stop, j.done)

	log.Info().Dur("retention", j.retention).Dur("interval", j.interval).Msg("🧹 Chat log retention job started")
}

// Stop halts the job and waits for the loop to exit
func (j *RetentionJob) Stop() {
	j.mu.Lock()
	if !j.isRunning {
		j.mu.Unlock()
		return
	}
	j.isRunning = false
	close(j.stop)
	done := j.done
	j.mu.Unlock()

	<-done
	log.Info().Msg("Stopping chat log retention job...")
}

func (j *RetentionJob) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.RunOnce()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			j.RunOnce()
		}
	}
}

// RunOnce deletes expired chat logs and returns how many were removed
func (j *RetentionJob) RunOnce() int64 {
	cutoff := j.now().Add(-j.retention)
	deleted, err := j.store.DeleteChatLogsBefore(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to prune chat logs")
		return 0
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("🧹 Pruned old chat logs")
	}
	return deleted
}
