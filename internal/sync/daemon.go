package sync

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// AutoSync periodically pushes local progress to the remote store
type AutoSync struct {
	scheduler  *gocron.Scheduler
	reconciler *Reconciler
	userID     string
	interval   time.Duration
}

// NewAutoSync creates a background syncer for the given user
func NewAutoSync(reconciler *Reconciler, userID string, interval time.Duration) *AutoSync {
	return &AutoSync{
		scheduler:  gocron.NewScheduler(time.UTC),
		reconciler: reconciler,
		userID:     userID,
		interval:   interval,
	}
}

// Start begins running the periodic sync in a non-blocking manner
func (a *AutoSync) Start() {
	a.scheduler.Every(a.interval).Do(a.run)
	a.scheduler.StartAsync()
}

// Stop terminates the periodic sync
func (a *AutoSync) Stop() {
	a.scheduler.Stop()
}

// run executes one sync pass and logs a summary. Failures are summarized
// here and never interrupt the schedule; the next pass will retry since
// remote upserts are idempotent.
func (a *AutoSync) run() {
	result, err := a.reconciler.SyncAll(context.Background(), a.userID, nil)
	if err != nil {
		log.Printf("Auto-sync failed to read local store: %v", err)
		return
	}

	log.Printf("Auto-sync finished: %d lists, %d vocabularies, %d stats uploaded",
		result.ListsUploaded, result.VocabulariesUploaded, result.StatsUploaded)
	for _, e := range result.Errors {
		log.Printf("Auto-sync error: %s", e)
	}
}
