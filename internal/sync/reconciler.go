// Package sync replicates locally accumulated progress to a remote
// backing store for multi-device continuity. Replication is one
// directional and best effort: local data is the source of truth and is
// never mutated or rolled back based on remote outcomes.
package sync

import (
	"context"
	"fmt"

	"github.com/example/vocabbox/internal/database"
	"github.com/example/vocabbox/pkg/models"
)

// BatchSize is how many records go into one remote upsert
const BatchSize = 100

// Phase names reported through the progress callback
const (
	PhaseLists        = "lists"
	PhaseVocabularies = "vocabularies"
	PhaseStats        = "stats"
)

// Progress is handed to the caller synchronously before each batch
type Progress struct {
	Phase   string
	Current int
	Total   int
}

// Result summarizes one sync run. Success is false if any batch in any
// category failed; counts of the categories that did complete stay valid.
type Result struct {
	Success              bool     `json:"success"`
	ListsUploaded        int      `json:"lists_uploaded"`
	VocabulariesUploaded int      `json:"vocabularies_uploaded"`
	StatsUploaded        int      `json:"stats_uploaded"`
	Errors               []string `json:"errors"`
}

// RemoteStore is the upsert-by-id surface the reconciler pushes to
type RemoteStore interface {
	UpsertLists(ctx context.Context, userID string, lists []models.VocabularyList) error
	UpsertVocabularies(ctx context.Context, userID string, items []models.Vocabulary) error
	UpsertStats(ctx context.Context, userID string, stats []models.DailyStat) error
}

// Reconciler reads from the local repositories and uploads in batches
type Reconciler struct {
	lists     *database.ListRepository
	vocab     *database.VocabularyRepository
	stats     *database.StatsRepository
	remote    RemoteStore
	batchSize int
}

// NewReconciler creates a reconciler with the default batch size
func NewReconciler(lists *database.ListRepository, vocab *database.VocabularyRepository, stats *database.StatsRepository, remote RemoteStore) *Reconciler {
	return &Reconciler{
		lists:     lists,
		vocab:     vocab,
		stats:     stats,
		remote:    remote,
		batchSize: BatchSize,
	}
}

// SyncAll uploads user lists, studied items from user lists, and all
// daily stats. A failed batch is recorded and skipped; later batches and
// categories still run. The error return covers local store reads only.
func (r *Reconciler) SyncAll(ctx context.Context, userID string, onProgress func(Progress)) (*Result, error) {
	result := &Result{Success: true}

	allLists, err := r.lists.GetAll()
	if err != nil {
		return nil, err
	}
	allItems, err := r.vocab.GetAll()
	if err != nil {
		return nil, err
	}
	allStats, err := r.stats.GetAll()
	if err != nil {
		return nil, err
	}

	// Built-in lists are never user-owned and never uploaded
	var userLists []models.VocabularyList
	userListIDs := make(map[string]bool)
	for _, l := range allLists {
		if !l.IsBuiltin {
			userLists = append(userLists, l)
			userListIDs[l.ID] = true
		}
	}

	// Only items the user has actually started studying are worth
	// replicating
	var studied []models.Vocabulary
	for _, v := range allItems {
		if userListIDs[v.ListID] && v.Box > models.BoxNew {
			studied = append(studied, v)
		}
	}

	for start := 0; start < len(userLists); start += r.batchSize {
		end := start + r.batchSize
		if end > len(userLists) {
			end = len(userLists)
		}
		if onProgress != nil {
			onProgress(Progress{Phase: PhaseLists, Current: start, Total: len(userLists)})
		}
		batch := userLists[start:end]
		if err := r.remote.UpsertLists(ctx, userID, batch); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("list upload failed: %v", err))
			result.Success = false
		} else {
			result.ListsUploaded += len(batch)
		}
	}

	for start := 0; start < len(studied); start += r.batchSize {
		end := start + r.batchSize
		if end > len(studied) {
			end = len(studied)
		}
		if onProgress != nil {
			onProgress(Progress{Phase: PhaseVocabularies, Current: start, Total: len(studied)})
		}
		batch := studied[start:end]
		if err := r.remote.UpsertVocabularies(ctx, userID, batch); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("vocabulary upload failed: %v", err))
			result.Success = false
		} else {
			result.VocabulariesUploaded += len(batch)
		}
	}

	for start := 0; start < len(allStats); start += r.batchSize {
		end := start + r.batchSize
		if end > len(allStats) {
			end = len(allStats)
		}
		if onProgress != nil {
			onProgress(Progress{Phase: PhaseStats, Current: start, Total: len(allStats)})
		}
		batch := allStats[start:end]
		if err := r.remote.UpsertStats(ctx, userID, batch); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("stats upload failed: %v", err))
			result.Success = false
		} else {
			result.StatsUploaded += len(batch)
		}
	}

	if onProgress != nil {
		onProgress(Progress{Phase: PhaseStats, Current: len(allStats), Total: len(allStats)})
	}

	return result, nil
}
