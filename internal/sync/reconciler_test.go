package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabbox/internal/database"
	"github.com/example/vocabbox/pkg/models"
)

// fakeRemote records batches and can be told to fail specific calls
type fakeRemote struct {
	listBatches  [][]models.VocabularyList
	vocabBatches [][]models.Vocabulary
	statBatches  [][]models.DailyStat

	failVocabBatch int // 1-based index of the vocab batch to fail, 0 = never
}

func (f *fakeRemote) UpsertLists(ctx context.Context, userID string, lists []models.VocabularyList) error {
	f.listBatches = append(f.listBatches, lists)
	return nil
}

func (f *fakeRemote) UpsertVocabularies(ctx context.Context, userID string, items []models.Vocabulary) error {
	f.vocabBatches = append(f.vocabBatches, items)
	if f.failVocabBatch > 0 && len(f.vocabBatches) == f.failVocabBatch {
		return errors.New("remote unavailable")
	}
	return nil
}

func (f *fakeRemote) UpsertStats(ctx context.Context, userID string, stats []models.DailyStat) error {
	f.statBatches = append(f.statBatches, stats)
	return nil
}

func newSyncFixture(t *testing.T, studiedItems int) (*sqlx.DB, *database.ListRepository, *database.VocabularyRepository, *database.StatsRepository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	lists := database.NewListRepository(db)
	vocab := database.NewVocabularyRepository(db)
	stats := database.NewStatsRepository(db)

	now := time.Now().UTC().Truncate(time.Second)

	builtin := &models.VocabularyList{
		ID: "builtin", Name: "Built-in", IsActive: true, IsBuiltin: true,
		CreatedAt: now, UpdatedAt: now,
	}
	user := &models.VocabularyList{
		ID: "user", Name: "Mine", IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, lists.Upsert(builtin))
	require.NoError(t, lists.Upsert(user))

	// Studied items in the user list are the ones worth replicating
	for i := 0; i < studiedItems; i++ {
		require.NoError(t, vocab.Upsert(&models.Vocabulary{
			ID: fmt.Sprintf("studied-%d", i), ListID: "user",
			SourceText: "Haus", TargetText: "house", Box: 1 + i%5,
			CreatedAt: now, UpdatedAt: now,
		}))
	}
	// Never-studied user item and a studied built-in item must be skipped
	require.NoError(t, vocab.Upsert(&models.Vocabulary{
		ID: "fresh", ListID: "user", SourceText: "Brot", TargetText: "bread",
		Box: models.BoxNew, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, vocab.Upsert(&models.Vocabulary{
		ID: "builtin-item", ListID: "builtin", SourceText: "Zeit", TargetText: "time",
		Box: 3, CreatedAt: now, UpdatedAt: now,
	}))

	require.NoError(t, stats.IncrementOn("2024-03-01", 5, 2))
	require.NoError(t, stats.IncrementOn("2024-03-02", 1, 7))

	return db, lists, vocab, stats
}

func TestSyncAllUploadsEverything(t *testing.T) {
	_, lists, vocab, stats := newSyncFixture(t, 3)
	remote := &fakeRemote{}
	r := NewReconciler(lists, vocab, stats, remote)

	result, err := r.SyncAll(context.Background(), "user-1", nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.ListsUploaded)
	assert.Equal(t, 3, result.VocabulariesUploaded)
	assert.Equal(t, 2, result.StatsUploaded)
	assert.Empty(t, result.Errors)

	// Built-in lists and their items never leave the device
	require.Len(t, remote.listBatches, 1)
	for _, l := range remote.listBatches[0] {
		assert.False(t, l.IsBuiltin)
	}
	for _, batch := range remote.vocabBatches {
		for _, v := range batch {
			assert.Equal(t, "user", v.ListID)
			assert.Greater(t, v.Box, models.BoxNew, "never-studied items are not replicated")
		}
	}
}

func TestSyncAllPartialBatchFailure(t *testing.T) {
	_, lists, vocab, stats := newSyncFixture(t, 150)
	remote := &fakeRemote{failVocabBatch: 2}
	r := NewReconciler(lists, vocab, stats, remote)

	result, err := r.SyncAll(context.Background(), "user-1", nil)
	require.NoError(t, err)

	// 150 items and batch size 100 make two batches; the second fails
	require.Len(t, remote.vocabBatches, 2)
	assert.Equal(t, 100, result.VocabulariesUploaded)
	assert.False(t, result.Success)
	assert.Len(t, result.Errors, 1)

	// Completed categories keep valid counts
	assert.Equal(t, 1, result.ListsUploaded)
	assert.Equal(t, 2, result.StatsUploaded)
}

func TestSyncAllReportsProgressBeforeEachBatch(t *testing.T) {
	_, lists, vocab, stats := newSyncFixture(t, 150)
	remote := &fakeRemote{}
	r := NewReconciler(lists, vocab, stats, remote)

	var seen []Progress
	result, err := r.SyncAll(context.Background(), "user-1", func(p Progress) {
		seen = append(seen, p)
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	// lists: 1 batch, vocabularies: 2 batches, stats: 1 batch + final tick
	require.Len(t, seen, 5)
	assert.Equal(t, Progress{Phase: PhaseLists, Current: 0, Total: 1}, seen[0])
	assert.Equal(t, Progress{Phase: PhaseVocabularies, Current: 0, Total: 150}, seen[1])
	assert.Equal(t, Progress{Phase: PhaseVocabularies, Current: 100, Total: 150}, seen[2])
	assert.Equal(t, Progress{Phase: PhaseStats, Current: 0, Total: 2}, seen[3])
	assert.Equal(t, Progress{Phase: PhaseStats, Current: 2, Total: 2}, seen[4])
}

func TestSyncAllNeverMutatesLocalState(t *testing.T) {
	_, lists, vocab, stats := newSyncFixture(t, 3)
	remote := &fakeRemote{failVocabBatch: 1}
	r := NewReconciler(lists, vocab, stats, remote)

	before, err := vocab.GetAll()
	require.NoError(t, err)

	_, err = r.SyncAll(context.Background(), "user-1", nil)
	require.NoError(t, err)

	after, err := vocab.GetAll()
	require.NoError(t, err)
	assert.Equal(t, before, after, "sync reads local state, it never writes it")
}

func TestSyncAllWithNothingToUpload(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	lists := database.NewListRepository(db)
	vocab := database.NewVocabularyRepository(db)
	stats := database.NewStatsRepository(db)
	remote := &fakeRemote{}

	result, err := NewReconciler(lists, vocab, stats, remote).SyncAll(context.Background(), "user-1", nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Zero(t, result.ListsUploaded)
	assert.Zero(t, result.VocabulariesUploaded)
	assert.Zero(t, result.StatsUploaded)
	assert.Empty(t, remote.listBatches)
	assert.Empty(t, remote.vocabBatches)
	assert.Empty(t, remote.statBatches)
}
