package session

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabbox/internal/database"
	"github.com/example/vocabbox/internal/leitner"
	"github.com/example/vocabbox/pkg/models"
)

func newTestStore(t *testing.T) (*sqlx.DB, *database.VocabularyRepository, *database.StatsRepository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, database.NewVocabularyRepository(db), database.NewStatsRepository(db)
}

func fixedEngine(now time.Time) *leitner.Engine {
	return leitner.NewWithClock(func() time.Time { return now }, rand.New(rand.NewSource(1)))
}

func seedBatch(t *testing.T, db *sqlx.DB, vocab *database.VocabularyRepository, pairs [][2]string) []models.Vocabulary {
	t.Helper()
	lists := database.NewListRepository(db)
	now := time.Now().UTC().Truncate(time.Second)
	list := &models.VocabularyList{
		ID:        uuid.NewString(),
		Name:      "Batch",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, lists.Upsert(list))

	items := make([]models.Vocabulary, 0, len(pairs))
	for _, p := range pairs {
		item := models.Vocabulary{
			ID:         uuid.NewString(),
			ListID:     list.ID,
			SourceText: p[0],
			TargetText: p[1],
			Box:        models.BoxNew,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		require.NoError(t, vocab.Upsert(&item))
		items = append(items, item)
	}
	return items
}

func TestLearningSessionFullFlow(t *testing.T) {
	db, vocab, stats := newTestStore(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	engine := fixedEngine(now)

	items := seedBatch(t, db, vocab, [][2]string{
		{"Haus", "house"},
		{"Wasser", "water"},
		{"Zeit", "time"},
	})

	s := NewLearning(engine, vocab, stats, items)
	require.Equal(t, PhaseIntroduction, s.Phase())
	assert.Equal(t, 3, s.Size())

	// Introduction: step through every pair
	for i := 0; i < 3; i++ {
		require.NotNil(t, s.Current())
		require.NoError(t, s.Advance())
	}
	require.Equal(t, PhaseMatching, s.Phase())

	// Matching: a wrong pick re-presents the same item without penalty
	first := s.Current()
	wrong := "water"
	if first.TargetText == "water" {
		wrong = "house"
	}
	ok, err := s.SubmitMatch(wrong)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, first.ID, s.Current().ID)

	for s.Phase() == PhaseMatching {
		options := s.MatchingOptions()
		assert.Contains(t, options, s.Current().TargetText)
		ok, err := s.SubmitMatch(s.Current().TargetText)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	require.Equal(t, PhaseProduction, s.Phase())

	// Production: wrong answers keep the item current
	cur := s.Current()
	ok, err = s.SubmitAnswer("definitely wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, cur.ID, s.Current().ID)

	// Case and whitespace are forgiven
	ok, err = s.SubmitAnswer("  " + cur.TargetText + "  ")
	require.NoError(t, err)
	assert.True(t, ok)

	// Second item resolved via typo override
	require.NoError(t, s.MarkTypo())

	// Last correct answer commits the whole batch
	ok, err = s.SubmitAnswer(s.Current().TargetText)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Equal(t, PhaseCompleted, s.Phase())

	// Every item moved 0 -> 1 with the box-1 delay, in one logical commit
	for _, item := range items {
		got, err := vocab.GetByID(item.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BoxFirst, got.Box)
		require.NotNil(t, got.NextReview)
		assert.True(t, got.NextReview.Equal(now.AddDate(0, 0, leitner.BoxIntervals[models.BoxFirst])))
	}

	day, err := stats.GetByDate(database.Today())
	require.NoError(t, err)
	assert.Equal(t, 3, day.NewLearned)
	assert.Equal(t, 0, day.Reviewed)
}

func TestLearningMatchingMistakesDoNotTouchMastery(t *testing.T) {
	db, vocab, stats := newTestStore(t)
	engine := fixedEngine(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	items := seedBatch(t, db, vocab, [][2]string{
		{"Apfel", "apple"},
		{"Brot", "bread"},
	})

	s := NewLearning(engine, vocab, stats, items)
	require.NoError(t, s.Advance())
	require.NoError(t, s.Advance())
	require.Equal(t, PhaseMatching, s.Phase())

	for i := 0; i < 5; i++ {
		ok, err := s.SubmitMatch("no such translation")
		require.NoError(t, err)
		assert.False(t, ok)
	}

	// Nothing durable happened: abandoning here loses nothing either
	for _, item := range items {
		got, err := vocab.GetByID(item.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BoxNew, got.Box)
		assert.Zero(t, got.TimesIncorrect)
	}
}

func TestLearningEmptyBatchIsAlreadyCompleted(t *testing.T) {
	db, vocab, stats := newTestStore(t)
	_ = db
	engine := fixedEngine(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	s := NewLearning(engine, vocab, stats, nil)
	assert.Equal(t, PhaseCompleted, s.Phase())
	assert.Nil(t, s.Current())

	_, err := s.SubmitAnswer("anything")
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestLearningHint(t *testing.T) {
	db, vocab, stats := newTestStore(t)
	engine := fixedEngine(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	items := seedBatch(t, db, vocab, [][2]string{{"Haus", "house"}})
	s := NewLearning(engine, vocab, stats, items)
	assert.Equal(t, "H", s.Hint())
}
