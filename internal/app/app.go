// Package app wires the stores, the scheduler and the session state
// machines into the surface the presentation layer calls.
package app

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/vocabbox/internal/database"
	"github.com/example/vocabbox/internal/importer"
	"github.com/example/vocabbox/internal/leitner"
	"github.com/example/vocabbox/internal/session"
	"github.com/example/vocabbox/pkg/models"
)

// App holds the explicitly constructed collaborators. It is created once
// at startup and handed around; there are no package-level singletons.
type App struct {
	Engine *leitner.Engine
	Vocab  *database.VocabularyRepository
	Lists  *database.ListRepository
	Stats  *database.StatsRepository
}

// New creates the application core over an opened local store
func New(db *sqlx.DB) *App {
	return &App{
		Engine: leitner.New(),
		Vocab:  database.NewVocabularyRepository(db),
		Lists:  database.NewListRepository(db),
		Stats:  database.NewStatsRepository(db),
	}
}

// RequestLearningBatch selects up to count never-studied items from
// active lists and opens a learning session over them. An empty batch is
// not an error; the returned session is already completed.
func (a *App) RequestLearningBatch(count int) (*session.LearningSession, error) {
	items, err := a.Vocab.GetAll()
	if err != nil {
		return nil, err
	}
	active, err := a.Lists.ActiveListIDs()
	if err != nil {
		return nil, err
	}

	batch := a.Engine.SelectForLearning(items, active, count)
	return session.NewLearning(a.Engine, a.Vocab, a.Stats, batch), nil
}

// RequestReviewBatch selects every currently due item from active lists
// and opens a review session over them.
func (a *App) RequestReviewBatch() (*session.ReviewSession, error) {
	items, err := a.Vocab.GetAll()
	if err != nil {
		return nil, err
	}
	active, err := a.Lists.ActiveListIDs()
	if err != nil {
		return nil, err
	}

	due := a.Engine.SelectForReview(items, active)
	return session.NewReview(a.Engine, a.Vocab, a.Stats, due), nil
}

// ToggleList flips a list's participation in scheduling
func (a *App) ToggleList(listID string, active bool) error {
	return a.Lists.SetActive(listID, active)
}

// DeleteList removes a user list and its items. Built-in lists are
// refused with ErrBuiltinList.
func (a *App) DeleteList(listID string) error {
	return a.Lists.Delete(listID)
}

// CreateListFromPairs materializes an imported list: a new active user
// list plus one box-0 item per parsed pair.
func (a *App) CreateListFromPairs(name string, pairs []importer.Pair) (*models.VocabularyList, error) {
	now := time.Now().UTC()
	list := &models.VocabularyList{
		ID:              uuid.NewString(),
		Name:            name,
		VocabularyCount: len(pairs),
		IsActive:        true,
		IsBuiltin:       false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := a.Lists.Upsert(list); err != nil {
		return nil, err
	}

	items := make([]models.Vocabulary, 0, len(pairs))
	for _, pair := range pairs {
		items = append(items, models.Vocabulary{
			ID:         uuid.NewString(),
			ListID:     list.ID,
			SourceText: pair.SourceText,
			TargetText: pair.TargetText,
			Box:        models.BoxNew,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if _, err := a.Vocab.UpsertAll(items); err != nil {
		return nil, err
	}
	return list, nil
}

// AppStats recomputes the dashboard projection
func (a *App) AppStats() (*models.AppStats, error) {
	return a.Stats.AppStats()
}
