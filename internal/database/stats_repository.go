package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/vocabbox/pkg/models"
)

// StatsRepository handles database operations for daily learning stats
// and the on-demand application statistics projection.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new repository instance
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Today returns the local calendar date key used for daily stats
func Today() string {
	return time.Now().Format("2006-01-02")
}

// IncrementDaily adds the given counts to today's record. The merge is a
// single additive upsert keyed by date, so there is never more than one
// record per day and concurrent-looking increments simply sum.
func (r *StatsRepository) IncrementDaily(newLearned, reviewed int) error {
	return r.IncrementOn(Today(), newLearned, reviewed)
}

// IncrementOn adds the given counts to the record for a specific date
func (r *StatsRepository) IncrementOn(date string, newLearned, reviewed int) error {
	query := `
		INSERT INTO learning_stats (id, date, new_learned, reviewed, total_time)
		VALUES (?, ?, ?, ?, 0)
		ON CONFLICT(date) DO UPDATE SET
			new_learned = new_learned + excluded.new_learned,
			reviewed = reviewed + excluded.reviewed
	`
	_, err := r.db.Exec(query, uuid.NewString(), date, newLearned, reviewed)
	if err != nil {
		return fmt.Errorf("failed to update daily stats: %v", err)
	}
	return nil
}

// GetAll returns every daily record, oldest first
func (r *StatsRepository) GetAll() ([]models.DailyStat, error) {
	var stats []models.DailyStat
	err := r.db.Select(&stats, "SELECT * FROM learning_stats ORDER BY date")
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %v", err)
	}
	return stats, nil
}

// GetByDate returns the record for one date, or ErrNotFound
func (r *StatsRepository) GetByDate(date string) (*models.DailyStat, error) {
	var stat models.DailyStat
	err := r.db.Get(&stat, "SELECT * FROM learning_stats WHERE date = ?", date)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats by date: %v", err)
	}
	return &stat, nil
}

// AppStats recomputes the application statistics projection from the
// stores. Nothing is cached; every call reflects the current state.
func (r *StatsRepository) AppStats() (*models.AppStats, error) {
	stats := &models.AppStats{}

	err := r.db.Get(&stats.TotalVocabularies, "SELECT COUNT(*) FROM vocabularies")
	if err != nil {
		return nil, fmt.Errorf("failed to count vocabularies: %v", err)
	}

	err = r.db.Get(&stats.NotStarted, "SELECT COUNT(*) FROM vocabularies WHERE box = ?", models.BoxNew)
	if err != nil {
		return nil, fmt.Errorf("failed to count not-started vocabularies: %v", err)
	}

	err = r.db.Get(&stats.InProgress,
		"SELECT COUNT(*) FROM vocabularies WHERE box BETWEEN ? AND ?",
		models.BoxFirst, models.BoxLast)
	if err != nil {
		return nil, fmt.Errorf("failed to count in-progress vocabularies: %v", err)
	}

	err = r.db.Get(&stats.Mastered, "SELECT COUNT(*) FROM vocabularies WHERE box = ?", models.BoxMastered)
	if err != nil {
		return nil, fmt.Errorf("failed to count mastered vocabularies: %v", err)
	}

	err = r.db.Get(&stats.TotalLists, "SELECT COUNT(*) FROM vocabulary_lists")
	if err != nil {
		return nil, fmt.Errorf("failed to count lists: %v", err)
	}

	err = r.db.Get(&stats.ActiveLists, `
		SELECT COUNT(*)
		FROM vocabulary_lists l
		LEFT JOIN list_preferences p ON p.list_id = l.id AND l.is_builtin
		WHERE COALESCE(p.is_active, l.is_active)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count active lists: %v", err)
	}

	today, err := r.GetByDate(Today())
	if err != nil && err != ErrNotFound {
		return nil, err
	}
	if today != nil {
		stats.TodayLearned = today.NewLearned
		stats.TodayReviewed = today.Reviewed
	}

	return stats, nil
}
