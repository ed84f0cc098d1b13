package sync

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/example/vocabbox/pkg/models"
)

// PostgresRemote is the shipped RemoteStore backed by a Postgres
// database. Records are upserted by ID; the last writer wins.
type PostgresRemote struct {
	db *sqlx.DB
}

// OpenRemote connects to the remote Postgres store and makes sure the
// replication tables exist.
func OpenRemote(url string) (*PostgresRemote, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to remote database: %v", err)
	}
	r := &PostgresRemote{db: db}
	if err := r.ensureSchema(); err != nil {
		return nil, err
	}
	return r, nil
}

// Close closes the remote connection
func (r *PostgresRemote) Close() error {
	return r.db.Close()
}

func (r *PostgresRemote) ensureSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS vocabulary_lists (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			vocabulary_count INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create remote lists table: %v", err)
	}

	_, err = r.db.Exec(`
		CREATE TABLE IF NOT EXISTS vocabularies (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			list_id TEXT NOT NULL,
			source_text TEXT NOT NULL,
			target_text TEXT NOT NULL,
			box INTEGER NOT NULL DEFAULT 0,
			times_correct INTEGER NOT NULL DEFAULT 0,
			times_incorrect INTEGER NOT NULL DEFAULT 0,
			last_reviewed TIMESTAMPTZ,
			next_review TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create remote vocabularies table: %v", err)
	}

	_, err = r.db.Exec(`
		CREATE TABLE IF NOT EXISTS learning_stats (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			date TEXT NOT NULL,
			new_learned INTEGER NOT NULL DEFAULT 0,
			reviewed INTEGER NOT NULL DEFAULT 0,
			total_time INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create remote stats table: %v", err)
	}

	return nil
}

// UpsertLists uploads one batch of lists inside a single transaction
func (r *PostgresRemote) UpsertLists(ctx context.Context, userID string, lists []models.VocabularyList) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO vocabulary_lists (
			id, user_id, name, vocabulary_count, is_active,
			created_at, updated_at, uploaded_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			vocabulary_count = EXCLUDED.vocabulary_count,
			is_active = EXCLUDED.is_active,
			updated_at = NOW(),
			uploaded_at = NOW()
	`
	for _, list := range lists {
		_, err := tx.ExecContext(ctx, query,
			list.ID,
			userID,
			list.Name,
			list.VocabularyCount,
			list.IsActive,
			list.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert remote list: %v", err)
		}
	}
	return tx.Commit()
}

// UpsertVocabularies uploads one batch of items inside a single transaction
func (r *PostgresRemote) UpsertVocabularies(ctx context.Context, userID string, items []models.Vocabulary) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO vocabularies (
			id, user_id, list_id, source_text, target_text, box,
			times_correct, times_incorrect, last_reviewed, next_review,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (id) DO UPDATE SET
			box = EXCLUDED.box,
			times_correct = EXCLUDED.times_correct,
			times_incorrect = EXCLUDED.times_incorrect,
			last_reviewed = EXCLUDED.last_reviewed,
			next_review = EXCLUDED.next_review,
			updated_at = NOW()
	`
	for _, item := range items {
		_, err := tx.ExecContext(ctx, query,
			item.ID,
			userID,
			item.ListID,
			item.SourceText,
			item.TargetText,
			item.Box,
			item.TimesCorrect,
			item.TimesIncorrect,
			item.LastReviewed,
			item.NextReview,
			item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert remote vocabulary: %v", err)
		}
	}
	return tx.Commit()
}

// UpsertStats uploads one batch of daily stats inside a single transaction
func (r *PostgresRemote) UpsertStats(ctx context.Context, userID string, stats []models.DailyStat) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO learning_stats (
			id, user_id, date, new_learned, reviewed, total_time, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			new_learned = EXCLUDED.new_learned,
			reviewed = EXCLUDED.reviewed,
			total_time = EXCLUDED.total_time,
			updated_at = NOW()
	`
	for _, stat := range stats {
		_, err := tx.ExecContext(ctx, query,
			stat.ID,
			userID,
			stat.Date,
			stat.NewLearned,
			stat.Reviewed,
			stat.TotalTime,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert remote stats: %v", err)
		}
	}
	return tx.Commit()
}
