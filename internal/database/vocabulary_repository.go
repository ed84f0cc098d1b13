package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabbox/pkg/models"
)

// ErrNotFound is returned when a record does not exist in the store
var ErrNotFound = errors.New("record not found")

// VocabularyRepository handles database operations for vocabulary items.
// It is a plain persistence boundary; scheduling decisions never happen here.
type VocabularyRepository struct {
	db *sqlx.DB
}

// NewVocabularyRepository creates a new repository instance
func NewVocabularyRepository(db *sqlx.DB) *VocabularyRepository {
	return &VocabularyRepository{db: db}
}

// GetAll returns every known item, unfiltered by list activity
func (r *VocabularyRepository) GetAll() ([]models.Vocabulary, error) {
	var items []models.Vocabulary
	err := r.db.Select(&items, "SELECT * FROM vocabularies ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabularies: %v", err)
	}
	return items, nil
}

// GetByID returns a single item by its ID
func (r *VocabularyRepository) GetByID(id string) (*models.Vocabulary, error) {
	var item models.Vocabulary
	err := r.db.Get(&item, "SELECT * FROM vocabularies WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary by ID: %v", err)
	}
	return &item, nil
}

// GetByList returns items belonging to one list
func (r *VocabularyRepository) GetByList(listID string) ([]models.Vocabulary, error) {
	var items []models.Vocabulary
	err := r.db.Select(&items, "SELECT * FROM vocabularies WHERE list_id = ? ORDER BY created_at", listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabularies by list: %v", err)
	}
	return items, nil
}

// GetByBox returns items sitting in exactly the given box
func (r *VocabularyRepository) GetByBox(box int) ([]models.Vocabulary, error) {
	var items []models.Vocabulary
	err := r.db.Select(&items, "SELECT * FROM vocabularies WHERE box = ? ORDER BY created_at", box)
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabularies by box: %v", err)
	}
	return items, nil
}

// Upsert creates or replaces an item keyed by its ID. Calling it twice
// with the same record leaves a single stored row, so callers may blindly
// retry after a failed write.
func (r *VocabularyRepository) Upsert(item *models.Vocabulary) error {
	query := `
		INSERT INTO vocabularies (
			id, list_id, source_text, target_text, box, next_review,
			times_correct, times_incorrect, last_reviewed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			list_id = excluded.list_id,
			source_text = excluded.source_text,
			target_text = excluded.target_text,
			box = excluded.box,
			next_review = excluded.next_review,
			times_correct = excluded.times_correct,
			times_incorrect = excluded.times_incorrect,
			last_reviewed = excluded.last_reviewed,
			updated_at = excluded.updated_at
	`
	_, err := r.db.Exec(
		query,
		item.ID,
		item.ListID,
		item.SourceText,
		item.TargetText,
		item.Box,
		item.NextReview,
		item.TimesCorrect,
		item.TimesIncorrect,
		item.LastReviewed,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert vocabulary: %v", err)
	}
	return nil
}

// UpsertAll stores items one by one in order. A failure partway through
// leaves the already stored prefix committed and returns how many made
// it, so the caller can retry only the remainder.
func (r *VocabularyRepository) UpsertAll(items []models.Vocabulary) (int, error) {
	for i := range items {
		if err := r.Upsert(&items[i]); err != nil {
			return i, err
		}
	}
	return len(items), nil
}

// Delete removes an item
func (r *VocabularyRepository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM vocabularies WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete vocabulary: %v", err)
	}
	return nil
}

// DeleteByList removes every item belonging to a list
func (r *VocabularyRepository) DeleteByList(listID string) error {
	_, err := r.db.Exec("DELETE FROM vocabularies WHERE list_id = ?", listID)
	if err != nil {
		return fmt.Errorf("failed to delete vocabularies for list: %v", err)
	}
	return nil
}

// CountByList returns the actual number of items in a list, used to
// recompute the denormalized count on the list record.
func (r *VocabularyRepository) CountByList(listID string) (int, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(*) FROM vocabularies WHERE list_id = ?", listID)
	if err != nil {
		return 0, fmt.Errorf("failed to count vocabularies: %v", err)
	}
	return count, nil
}
