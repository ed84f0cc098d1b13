package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabbox/pkg/models"
)

// ErrBuiltinList is returned when trying to delete a built-in list
var ErrBuiltinList = errors.New("built-in lists cannot be deleted")

// ListRepository handles database operations for vocabulary lists.
// Built-in list records are read-only; their activity flag lives in the
// list_preferences table so the record itself is never touched.
type ListRepository struct {
	db *sqlx.DB
}

// NewListRepository creates a new repository instance
func NewListRepository(db *sqlx.DB) *ListRepository {
	return &ListRepository{db: db}
}

// GetAll returns all lists with built-in activity resolved through the
// stored preferences. A built-in list without a preference keeps the
// activity recorded on its own row.
func (r *ListRepository) GetAll() ([]models.VocabularyList, error) {
	var lists []models.VocabularyList
	query := `
		SELECT l.id, l.name, l.vocabulary_count,
		       COALESCE(p.is_active, l.is_active) AS is_active,
		       l.is_builtin, l.created_at, l.updated_at
		FROM vocabulary_lists l
		LEFT JOIN list_preferences p ON p.list_id = l.id AND l.is_builtin
		ORDER BY l.created_at
	`
	err := r.db.Select(&lists, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get lists: %v", err)
	}
	return lists, nil
}

// GetByID returns a single list with resolved activity
func (r *ListRepository) GetByID(id string) (*models.VocabularyList, error) {
	var list models.VocabularyList
	query := `
		SELECT l.id, l.name, l.vocabulary_count,
		       COALESCE(p.is_active, l.is_active) AS is_active,
		       l.is_builtin, l.created_at, l.updated_at
		FROM vocabulary_lists l
		LEFT JOIN list_preferences p ON p.list_id = l.id AND l.is_builtin
		WHERE l.id = ?
	`
	err := r.db.Get(&list, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list by ID: %v", err)
	}
	return &list, nil
}

// ActiveListIDs returns the IDs of every list currently participating in
// scheduling, as a set for membership checks during selection.
func (r *ListRepository) ActiveListIDs() (map[string]bool, error) {
	lists, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	active := make(map[string]bool)
	for _, l := range lists {
		if l.IsActive {
			active[l.ID] = true
		}
	}
	return active, nil
}

// Upsert creates or replaces a list keyed by its ID
func (r *ListRepository) Upsert(list *models.VocabularyList) error {
	query := `
		INSERT INTO vocabulary_lists (
			id, name, vocabulary_count, is_active, is_builtin, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			vocabulary_count = excluded.vocabulary_count,
			is_active = excluded.is_active,
			is_builtin = excluded.is_builtin,
			updated_at = excluded.updated_at
	`
	_, err := r.db.Exec(
		query,
		list.ID,
		list.Name,
		list.VocabularyCount,
		list.IsActive,
		list.IsBuiltin,
		list.CreatedAt,
		list.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert list: %v", err)
	}
	return nil
}

// SetActive toggles a list's participation in scheduling. For built-in
// lists the choice is stored as a preference keyed by list ID; for user
// lists it is written to the list row itself.
func (r *ListRepository) SetActive(listID string, active bool) error {
	list, err := r.GetByID(listID)
	if err != nil {
		return err
	}

	if list.IsBuiltin {
		query := `
			INSERT INTO list_preferences (list_id, is_active) VALUES (?, ?)
			ON CONFLICT(list_id) DO UPDATE SET is_active = excluded.is_active
		`
		if _, err := r.db.Exec(query, listID, active); err != nil {
			return fmt.Errorf("failed to save list preference: %v", err)
		}
		return nil
	}

	_, err = r.db.Exec(
		"UPDATE vocabulary_lists SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		active, listID,
	)
	if err != nil {
		return fmt.Errorf("failed to update list activity: %v", err)
	}
	return nil
}

// Delete removes a user list together with its items. Built-in lists are
// never deletable.
func (r *ListRepository) Delete(listID string) error {
	list, err := r.GetByID(listID)
	if err != nil {
		return err
	}
	if list.IsBuiltin {
		return ErrBuiltinList
	}

	if _, err := r.db.Exec("DELETE FROM vocabularies WHERE list_id = ?", listID); err != nil {
		return fmt.Errorf("failed to delete list items: %v", err)
	}
	if _, err := r.db.Exec("DELETE FROM vocabulary_lists WHERE id = ?", listID); err != nil {
		return fmt.Errorf("failed to delete list: %v", err)
	}
	return nil
}

// HasAny reports whether any list exists yet; used to decide whether the
// bundled built-in lists still need to be seeded.
func (r *ListRepository) HasAny() (bool, error) {
	var count int
	if err := r.db.Get(&count, "SELECT COUNT(*) FROM vocabulary_lists"); err != nil {
		return false, fmt.Errorf("failed to count lists: %v", err)
	}
	return count > 0, nil
}
