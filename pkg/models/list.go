package models

import "time"

// VocabularyList groups vocabulary items. Built-in lists ship with the
// application and are read-only apart from their activity flag; user
// lists come from imports and may be deleted.
type VocabularyList struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	VocabularyCount int       `json:"vocabulary_count" db:"vocabulary_count"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	IsBuiltin       bool      `json:"is_builtin" db:"is_builtin"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// ListPreference stores the user's activity choice for a built-in list
// separately, so the built-in record itself is never mutated.
type ListPreference struct {
	ListID   string `json:"list_id" db:"list_id"`
	IsActive bool   `json:"is_active" db:"is_active"`
}
