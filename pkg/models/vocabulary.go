package models

import "time"

// Box boundaries for a vocabulary item. Box 0 means the item has never
// been introduced, boxes 1-5 are the active review cadence and box 6 is
// retired from review entirely.
const (
	BoxNew      = 0
	BoxFirst    = 1
	BoxLast     = 5
	BoxMastered = 6
)

// Vocabulary represents a single term pair and its scheduling state
type Vocabulary struct {
	ID             string     `json:"id" db:"id"`
	ListID         string     `json:"list_id" db:"list_id"`
	SourceText     string     `json:"source_text" db:"source_text"`
	TargetText     string     `json:"target_text" db:"target_text"`
	Box            int        `json:"box" db:"box"` // 0 = not started, 1-5 = learning boxes, 6 = mastered
	NextReview     *time.Time `json:"next_review" db:"next_review"`
	TimesCorrect   int        `json:"times_correct" db:"times_correct"`
	TimesIncorrect int        `json:"times_incorrect" db:"times_incorrect"`
	LastReviewed   *time.Time `json:"last_reviewed" db:"last_reviewed"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// InActiveCycle reports whether the item currently carries a pending
// review, i.e. it sits in one of the active boxes.
func (v *Vocabulary) InActiveCycle() bool {
	return v.Box >= BoxFirst && v.Box <= BoxLast
}
