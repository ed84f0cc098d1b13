package session

import (
	"github.com/example/vocabbox/internal/database"
	"github.com/example/vocabbox/internal/leitner"
	"github.com/example/vocabbox/pkg/models"
)

// ReviewSession re-tests due items via free recall, one at a time. Every
// first answer is applied and persisted immediately, so an interrupted
// session loses no completed progress and needs no rollback.
type ReviewSession struct {
	engine *leitner.Engine
	vocab  *database.VocabularyRepository
	stats  *database.StatsRepository

	items []models.Vocabulary
	index int
	// attempts on the current item; the incorrect outcome is committed
	// on the first wrong answer only
	attempts int
	reviewed int
}

// NewReview creates a session over the due items selected by the
// scheduler. An empty batch is valid and means nothing is due.
func NewReview(engine *leitner.Engine, vocab *database.VocabularyRepository, stats *database.StatsRepository, items []models.Vocabulary) *ReviewSession {
	return &ReviewSession{
		engine: engine,
		vocab:  vocab,
		stats:  stats,
		items:  items,
	}
}

// Done reports whether every item has exited the session
func (s *ReviewSession) Done() bool {
	return s.index >= len(s.items)
}

// Current returns the item awaiting an answer, or nil when done
func (s *ReviewSession) Current() *models.Vocabulary {
	if s.Done() {
		return nil
	}
	return &s.items[s.index]
}

// Remaining returns how many items have not yet exited the session
func (s *ReviewSession) Remaining() int {
	return len(s.items) - s.index
}

// Reviewed returns how many items have exited the session so far
func (s *ReviewSession) Reviewed() int {
	return s.reviewed
}

// Hint returns the first letter of the current target term
func (s *ReviewSession) Hint() string {
	cur := s.Current()
	if cur == nil {
		return ""
	}
	return hintFor(cur.TargetText)
}

// SubmitAnswer resolves one recall attempt for the current item.
//
// A correct first answer advances the item one box. A wrong first answer
// commits the hard reset to box 1 right away and keeps the item current;
// the user must then retry until correct or invoke MarkTypo. Later
// attempts never touch the scheduler again, so the wrong-answer counter
// grows at most once per item and a correct retry does not promote.
func (s *ReviewSession) SubmitAnswer(text string) (bool, error) {
	if s.Done() {
		return false, ErrSessionCompleted
	}
	cur := s.Current()
	correct := checkAnswer(text, cur.TargetText)

	if correct {
		if s.attempts == 0 {
			if err := s.applyAndPersist(leitner.Correct); err != nil {
				return true, err
			}
		}
		return true, s.exitCurrent()
	}

	if s.attempts == 0 {
		if err := s.applyAndPersist(leitner.Incorrect); err != nil {
			return false, err
		}
	}
	s.attempts++
	return false, nil
}

// MarkTypo reclassifies the current wrong answer as correct for
// scheduling purposes and lets the item exit the session.
func (s *ReviewSession) MarkTypo() error {
	if s.Done() {
		return ErrSessionCompleted
	}
	if err := s.applyAndPersist(leitner.Correct); err != nil {
		return err
	}
	return s.exitCurrent()
}

// applyAndPersist runs one scheduler transition on a copy of the current
// item and stores it. The write is retried once; if it still fails the
// in-memory item is left untouched, so the on-disk state stays coherent
// and the next selection query will simply re-offer the item.
func (s *ReviewSession) applyAndPersist(outcome leitner.Outcome) error {
	item := s.items[s.index]
	s.engine.Apply(&item, outcome)

	if err := s.vocab.Upsert(&item); err != nil {
		// Upsert is idempotent by ID, a blind retry is safe
		if err = s.vocab.Upsert(&item); err != nil {
			return err
		}
	}

	s.items[s.index] = item
	return nil
}

// exitCurrent moves to the next due item and counts the finished one
// into today's reviewed total - one per item, not per attempt.
func (s *ReviewSession) exitCurrent() error {
	s.index++
	s.attempts = 0
	s.reviewed++
	return s.stats.IncrementDaily(0, 1)
}
