package session

import (
	"errors"
	"math/rand"
	"time"

	"github.com/example/vocabbox/internal/database"
	"github.com/example/vocabbox/internal/leitner"
	"github.com/example/vocabbox/pkg/models"
)

// Phase is the stage a learning session is currently in
type Phase int

const (
	// PhaseIntroduction shows term pairs one at a time, no scoring
	PhaseIntroduction Phase = iota
	// PhaseMatching is multiple-choice recognition over the batch
	PhaseMatching
	// PhaseProduction is free-text recall, the only phase gating promotion
	PhaseProduction
	// PhaseCompleted means the batch has been committed
	PhaseCompleted
)

// ErrSessionCompleted is returned when a finished session receives input
var ErrSessionCompleted = errors.New("session already completed")

// LearningSession introduces a batch of box-0 items through the
// introduction, matching and production phases. Nothing is persisted
// until the production phase finishes; abandoning earlier discards the
// session with no durable effect.
type LearningSession struct {
	engine *leitner.Engine
	vocab  *database.VocabularyRepository
	stats  *database.StatsRepository
	rnd    *rand.Rand

	items   []models.Vocabulary
	phase   Phase
	index   int
	matched map[string]bool
	// matching mistakes per item; they never touch mastery
	mistakes map[string]int
	// items already promoted by a partially failed commit
	committed int
	// promotions already counted into the daily stats
	counted int
}

// NewLearning creates a session over a batch selected by the scheduler.
// An empty batch yields an already-completed session.
func NewLearning(engine *leitner.Engine, vocab *database.VocabularyRepository, stats *database.StatsRepository, items []models.Vocabulary) *LearningSession {
	s := &LearningSession{
		engine:   engine,
		vocab:    vocab,
		stats:    stats,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		items:    items,
		matched:  make(map[string]bool),
		mistakes: make(map[string]int),
	}
	if len(items) == 0 {
		s.phase = PhaseCompleted
	}
	return s
}

// Phase returns the current phase
func (s *LearningSession) Phase() Phase {
	return s.phase
}

// Size returns the number of items in the batch
func (s *LearningSession) Size() int {
	return len(s.items)
}

// Current returns the item being presented, or nil once completed
func (s *LearningSession) Current() *models.Vocabulary {
	if s.phase == PhaseCompleted || s.index >= len(s.items) {
		return nil
	}
	return &s.items[s.index]
}

// Hint returns the first letter of the current target term
func (s *LearningSession) Hint() string {
	cur := s.Current()
	if cur == nil {
		return ""
	}
	return hintFor(cur.TargetText)
}

// Advance steps through the introduction phase. After the last pair the
// session moves to matching.
func (s *LearningSession) Advance() error {
	if s.phase != PhaseIntroduction {
		return errors.New("not in introduction phase")
	}
	if s.index < len(s.items)-1 {
		s.index++
		return nil
	}
	s.phase = PhaseMatching
	s.index = 0
	return nil
}

// MatchingOptions returns the target terms still to be matched, shuffled
// for presentation. The correct translation is always among them.
func (s *LearningSession) MatchingOptions() []string {
	if s.phase != PhaseMatching {
		return nil
	}
	var options []string
	for _, v := range s.items {
		if !s.matched[v.ID] {
			options = append(options, v.TargetText)
		}
	}
	s.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// SubmitMatch resolves one multiple-choice selection for the current
// item. A wrong pick re-presents the same item (any cooldown is up to
// the caller) and carries no penalty. Matching every pair moves the
// session to production.
func (s *LearningSession) SubmitMatch(option string) (bool, error) {
	if s.phase != PhaseMatching {
		return false, errors.New("not in matching phase")
	}
	cur := s.Current()

	if option != cur.TargetText {
		s.mistakes[cur.ID]++
		return false, nil
	}

	s.matched[cur.ID] = true
	if len(s.matched) == len(s.items) {
		s.phase = PhaseProduction
		s.index = 0
		return true, nil
	}

	// Move on to the next unmatched item
	for i, v := range s.items {
		if !s.matched[v.ID] {
			s.index = i
			break
		}
	}
	return true, nil
}

// SubmitAnswer resolves one free-text recall attempt in the production
// phase. Wrong answers keep the same item current; the user may retry
// indefinitely or force-accept via MarkTypo. A correct answer for the
// last item commits the whole batch.
func (s *LearningSession) SubmitAnswer(text string) (bool, error) {
	if s.phase == PhaseCompleted {
		return false, ErrSessionCompleted
	}
	if s.phase != PhaseProduction {
		return false, errors.New("not in production phase")
	}

	if !checkAnswer(text, s.Current().TargetText) {
		return false, nil
	}
	return true, s.acceptCurrent()
}

// MarkTypo force-accepts the current production answer. The user asserts
// the mismatch was a typo; the session simply proceeds as if the answer
// had been correct.
func (s *LearningSession) MarkTypo() error {
	if s.phase != PhaseProduction {
		return errors.New("not in production phase")
	}
	return s.acceptCurrent()
}

// acceptCurrent moves past the current production item and commits the
// batch once the last one is done.
func (s *LearningSession) acceptCurrent() error {
	if s.index < len(s.items)-1 {
		s.index++
		return nil
	}
	return s.commit()
}

// commit promotes every item in the batch from box 0 to box 1 as one
// logical operation, persisted sequentially. A failure partway leaves a
// deterministic prefix promoted; calling again resumes with the rest.
// The day's newLearned counter grows by the number actually promoted.
func (s *LearningSession) commit() error {
	var commitErr error
	for s.committed < len(s.items) {
		item := s.items[s.committed]
		s.engine.Apply(&item, leitner.Correct)
		if err := s.vocab.Upsert(&item); err != nil {
			commitErr = err
			break
		}
		s.items[s.committed] = item
		s.committed++
	}

	// Count whatever actually got promoted, even on a partial commit
	if s.committed > s.counted {
		if err := s.stats.IncrementDaily(s.committed-s.counted, 0); err != nil {
			if commitErr == nil {
				commitErr = err
			}
		} else {
			s.counted = s.committed
		}
	}

	if commitErr != nil {
		return commitErr
	}
	s.phase = PhaseCompleted
	return nil
}
