package leitner

import (
	"math/rand"
	"time"

	"github.com/example/vocabbox/pkg/models"
)

// Outcome is the result of a single recall attempt. There are exactly two
// outcomes; a typo override is the caller choosing to submit Correct for
// a nominally wrong answer, not a third outcome.
type Outcome int

const (
	// Incorrect sends the item back to the first active box
	Incorrect Outcome = iota
	// Correct advances the item one box, up to mastered
	Correct
)

// Engine implements the Leitner box scheduling rules. It is pure decision
// logic: it mutates items in memory and performs no I/O.
type Engine struct {
	now func() time.Time
	rnd *rand.Rand
}

// New creates an engine with the default clock and a time-seeded
// random source for learning-batch selection.
func New() *Engine {
	return &Engine{
		now: time.Now,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewWithClock creates an engine with a fixed clock and random source.
// Used by tests that need deterministic transitions.
func NewWithClock(now func() time.Time, rnd *rand.Rand) *Engine {
	return &Engine{now: now, rnd: rnd}
}

// Apply computes the item's next box and next review time for the given
// outcome and records the attempt on its counters.
//
// Correct moves the item up one box; reaching box 6 retires it and clears
// the pending review. Incorrect is a hard reset to box 1 regardless of
// the current box - a wrong answer restarts the active cycle rather than
// stepping back one box.
func (e *Engine) Apply(v *models.Vocabulary, outcome Outcome) {
	now := e.now()

	if outcome == Correct {
		v.TimesCorrect++
		if v.Box < models.BoxMastered {
			v.Box++
		}
	} else {
		v.TimesIncorrect++
		v.Box = models.BoxFirst
	}

	if v.Box == models.BoxMastered {
		v.NextReview = nil
	} else {
		next := now.AddDate(0, 0, BoxIntervals[v.Box])
		v.NextReview = &next
	}

	v.LastReviewed = &now
	v.UpdatedAt = now
}

// SelectForLearning picks up to count box-0 items from active lists,
// uniformly at random without replacement. Returning fewer than count
// (or none at all) simply means there is nothing more to learn.
func (e *Engine) SelectForLearning(items []models.Vocabulary, activeLists map[string]bool, count int) []models.Vocabulary {
	var candidates []models.Vocabulary
	for _, v := range items {
		if v.Box == models.BoxNew && activeLists[v.ListID] {
			candidates = append(candidates, v)
		}
	}

	e.rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	if len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates
}

// SelectForReview returns every item in an active box whose review time
// has arrived. A missing next review time counts as due now. Boxes 0 and
// 6 are never offered: 0 has not been introduced, 6 is retired for good.
func (e *Engine) SelectForReview(items []models.Vocabulary, activeLists map[string]bool) []models.Vocabulary {
	now := e.now()

	var due []models.Vocabulary
	for _, v := range items {
		if !v.InActiveCycle() || !activeLists[v.ListID] {
			continue
		}
		if v.NextReview == nil || !v.NextReview.After(now) {
			due = append(due, v)
		}
	}
	return due
}
