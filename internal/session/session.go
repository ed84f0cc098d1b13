// Package session drives bounded learning and review interactions over
// items chosen by the scheduler. Sessions are single-writer: every
// durable write is completed before the next user-visible step.
package session

import "strings"

// checkAnswer compares a typed answer against the expected target term.
// Matching is case-insensitive and ignores surrounding whitespace.
func checkAnswer(input, target string) bool {
	return strings.EqualFold(strings.TrimSpace(input), strings.TrimSpace(target))
}

// hintFor returns the first letter of the target term, used by the
// presentation layer as an optional hint.
func hintFor(target string) string {
	t := []rune(strings.TrimSpace(target))
	if len(t) == 0 {
		return ""
	}
	return strings.ToUpper(string(t[0]))
}
