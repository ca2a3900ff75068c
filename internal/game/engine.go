// internal/game/engine.go
//
// Scoring engine for a finished Kategorie game.
// Responsibilities:
//   - Compare both players' answers category by category.
//   - Award points per category and record why.
//   - Sum the per-category points into totals.
//
// Notes:
//   - Answers are normalized by trimming and lower-casing only; "Bear" and
//     "Bears" are different answers.
//   - The starting-letter rule is not re-checked here; callers validate first.
package game

import "strings"

// Reason explains how a category was scored.
type Reason string

const (
	ReasonBothEmpty Reason = "Both empty"
	ReasonOnlyP2    Reason = "Only Player 2 answered"
	ReasonOnlyP1    Reason = "Only Player 1 answered"
	ReasonSame      Reason = "Same answer"
	ReasonDifferent Reason = "Different answers"
)

const (
	pointsShared = 5
	pointsUnique = 10
)

// CalculateScore compares two answer sets and returns per-category points
// plus totals. It never fails; blank answers are scored, not rejected.
func CalculateScore(p1, p2 PlayerAnswers) Results {
	a, b := p1.Values(), p2.Values()
	res := Results{Breakdown: make([]BreakdownEntry, 0, CategoryCount)}

	for i, c := range Categories {
		p1Points, p2Points, reason := scoreCategory(normalize(a[i]), normalize(b[i]))
		res.Player1Score += p1Points
		res.Player2Score += p2Points
		res.Breakdown = append(res.Breakdown, BreakdownEntry{
			Category:      c.Noun,
			Player1Points: p1Points,
			Player2Points: p2Points,
			Reason:        reason,
		})
	}
	return res
}

// scoreCategory classifies one pair of normalized answers.
func scoreCategory(a, b string) (int, int, Reason) {
	switch {
	case a == "" && b == "":
		return 0, 0, ReasonBothEmpty
	case a == "":
		return 0, pointsShared, ReasonOnlyP2
	case b == "":
		return pointsShared, 0, ReasonOnlyP1
	case a == b:
		return pointsShared, pointsShared, ReasonSame
	default:
		return pointsUnique, pointsUnique, ReasonDifferent
	}
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
