// internal/game/types.go
//
// Core type definitions for the Kategorie game.
// Defines:
//   - PlayerAnswers: one player's six category answers.
//   - PlayerData: a player's name, answers and submission metadata.
//   - Config: required letter, category labels, scoring switch.
//   - BreakdownEntry / Results: the per-category score comparison.
//   - Record: the persisted game (both players, config, results).

package game

import "time"

// PlayerAnswers holds one free-text answer per category.
// Empty string means the category was left blank.
type PlayerAnswers struct {
	BoyName  string `json:"boyName"`
	GirlName string `json:"girlName"`
	Animal   string `json:"animal"`
	Place    string `json:"place"`
	Thing    string `json:"thing"`
	Movie    string `json:"movie"`
}

// Values returns the answers in fixed category order.
func (a PlayerAnswers) Values() [CategoryCount]string {
	return [CategoryCount]string{a.BoyName, a.GirlName, a.Animal, a.Place, a.Thing, a.Movie}
}

// With returns a copy of a with the answer at category index i replaced.
// Out-of-range indexes return a unchanged.
func (a PlayerAnswers) With(i int, v string) PlayerAnswers {
	switch i {
	case 0:
		a.BoyName = v
	case 1:
		a.GirlName = v
	case 2:
		a.Animal = v
	case 3:
		a.Place = v
	case 4:
		a.Thing = v
	case 5:
		a.Movie = v
	}
	return a
}

// PlayerData is what a player submits when creating or joining a game.
type PlayerData struct {
	Name        string        `json:"name"`
	Answers     PlayerAnswers `json:"answers"`
	SubmittedAt time.Time     `json:"submittedAt"`
	TimeSpent   int           `json:"timeSpent,omitempty"` // seconds, client-reported
}

// Config describes the rules a game was created with.
type Config struct {
	RequiredLetter string   `json:"requiredLetter"`
	Categories     []string `json:"categories"`
	TimeLimit      int      `json:"timeLimit,omitempty"` // seconds; 0 = none
	ScoringEnabled bool     `json:"scoringEnabled"`
}

// BreakdownEntry is the score detail for a single category.
type BreakdownEntry struct {
	Category      string `json:"category"`
	Player1Points int    `json:"player1Points"`
	Player2Points int    `json:"player2Points"`
	Reason        Reason `json:"reason"`
}

// Results is the outcome of comparing both players' answers.
type Results struct {
	Player1Score int              `json:"player1Score"`
	Player2Score int              `json:"player2Score"`
	Breakdown    []BreakdownEntry `json:"breakdown"`
}

// Record is the persisted unit for one game.
// Player2, Results and CompletedAt stay nil until the second player joins.
type Record struct {
	ID          string      `json:"id"`
	Player1     PlayerData  `json:"player1"`
	Player2     *PlayerData `json:"player2,omitempty"`
	GameConfig  Config      `json:"gameConfig"`
	Results     *Results    `json:"results,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
}

// Completed reports whether a second player has already joined.
func (r *Record) Completed() bool { return r.Player2 != nil }
