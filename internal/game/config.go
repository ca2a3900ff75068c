package game

import "strings"

// CategoryCount is the fixed number of answer slots per player.
const CategoryCount = 6

// DefaultLetter is used when no required letter is configured.
const DefaultLetter = "b"

// Category names a single answer slot: its JSON field key and the noun
// used in labels and score breakdowns.
type Category struct {
	Key  string
	Noun string
}

// Categories lists the answer slots in fixed order. Index i matches
// PlayerAnswers.Values()[i].
var Categories = [CategoryCount]Category{
	{Key: "boyName", Noun: "Boy Name"},
	{Key: "girlName", Noun: "Girl Name"},
	{Key: "animal", Noun: "Animal"},
	{Key: "place", Noun: "Place"},
	{Key: "thing", Noun: "Thing"},
	{Key: "movie", Noun: "Movie"},
}

// Labels builds the display labels ("Animal That Starts With B") for letter.
func Labels(letter string) []string {
	if letter == "" {
		letter = DefaultLetter
	}
	up := strings.ToUpper(letter)
	out := make([]string, 0, CategoryCount)
	for _, c := range Categories {
		out = append(out, c.Noun+" That Starts With "+up)
	}
	return out
}

// NewConfig returns a Config for letter with labels derived from it.
func NewConfig(letter string, scoring bool, timeLimit int) Config {
	if letter == "" {
		letter = DefaultLetter
	}
	letter = strings.ToLower(letter)
	return Config{
		RequiredLetter: letter,
		Categories:     Labels(letter),
		TimeLimit:      timeLimit,
		ScoringEnabled: scoring,
	}
}

// DefaultConfig is the classic "B" game with scoring on and no time limit.
func DefaultConfig() Config { return NewConfig(DefaultLetter, true, 0) }
