// internal/flow/flow.go
//
// Step sequencing for the player input flow, independent of any UI.
//
// One State value describes where a player is: entering a name, answering
// category i, reviewing, waiting on the server, or done. Transitions are pure
// methods on a State value that return the next State; invalid input keeps
// the step and sets Error. Both the create flow (ends on StepShare) and the
// join flow (ends on StepResult) use the same sequence.
//
//   name -> answer[0..5] -> review -> submitted -> share | result

package flow

import (
	"github.com/robalobadob/kategorie/internal/game"
)

// Mode selects which terminal step a flow ends on.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeJoin   Mode = "join"
)

// Step is a position in the sequence.
type Step string

const (
	StepName      Step = "name"
	StepAnswer    Step = "answer"
	StepReview    Step = "review"
	StepSubmitted Step = "submitted"
	StepShare     Step = "share"
	StepResult    Step = "result"
)

// State is the whole UI state for one player.
type State struct {
	Mode       Mode               `json:"mode"`
	Step       Step               `json:"step"`
	Category   int                `json:"category"` // index while Step == StepAnswer
	Editing    bool               `json:"editing,omitempty"`
	PlayerName string             `json:"playerName"`
	Answers    game.PlayerAnswers `json:"answers"`
	Error      string             `json:"error,omitempty"`
	Config     game.Config        `json:"config"`
}

// New starts a flow at the name step.
func New(mode Mode, cfg game.Config) State {
	return State{Mode: mode, Step: StepName, Config: cfg}
}

// Done reports whether the flow reached its terminal step.
func (s State) Done() bool { return s.Step == StepShare || s.Step == StepResult }

// Prompt is the label for the current step.
func (s State) Prompt() string {
	switch s.Step {
	case StepName:
		return "Enter your name"
	case StepAnswer:
		if s.Category < len(s.Config.Categories) {
			return s.Config.Categories[s.Category]
		}
		return game.Categories[s.Category].Noun
	case StepReview:
		return "Review your answers"
	case StepSubmitted:
		return "Submitting..."
	case StepShare:
		return "Share the link with a friend"
	case StepResult:
		return "Results"
	}
	return ""
}

// Current returns the saved answer for the category being edited.
func (s State) Current() string {
	if s.Step != StepAnswer {
		return ""
	}
	return s.Answers.Values()[s.Category]
}

// SetName accepts the player name and moves to the first category.
func (s State) SetName(name string) State {
	if s.Step != StepName {
		return s.fail("name can only be set on the name step")
	}
	s.PlayerName = name
	if err := game.ValidateName(name); err != nil {
		return s.fail(err.Error())
	}
	s.Error = ""
	s.Step, s.Category = StepAnswer, 0
	return s
}

// Answer records the entry for the current category and advances.
// The entry is saved even when rejected so the player can edit it.
func (s State) Answer(entry string) State {
	if s.Step != StepAnswer {
		return s.fail("no category is being answered")
	}
	s.Answers = s.Answers.With(s.Category, entry)
	if err := game.ValidateAnswer(entry, s.Config.RequiredLetter); err != nil {
		return s.fail(err.Error())
	}
	s.Error = ""
	if s.Editing {
		s.Editing = false
		s.Step = StepReview
		return s
	}
	if s.Category+1 < game.CategoryCount {
		s.Category++
	} else {
		s.Step = StepReview
	}
	return s
}

// Back moves one step towards the start. It is a no-op on the name step
// and once the game has been submitted. Backing out of an edit returns to
// review.
func (s State) Back() State {
	s.Error = ""
	switch s.Step {
	case StepAnswer:
		if s.Editing {
			s.Editing = false
			s.Step = StepReview
		} else if s.Category == 0 {
			s.Step = StepName
		} else {
			s.Category--
		}
	case StepReview:
		s.Step, s.Category = StepAnswer, game.CategoryCount-1
	}
	return s
}

// Edit jumps from review back to category i. Answering it returns to review.
func (s State) Edit(i int) State {
	if s.Step != StepReview || i < 0 || i >= game.CategoryCount {
		return s.fail("nothing to edit")
	}
	s.Error = ""
	s.Step, s.Category, s.Editing = StepAnswer, i, true
	return s
}

// Submit re-validates everything and hands the player data to the caller.
// ok is false when the state did not move to StepSubmitted.
func (s State) Submit() (next State, p game.PlayerData, ok bool) {
	if s.Step != StepReview {
		return s.fail("answers are not ready to submit"), p, false
	}
	if err := game.ValidateName(s.PlayerName); err != nil {
		s.Step = StepName
		return s.fail(err.Error()), p, false
	}
	if err := game.ValidateAllAnswers(s.Answers, s.Config.RequiredLetter); err != nil {
		if ve, isVE := err.(*game.ValidationError); isVE {
			for i, c := range game.Categories {
				if c.Key == ve.Field {
					s.Step, s.Category, s.Editing = StepAnswer, i, true
				}
			}
		}
		return s.fail(err.Error()), p, false
	}
	s.Error = ""
	s.Step = StepSubmitted
	return s, game.PlayerData{Name: s.PlayerName, Answers: s.Answers}, true
}

// Stored marks the submission as accepted by the server.
func (s State) Stored() State {
	if s.Step != StepSubmitted {
		return s.fail("nothing was submitted")
	}
	s.Error = ""
	if s.Mode == ModeJoin {
		s.Step = StepResult
	} else {
		s.Step = StepShare
	}
	return s
}

// Fail records a server-side rejection and returns to review.
func (s State) Fail(msg string) State {
	if s.Step == StepSubmitted {
		s.Step = StepReview
	}
	return s.fail(msg)
}

// Reset starts over with the same mode and config.
func (s State) Reset() State { return New(s.Mode, s.Config) }

func (s State) fail(msg string) State {
	s.Error = msg
	return s
}
