package game

import "fmt"

// Status is the lifecycle phase of a game. It only moves forward:
// PreGame, then InGame, then PostGame. PlayAgain is the one way back.
type Status int

const (
	PreGame Status = iota
	InGame
	PostGame
)

// String returns the wire name of the status
func (s Status) String() string {
	switch s {
	case PreGame:
		return "pre_game"
	case InGame:
		return "in_game"
	case PostGame:
		return "post_game"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(b []byte) error {
	for _, candidate := range []Status{PreGame, InGame, PostGame} {
		if candidate.String() == string(b) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

// View identifies which of the three display regions is visible. It usually
// tracks Status, except under the gated results policy where the in-game
// view stays up after the last round until results are requested.
type View int

const (
	ViewPreGame View = iota
	ViewInGame
	ViewPostGame
)

// String returns the wire name of the view
func (v View) String() string {
	switch v {
	case ViewPreGame:
		return "pre_game"
	case ViewInGame:
		return "in_game"
	case ViewPostGame:
		return "post_game"
	default:
		return "unknown"
	}
}

// MarshalText encodes the view by name.
func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a view name.
func (v *View) UnmarshalText(b []byte) error {
	for _, candidate := range []View{ViewPreGame, ViewInGame, ViewPostGame} {
		if candidate.String() == string(b) {
			*v = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown view %q", b)
}

// ResultsPolicy decides what happens when the final round completes.
type ResultsPolicy int

const (
	// ResultsGated keeps the in-game view visible and exposes a "view
	// results" affordance; StopGame switches to the post-game view.
	ResultsGated ResultsPolicy = iota
	// ResultsImmediate switches to the post-game view as soon as the last
	// round is played.
	ResultsImmediate
)

// String returns the config name of the policy
func (p ResultsPolicy) String() string {
	switch p {
	case ResultsGated:
		return "gated"
	case ResultsImmediate:
		return "immediate"
	default:
		return "unknown"
	}
}

// ParseResultsPolicy converts a config value into a ResultsPolicy.
func ParseResultsPolicy(s string) (ResultsPolicy, bool) {
	switch s {
	case "gated", "":
		return ResultsGated, true
	case "immediate":
		return ResultsImmediate, true
	default:
		return ResultsGated, false
	}
}
