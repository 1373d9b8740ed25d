package game

import "fmt"

// Result describes one completed round.
type Result struct {
	Round    int     `json:"round"`
	Player   string  `json:"player"`
	Opponent string  `json:"opponent"`
	Outcome  Outcome `json:"outcome"`
}

// Message is the text shown for the round, e.g. "Rock Vs Scissors".
func (r Result) Message() string {
	return fmt.Sprintf("%s Vs %s", r.Player, r.Opponent)
}

// Tally is the final score of a game.
type Tally struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

// Total returns the number of rounds the tally covers
func (t Tally) Total() int {
	return t.Wins + t.Losses + t.Ties
}

// Lines renders the tally as the three lines of the post-game view.
func (t Tally) Lines() []string {
	return []string{
		fmt.Sprintf("Rounds won: %d", t.Wins),
		fmt.Sprintf("Rounds lost: %d", t.Losses),
		fmt.Sprintf("Rounds tied: %d", t.Ties),
	}
}

// Score is the running win/loss count while a game is in progress. Ties are
// not stored; they are derived from the round count when the game ends.
type Score struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// ViewState is a snapshot of everything an adapter needs to draw the game.
type ViewState struct {
	Status            Status  `json:"status"`
	View              View    `json:"view"`
	RoundCountDisplay string  `json:"roundCountDisplay"`
	RoundCount        int     `json:"roundCount"`
	CurrentRound      int     `json:"currentRound"`
	Score             Score   `json:"score"`
	LastResult        *Result `json:"lastResult,omitempty"`
	ResultsAvailable  bool    `json:"resultsAvailable"`
	Final             *Tally  `json:"final,omitempty"`
}
