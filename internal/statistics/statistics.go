// Package statistics aggregates the tallies of many games.
package statistics

import (
	"fmt"
	"maps"
	"math"
	"sort"
	"strings"

	"github.com/lox/roshambo/internal/game"
)

// GameResult is the outcome of one finished game
type GameResult struct {
	Tally game.Tally
	Seed  int64 // RNG seed for this game (for replay)
}

// Statistics tracks results across games. Net is wins minus losses for a
// game, the per-game value used for the mean and spread.
type Statistics struct {
	Games  int
	Rounds int
	Wins   int
	Losses int
	Ties   int

	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Net per game for median/percentile calculation

	PlayerMoves   map[string]int
	OpponentMoves map[string]int
	Outcomes      map[game.Outcome]int
}

// New returns an empty Statistics ready for use
func New() *Statistics {
	return &Statistics{
		PlayerMoves:   make(map[string]int),
		OpponentMoves: make(map[string]int),
		Outcomes:      make(map[game.Outcome]int),
	}
}

// AddRound records the moves and outcome of one round
func (s *Statistics) AddRound(r game.Result) {
	s.PlayerMoves[r.Player]++
	s.OpponentMoves[r.Opponent]++
	s.Outcomes[r.Outcome]++
}

// Add incorporates a finished game
func (s *Statistics) Add(result GameResult) {
	t := result.Tally
	net := float64(t.Wins - t.Losses)

	s.Games++
	s.Rounds += t.Total()
	s.Wins += t.Wins
	s.Losses += t.Losses
	s.Ties += t.Ties
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Games += other.Games
	s.Rounds += other.Rounds
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Ties += other.Ties
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	for k, v := range other.PlayerMoves {
		s.PlayerMoves[k] += v
	}
	for k, v := range other.OpponentMoves {
		s.OpponentMoves[k] += v
	}
	for k, v := range other.Outcomes {
		s.Outcomes[k] += v
	}
}

// Clone returns a deep copy
func (s *Statistics) Clone() *Statistics {
	c := New()
	c.Merge(s)
	return c
}

// WinRate returns the fraction of rounds won
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// Mean returns the mean net result per game
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumNet / float64(s.Games)
}

// Variance returns the sample variance of the net result
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median net result
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the net result at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks that the ledger is consistent
func (s *Statistics) Validate() error {
	if s.Wins+s.Losses+s.Ties != s.Rounds {
		return fmt.Errorf("ledger mismatch: wins=%d losses=%d ties=%d rounds=%d",
			s.Wins, s.Losses, s.Ties, s.Rounds)
	}
	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)",
			len(s.Values), s.Games)
	}
	if math.Abs(s.SumNet-float64(s.Wins-s.Losses)) > 1e-6 {
		return fmt.Errorf("net mismatch: sum=%.2f wins-losses=%d", s.SumNet, s.Wins-s.Losses)
	}
	return nil
}

// Summary renders a plain-text report
func (s *Statistics) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Games: %d\n", s.Games)
	fmt.Fprintf(&b, "Rounds: %d\n", s.Rounds)
	fmt.Fprintf(&b, "Wins: %d  Losses: %d  Ties: %d\n", s.Wins, s.Losses, s.Ties)
	fmt.Fprintf(&b, "Win rate: %.1f%%\n", s.WinRate()*100)
	if s.Games > 0 {
		low, high := s.ConfidenceInterval95()
		fmt.Fprintf(&b, "Net per game: %.3f (95%% CI %.3f to %.3f)\n", s.Mean(), low, high)
	}
	if len(s.OpponentMoves) > 0 {
		b.WriteString("Opponent moves:\n")
		for _, move := range sortedKeys(s.OpponentMoves) {
			fmt.Fprintf(&b, "  %s: %d\n", move, s.OpponentMoves[move])
		}
	}
	return b.String()
}

// Report is the machine-readable form of a Statistics
type Report struct {
	Games         int            `json:"games"`
	Rounds        int            `json:"rounds"`
	Wins          int            `json:"wins"`
	Losses        int            `json:"losses"`
	Ties          int            `json:"ties"`
	WinRate       float64        `json:"winRate"`
	MeanNet       float64        `json:"meanNet"`
	StdDev        float64        `json:"stdDev"`
	CILow         float64        `json:"ciLow"`
	CIHigh        float64        `json:"ciHigh"`
	PlayerMoves   map[string]int `json:"playerMoves"`
	OpponentMoves map[string]int `json:"opponentMoves"`
}

// Report snapshots the aggregate figures
func (s *Statistics) Report() Report {
	low, high := s.ConfidenceInterval95()
	return Report{
		Games:         s.Games,
		Rounds:        s.Rounds,
		Wins:          s.Wins,
		Losses:        s.Losses,
		Ties:          s.Ties,
		WinRate:       s.WinRate(),
		MeanNet:       s.Mean(),
		StdDev:        s.StdDev(),
		CILow:         low,
		CIHigh:        high,
		PlayerMoves:   maps.Clone(s.PlayerMoves),
		OpponentMoves: maps.Clone(s.OpponentMoves),
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
