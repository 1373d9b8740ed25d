package server

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lox/roshambo/internal/game"
	"github.com/lox/roshambo/internal/statistics"
)

// Stats aggregates results across every session served by this process
type Stats struct {
	mu    sync.RWMutex
	stats *statistics.Statistics
}

// NewStats creates an empty Stats
func NewStats() *Stats {
	return &Stats{stats: statistics.New()}
}

// RecordRound records the last round carried by state
func (s *Stats) RecordRound(state game.ViewState) {
	if state.LastResult == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.AddRound(*state.LastResult)
}

// RecordGame records a finished game
func (s *Stats) RecordGame(t game.Tally) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Add(statistics.GameResult{Tally: t})
}

// Snapshot returns a copy of the aggregated statistics
func (s *Stats) Snapshot() *statistics.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats.Clone()
}

// Report renders the stats endpoint body
func (s *Stats) Report(sessions int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions: %d\n", sessions)
	b.WriteString(s.Snapshot().Summary())
	return b.String()
}
