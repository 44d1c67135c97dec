package generator

import "sync"

// Counts is a plain snapshot of the run counters, safe to copy and to embed
// in results.
type Counts struct {
	Played   int // hands successfully generated
	Skipped  int // hands the table could not field
	Invalid  int // hands rejected by the validator
	Selected int // hands in the final subsample

	Showdowns int
	FoldWins  int

	Sessions int
}

// Stats aggregates counters across a generation run. Safe for concurrent
// update from parallel session workers; read via Snapshot.
type Stats struct {
	mu sync.Mutex
	c  Counts
}

func (s *Stats) addHand(showdown bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Played++
	if showdown {
		s.c.Showdowns++
	} else {
		s.c.FoldWins++
	}
}

func (s *Stats) addSkipped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Skipped++
}

func (s *Stats) addInvalid() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Invalid++
}

func (s *Stats) addSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Sessions++
}

func (s *Stats) setSelected(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Selected = n
}

// Snapshot returns a copy of the counters, safe to read while workers are
// still running.
func (s *Stats) Snapshot() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c
}
