package table

import (
	"github.com/lox/handgen/internal/bot"
	"github.com/lox/handgen/internal/deck"
)

// Player is the mutable per-session state for one seat. Stack persists
// across hands at the same table; hole cards and betting state reset each
// hand. All chip amounts are in cents.
type Player struct {
	UID   string
	Seat  int // 1-based seat number
	Stack int

	Profile bot.Profile
	Agent   bot.Agent

	Folded             bool
	InvestedThisStreet int
	TotalInvested      int
	HandsPlayed        int

	HoleCards    []deck.Card
	HandStrength *float64 // optional oracle signal, normally nil
}

// ResetForHand clears per-hand state before dealing.
func (p *Player) ResetForHand() {
	p.Folded = false
	p.InvestedThisStreet = 0
	p.TotalInvested = 0
	p.HoleCards = nil
	p.HandStrength = nil
	p.HandsPlayed++
}

// IsHero reports whether this player is the session's persistent hero seat.
func (p *Player) IsHero(heroUID string) bool {
	return p.UID == heroUID
}
