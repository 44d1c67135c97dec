// Package engine plays complete hands of No-Limit Hold'em against a seated
// session: blind posting, per-street betting rounds, early finalization when
// the field collapses and record construction with canonical seat numbering.
package engine

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/lox/handgen/internal/bot"
	"github.com/lox/handgen/internal/deck"
	"github.com/lox/handgen/internal/record"
	"github.com/lox/handgen/internal/table"
)

// Engine plays hands. It carries no per-hand state; all mutation happens on
// the session's players and the per-call locals.
type Engine struct {
	logger *log.Logger
}

// New returns an Engine logging under the "engine" prefix.
func New(logger *log.Logger) *Engine {
	return &Engine{logger: logger.WithPrefix("engine")}
}

// PlayHand plays one complete hand at the session's table and returns the
// canonicalized record. commitment, when non-nil, is stamped into the record
// metadata so a consumer can later verify which seeded stream produced it.
//
// Returns table.ErrNotEnoughPlayers when the table cannot field a hand; the
// caller treats that as a skip. Any other error means the hand is defective
// and must be discarded.
func (e *Engine) PlayHand(sess *table.Session, handID string, commitment *string) (*record.Hand, error) {
	players, err := sess.BeginHand()
	if err != nil {
		return nil, err
	}
	cfg := sess.Config()
	rng := sess.RNG()

	// Starting stacks are captured before any chips move.
	starting := make(map[string]int, len(players))
	for _, p := range players {
		starting[p.UID] = p.Stack
	}

	d := deck.New(rng)
	for _, p := range players {
		cards, err := d.Deal(2)
		if err != nil {
			return nil, fmt.Errorf("deal hole cards: %w", err)
		}
		p.HoleCards = cards
	}

	occupied := sess.OccupiedSeats()
	buttonPos := indexOf(occupied, sess.ButtonSeat()-1)
	sbIdx := occupied[(buttonPos+1)%len(occupied)]
	bbIdx := occupied[(buttonPos+2)%len(occupied)]

	alog := &actionLog{bigBlind: cfg.BigBlind}
	postBlind(alog, sess.PlayerAt(sbIdx+1), record.ActionSmallBlind, cfg.SmallBlind)
	bbAmt := postBlind(alog, sess.PlayerAt(bbIdx+1), record.ActionBigBlind, cfg.BigBlind)

	var streets []record.Street
	var board []deck.Card

	finalize := func() (*record.Hand, error) {
		return e.finalize(sess, players, alog, streets, starting, commitment)
	}

	// Preflop: action starts left of the big blind, at the big blind's level.
	preflopOrder := rotateAfter(occupied, bbIdx)
	if err := e.runStreet(sess, players, alog, handID, bot.Preflop, preflopOrder, bbAmt); err != nil {
		return nil, err
	}
	if countUnfolded(players) <= 1 {
		return finalize()
	}
	resetStreetInvestment(players)

	// Postflop streets: action starts left of the button at a fresh level.
	postflopOrder := rotateAfter(occupied, occupied[buttonPos])
	for _, st := range []struct {
		street bot.Street
		deal   int
	}{
		{bot.Flop, 3},
		{bot.Turn, 1},
		{bot.River, 1},
	} {
		cards, err := d.Deal(st.deal)
		if err != nil {
			return nil, fmt.Errorf("deal %s: %w", st.street, err)
		}
		board = append(board, cards...)
		streets = append(streets, record.Street{
			Street:     string(st.street),
			BoardCards: cardCodes(board),
		})

		if err := e.runStreet(sess, players, alog, handID, st.street, postflopOrder, 0); err != nil {
			return nil, err
		}
		if countUnfolded(players) <= 1 {
			return finalize()
		}
		resetStreetInvestment(players)
	}

	return finalize()
}

// runStreet builds the action order for a street and runs its betting round.
func (e *Engine) runStreet(sess *table.Session, players []*table.Player, alog *actionLog, handID string, street bot.Street, seatOrder []int, level int) error {
	var order []*table.Player
	for _, idx := range seatOrder {
		p := sess.PlayerAt(idx + 1)
		if p != nil && !p.Folded {
			order = append(order, p)
		}
	}

	r := &round{
		handID:   handID,
		street:   street,
		bigBlind: sess.Config().BigBlind,
		players:  players,
		order:    order,
		level:    level,
		log:      alog,
		logger:   e.logger,
	}
	return r.run()
}

// finalize settles the pot and builds the canonical record. The showdown
// winner is drawn uniformly among the unfolded players; this data labels
// behavior, not hand equity, so outcomes only need to be plausible.
func (e *Engine) finalize(sess *table.Session, players []*table.Player, alog *actionLog, streets []record.Street, starting map[string]int, commitment *string) (*record.Hand, error) {
	cfg := sess.Config()

	var stillIn []*table.Player
	for _, p := range players {
		if !p.Folded {
			stillIn = append(stillIn, p)
		}
	}
	if len(stillIn) == 0 {
		return nil, fmt.Errorf("no unfolded players at finalization")
	}

	showdown := len(stillIn) > 1
	var winner *table.Player
	reason := record.ReasonFold
	if showdown {
		winner = stillIn[sess.RNG().IntN(len(stillIn))]
		reason = record.ReasonShowdown
	} else {
		winner = stillIn[0]
	}

	rake := roundCents(float64(alog.potShown) * cfg.RakeRate)
	payout := alog.potShown - rake
	winner.Stack += payout

	revealed := make(map[string]bool)
	if showdown {
		for _, p := range stillIn {
			revealed[p.UID] = true
		}
	}
	heroUID := sess.HeroUID()

	sorted := make([]*table.Player, len(players))
	copy(sorted, players)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Seat < sorted[j].Seat })

	recPlayers := make([]record.Player, 0, len(sorted))
	for _, p := range sorted {
		show := (p.UID == heroUID || revealed[p.UID]) && len(p.HoleCards) > 0
		var hole []string
		if show {
			hole = cardCodes(p.HoleCards)
		}
		recPlayers = append(recPlayers, record.Player{
			PlayerUID:     p.UID,
			Seat:          p.Seat,
			StartingStack: dollars(starting[p.UID]),
			HoleCards:     hole,
			ShowedHand:    show,
		})
	}

	ended := "preflop"
	if len(streets) > 0 {
		switch len(streets[len(streets)-1].BoardCards) {
		case 5:
			ended = "river"
		case 4:
			ended = "turn"
		default:
			ended = "flop"
		}
	}

	if streets == nil {
		streets = []record.Street{}
	}

	h := &record.Hand{
		Metadata: record.Metadata{
			GameType:          "Hold'em",
			LimitType:         "No Limit",
			MaxSeats:          cfg.MaxSeats,
			HeroSeat:          sess.HeroSeat(),
			HandEndedOnStreet: ended,
			ButtonSeat:        sess.ButtonSeat(),
			SmallBlind:        dollars(cfg.SmallBlind),
			BigBlind:          dollars(cfg.BigBlind),
			Ante:              0,
			RNGSeedCommitment: commitment,
		},
		Players: recPlayers,
		Streets: streets,
		Actions: alog.actions,
		Outcome: record.Outcome{
			Winners:      []string{winner.UID},
			Payouts:      map[string]float64{winner.UID: dollars(payout)},
			TotalPot:     dollars(alog.potShown),
			Rake:         dollars(rake),
			ResultReason: reason,
			Showdown:     showdown,
		},
		Label: record.LabelBot,
	}
	record.Canonicalize(h)
	return h, nil
}

// postBlind posts a forced blind, clamped to the player's stack, and returns
// the amount actually posted.
func postBlind(alog *actionLog, p *table.Player, actionType string, blind int) int {
	amt := min(blind, p.Stack)
	alog.simple(bot.Preflop, p.Seat, actionType, amt)
	p.Stack -= amt
	p.InvestedThisStreet = amt
	p.TotalInvested = amt
	return amt
}

// rotateAfter returns seats reordered to start just after pivot, with pivot
// acting last.
func rotateAfter(seats []int, pivot int) []int {
	pos := indexOf(seats, pivot)
	if pos < 0 {
		return seats
	}
	out := make([]int, 0, len(seats))
	out = append(out, seats[pos+1:]...)
	out = append(out, seats[:pos+1]...)
	return out
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func countUnfolded(players []*table.Player) int {
	n := 0
	for _, p := range players {
		if !p.Folded {
			n++
		}
	}
	return n
}

func resetStreetInvestment(players []*table.Player) {
	for _, p := range players {
		p.InvestedThisStreet = 0
	}
}

func cardCodes(cards []deck.Card) []string {
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.String()
	}
	return codes
}

func roundCents(v float64) int {
	if v < 0 {
		return -roundCents(-v)
	}
	return int(v + 0.5)
}
