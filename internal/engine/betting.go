package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/lox/handgen/internal/bot"
	"github.com/lox/handgen/internal/record"
	"github.com/lox/handgen/internal/table"
)

// ErrRoundStuck means a betting round failed to converge within the sweep
// cap. With sane agents this cannot happen; it indicates a defective agent
// or a broken legal-action computation, so the hand is abandoned rather
// than truncated mid-street.
var ErrRoundStuck = errors.New("engine: betting round did not converge")

// maxRoundSweeps bounds the number of passes over the to-act set.
const maxRoundSweeps = 60

// round runs one street of betting. order holds the players in action order
// for the street; players holds everyone dealt into the hand, folded or not,
// for collapse detection.
type round struct {
	handID   string
	street   bot.Street
	bigBlind int

	players []*table.Player
	order   []*table.Player

	level int // current bet level for the street, cents
	log   *actionLog

	logger *log.Logger
}

// run plays the street to completion. Betting state (stacks, invested
// amounts, fold flags) mutates in place; every action lands in the log.
func (r *round) run() error {
	if r.countContenders() <= 1 {
		return nil
	}

	toAct := make(map[int]bool, len(r.order))
	for i := range r.order {
		toAct[i] = true
	}

	lastAggressor := -1
	var aggressorShown, aggressorTrue int

	for sweep := 0; len(toAct) > 0; sweep++ {
		if sweep >= maxRoundSweeps {
			return fmt.Errorf("%w: street %s after %d sweeps", ErrRoundStuck, r.street, sweep)
		}

		// Membership changes made by a raise apply from the next sweep;
		// within a sweep everyone snapshotted still gets their turn.
		snapshot := sortedKeys(toAct)
		for _, i := range snapshot {
			p := r.order[i]
			if p.Folded || p.Stack <= 0 {
				delete(toAct, i)
				continue
			}

			toCall := r.level - p.InvestedThisStreet
			if toCall < 0 {
				toCall = 0
			}
			dec := r.decide(p, toCall)

			switch dec.Action {
			case bot.Fold:
				p.Folded = true
				r.log.simple(r.street, p.Seat, record.ActionFold, 0)
				delete(toAct, i)

			case bot.Check:
				r.log.simple(r.street, p.Seat, record.ActionCheck, 0)
				delete(toAct, i)

			case bot.Call:
				amt := min(toCall, p.Stack)
				p.Stack -= amt
				p.InvestedThisStreet += amt
				p.TotalInvested += amt
				var callTo *int
				if toCall > 0 {
					callTo = intPtr(r.level)
				}
				r.log.add(entry{
					street: r.street, seat: p.Seat, actionType: record.ActionCall,
					amount: amt, callTo: callTo, deltaTrue: intPtr(amt),
				})
				lastAggressor = -1
				aggressorShown, aggressorTrue = 0, 0
				delete(toAct, i)

			case bot.Bet, bot.Raise:
				increment := min(dec.Amount, p.Stack)
				if r.level == 0 {
					p.Stack -= increment
					p.InvestedThisStreet += increment
					p.TotalInvested += increment
					r.level = increment
					r.log.add(entry{
						street: r.street, seat: p.Seat, actionType: record.ActionBet,
						amount: increment, deltaTrue: intPtr(increment),
					})
					lastAggressor = i
					aggressorShown, aggressorTrue = increment, increment
				} else {
					toInvest := toCall + increment
					if toInvest > p.Stack {
						// All-in for less than a full raise: shrink the
						// increment so chip accounting stays exact.
						toInvest = p.Stack
						increment = toInvest - toCall
					}
					if increment <= 0 {
						// All-in below the call amount, logged as a call.
						amt := min(toCall, p.Stack)
						p.Stack -= amt
						p.InvestedThisStreet += amt
						p.TotalInvested += amt
						r.log.add(entry{
							street: r.street, seat: p.Seat, actionType: record.ActionCall,
							amount: amt, callTo: intPtr(r.level), deltaTrue: intPtr(amt),
						})
						lastAggressor = -1
						aggressorShown, aggressorTrue = 0, 0
						delete(toAct, i)
						break
					}
					p.Stack -= toInvest
					p.InvestedThisStreet += toInvest
					p.TotalInvested += toInvest
					r.level += increment
					// The raise line displays the increment only; the call
					// portion never enters the shown pot.
					r.log.add(entry{
						street: r.street, seat: p.Seat, actionType: record.ActionRaise,
						amount: increment, raiseTo: intPtr(r.level), deltaTrue: intPtr(toInvest),
					})
					lastAggressor = i
					aggressorShown, aggressorTrue = increment, toInvest
				}
				// Aggression reopens the action for everyone else unfolded.
				for j := range r.order {
					if j != i && !r.order[j].Folded {
						toAct[j] = true
					} else {
						delete(toAct, j)
					}
				}
			}

			if r.countUnfolded() <= 1 {
				r.returnUncalled(lastAggressor, aggressorShown, aggressorTrue)
				return nil
			}
		}
	}

	r.returnUncalled(lastAggressor, aggressorShown, aggressorTrue)
	return nil
}

// decide asks the player's agent for an action and guards against illegal
// answers with the check/call/fold fallback chain.
func (r *round) decide(p *table.Player, toCall int) bot.Decision {
	legal := legalActions(p, toCall, r.log.potTrue, r.level, r.bigBlind)

	state := bot.GameState{
		HandID:        r.handID,
		PlayerID:      p.UID,
		Street:        r.street,
		PositionIndex: p.Seat - 1,
		NumPlayers:    r.countUnfolded(),
		Stack:         p.Stack,
		Pot:           r.log.potTrue,
		ToCall:        toCall,
		BigBlind:      r.bigBlind,
		HandStrength:  p.HandStrength,
		HoleCards:     p.HoleCards,
	}
	dec := p.Agent.Act(state, legal)
	if legal.Allows(dec.Action) {
		return dec
	}

	r.logger.Warn("agent returned illegal action",
		"hand", r.handID, "player", p.UID, "street", r.street, "action", dec.Action)
	switch {
	case legal.CanCheck:
		return bot.Decision{Action: bot.Check}
	case legal.CanCall:
		return bot.Decision{Action: bot.Call}
	default:
		return bot.Decision{Action: bot.Fold}
	}
}

// returnUncalled refunds the uncalled portion of the last aggressive action.
// The refund reverses both pot counters by their respective deltas.
func (r *round) returnUncalled(aggressor, shownAmt, trueAmt int) {
	if aggressor < 0 || shownAmt <= 0 {
		return
	}
	r.log.add(entry{
		street: r.street, seat: r.order[aggressor].Seat,
		actionType: record.ActionUncalledBetReturn,
		amount:     shownAmt,
		deltaShown: intPtr(-shownAmt),
		deltaTrue:  intPtr(-trueAmt),
	})
}

func (r *round) countUnfolded() int {
	n := 0
	for _, p := range r.players {
		if !p.Folded {
			n++
		}
	}
	return n
}

func (r *round) countContenders() int {
	n := 0
	for _, p := range r.players {
		if !p.Folded && p.Stack > 0 {
			n++
		}
	}
	return n
}

// legalActions computes the legal action set for a player facing toCall with
// the given true pot and current bet level. All amounts in cents.
func legalActions(p *table.Player, toCall, pot, level, bigBlind int) bot.LegalActions {
	canCheck := toCall == 0

	var minBet, maxBet int
	if canCheck {
		minBet = max(bigBlind, pot/4)
		maxBet = p.Stack
	}

	minRaise := bigBlind
	if toCall > 0 {
		minRaise = toCall + max(bigBlind, level/2)
	}

	return bot.LegalActions{
		CanFold:    toCall > 0,
		CanCheck:   canCheck,
		CanCall:    toCall > 0 && toCall <= p.Stack,
		CallAmount: toCall,
		CanBet:     canCheck && p.Stack >= minBet,
		MinBet:     minBet,
		MaxBet:     maxBet,
		CanRaise:   toCall > 0 && p.Stack >= minRaise,
		MinRaise:   minRaise,
		MaxRaise:   p.Stack,
	}
}

func sortedKeys(m map[int]bool) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
