package engine

import (
	"math"
	"strconv"

	"github.com/lox/handgen/internal/bot"
	"github.com/lox/handgen/internal/record"
)

// actionLog accumulates the hand's action entries and runs the two pot
// counters. potTrue is the actual chip accounting; potShown is the pot the
// record displays, which excludes the call portion of raises to match human
// hand history semantics. Internally everything is cents; entries are
// converted to display units as they are appended.
type actionLog struct {
	bigBlind int

	actions  []record.Action
	potShown int
	potTrue  int
	nextID   int
}

// entry is one pending log line. amount is the displayed amount in cents.
// deltaShown/deltaTrue override the pot movements when they differ from the
// displayed amount (raises and uncalled returns); nil means "same as amount".
type entry struct {
	street     bot.Street
	seat       int
	actionType string
	amount     int
	raiseTo    *int
	callTo     *int
	deltaShown *int
	deltaTrue  *int
}

func (l *actionLog) add(e entry) {
	deltaShown := e.amount
	if e.deltaShown != nil {
		deltaShown = *e.deltaShown
	}
	deltaTrue := deltaShown
	if e.deltaTrue != nil {
		deltaTrue = *e.deltaTrue
	}

	l.nextID++
	l.actions = append(l.actions, record.Action{
		ActionID:           strconv.Itoa(l.nextID),
		Street:             string(e.street),
		ActorSeat:          e.seat,
		ActionType:         e.actionType,
		Amount:             dollars(e.amount),
		RaiseTo:            dollarsPtr(e.raiseTo),
		CallTo:             dollarsPtr(e.callTo),
		NormalizedAmountBB: roundTo(float64(e.amount)/float64(l.bigBlind), 1),
		PotBefore:          dollars(l.potShown),
		PotAfter:           dollars(l.potShown + deltaShown),
	})
	l.potShown += deltaShown
	l.potTrue += deltaTrue
}

// simple appends an entry whose displayed amount moves both pots equally
// (blinds, bets, folds, checks).
func (l *actionLog) simple(street bot.Street, seat int, actionType string, amount int) {
	l.add(entry{street: street, seat: seat, actionType: actionType, amount: amount})
}

func dollars(cents int) float64 {
	return roundTo(float64(cents)/100, 2)
}

func dollarsPtr(cents *int) *float64 {
	if cents == nil {
		return nil
	}
	v := dollars(*cents)
	return &v
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func intPtr(v int) *int { return &v }
