package bot

import "github.com/lox/handgen/internal/deck"

// Street identifies a betting phase.
type Street string

const (
	Preflop Street = "preflop"
	Flop    Street = "flop"
	Turn    Street = "turn"
	River   Street = "river"
)

// ActionType is a decision the agent can return.
type ActionType string

const (
	Fold  ActionType = "fold"
	Check ActionType = "check"
	Call  ActionType = "call"
	Bet   ActionType = "bet"
	Raise ActionType = "raise"
)

// LegalActions describes what the engine allows at a decision point.
// All amounts are in cents.
type LegalActions struct {
	CanFold    bool
	CanCheck   bool
	CanCall    bool
	CallAmount int

	CanBet bool
	MinBet int
	MaxBet int

	CanRaise bool
	MinRaise int
	MaxRaise int
}

// Allows reports whether an action type is present in the legal set.
func (l LegalActions) Allows(a ActionType) bool {
	switch a {
	case Fold:
		return l.CanFold
	case Check:
		return l.CanCheck
	case Call:
		return l.CanCall
	case Bet:
		return l.CanBet
	case Raise:
		return l.CanRaise
	default:
		return false
	}
}

// GameState is the snapshot the engine hands to the agent at each decision
// point. Monetary fields are in cents. HandStrength is an optional oracle
// signal in [0, 1]; HoleCards, when present, let the agent resolve strength
// from the precomputed table instead.
type GameState struct {
	HandID   string
	PlayerID string

	Street        Street
	PositionIndex int // 0 = earliest, higher = later
	NumPlayers    int

	Stack    int
	Pot      int
	ToCall   int
	BigBlind int

	HandStrength *float64
	HoleCards    []deck.Card
}

// Decision is the agent's chosen action. Amount is in cents and only
// meaningful for bet/raise. Meta carries the features behind the decision for
// dataset logging.
type Decision struct {
	Action ActionType
	Amount int
	Meta   map[string]any
}

// Agent decides actions for a seated player. Implementations must only
// return actions present in the legal set.
type Agent interface {
	Act(state GameState, legal LegalActions) Decision
}
