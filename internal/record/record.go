// Package record defines the canonical JSON shape of a completed hand and the
// validators that keep generated data consistent with it. The struct field
// sets mirror the wire format exactly; the runtime validator re-checks the
// key sets on marshalled JSON for cross-language compatibility.
package record

// Hand is the canonical record of one completed hand. It is built once by
// the engine and is immutable after canonicalization.
type Hand struct {
	Metadata Metadata `json:"metadata"`
	Players  []Player `json:"players"`
	Streets  []Street `json:"streets"`
	Actions  []Action `json:"actions"`
	Outcome  Outcome  `json:"outcome"`
	Label    string   `json:"label"`
}

// Metadata describes the game context for a hand.
type Metadata struct {
	GameType          string  `json:"game_type"`
	LimitType         string  `json:"limit_type"`
	MaxSeats          int     `json:"max_seats"`
	HeroSeat          int     `json:"hero_seat"`
	HandEndedOnStreet string  `json:"hand_ended_on_street"`
	ButtonSeat        int     `json:"button_seat"`
	SmallBlind        float64 `json:"sb"`
	BigBlind          float64 `json:"bb"`
	Ante              float64 `json:"ante"`
	RNGSeedCommitment *string `json:"rng_seed_commitment"`
}

// Player is a hand participant. HoleCards is null unless the player showed
// (hero always shows in bot data; showdown participants show).
type Player struct {
	PlayerUID     string   `json:"player_uid"`
	Seat          int      `json:"seat"`
	StartingStack float64  `json:"starting_stack"`
	HoleCards     []string `json:"hole_cards"`
	ShowedHand    bool     `json:"showed_hand"`
}

// Street is a dealt board state. The board is cumulative: flop=3, turn=4,
// river=5 cards. Preflop has no street entry.
type Street struct {
	Street     string   `json:"street"`
	BoardCards []string `json:"board_cards"`
}

// Action is one append-only entry in the hand's action log. Amounts are in
// currency units rounded to 2 decimals; NormalizedAmountBB to 1 decimal.
type Action struct {
	ActionID           string   `json:"action_id"`
	Street             string   `json:"street"`
	ActorSeat          int      `json:"actor_seat"`
	ActionType         string   `json:"action_type"`
	Amount             float64  `json:"amount"`
	RaiseTo            *float64 `json:"raise_to"`
	CallTo             *float64 `json:"call_to"`
	NormalizedAmountBB float64  `json:"normalized_amount_bb"`
	PotBefore          float64  `json:"pot_before"`
	PotAfter           float64  `json:"pot_after"`
}

// Outcome is the hand result. sum(Payouts) + Rake == TotalPot within 0.01.
type Outcome struct {
	Winners      []string           `json:"winners"`
	Payouts      map[string]float64 `json:"payouts"`
	TotalPot     float64            `json:"total_pot"`
	Rake         float64            `json:"rake"`
	ResultReason string             `json:"result_reason"`
	Showdown     bool               `json:"showdown"`
}

// Action type strings used in the log.
const (
	ActionSmallBlind        = "small_blind"
	ActionBigBlind          = "big_blind"
	ActionFold              = "fold"
	ActionCheck             = "check"
	ActionCall              = "call"
	ActionBet               = "bet"
	ActionRaise             = "raise"
	ActionUncalledBetReturn = "uncalled_bet_return"
)

// Result reasons.
const (
	ReasonShowdown = "showdown"
	ReasonFold     = "fold"
)

// Labels for the ground-truth field.
const (
	LabelBot   = "bot"
	LabelHuman = "human"
)
