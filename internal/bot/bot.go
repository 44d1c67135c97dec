// Package bot implements the rule-based decision agent that drives hand
// generation. The agent is a pure function of (profile, rng stream, game
// state, legal action set) apart from its RNG draws: it never blocks, never
// errors, and always returns an action present in the legal set.
package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/handgen/internal/strength"
)

// Strength bucket names recorded in decision metadata.
const (
	bucketWeak   = "weak"
	bucketMedium = "medium"
	bucketStrong = "strong"
)

// Bot is a rule-based agent configured by a Profile. Decision logic is
// intentionally simple; the profiles exist to generate many distinct
// behavioral patterns for the dataset.
type Bot struct {
	profile   Profile
	rng       *rand.Rand
	strengths strength.Table
	logger    *log.Logger

	stats Stats
}

// Stats is the agent's session bookkeeping.
type Stats struct {
	DecisionsSeen     int
	AggressiveActions int
}

// New creates an agent. A nil strengths table is allowed and degrades to the
// pseudo-random strength path.
func New(profile Profile, rng *rand.Rand, strengths strength.Table, logger *log.Logger) *Bot {
	return &Bot{
		profile:   profile,
		rng:       rng,
		strengths: strengths,
		logger:    logger.WithPrefix("bot"),
	}
}

// Stats returns the agent's decision counters.
func (b *Bot) Stats() Stats {
	return b.stats
}

// Act is the main decision entrypoint.
func (b *Bot) Act(state GameState, legal LegalActions) Decision {
	b.stats.DecisionsSeen++

	// Resolve hand strength from the precomputed table when hole cards are
	// available; an oracle-provided value is used otherwise.
	hs := state.HandStrength
	if len(state.HoleCards) == 2 {
		if s, ok := b.strengths.Lookup(state.HoleCards[0], state.HoleCards[1]); ok {
			hs = &s
		}
	}

	posFactor := positionFactor(state.PositionIndex, state.NumPlayers)
	potOdds := potOdds(state.ToCall, state.Pot)
	bucket := bucketStrength(hs, posFactor)

	var decision Decision
	if state.Street == Preflop {
		decision = b.decidePreflop(state, legal, bucket, posFactor, potOdds, hs)
	} else {
		decision = b.decidePostflop(state, legal, bucket, posFactor, potOdds, hs)
	}

	if decision.Meta == nil {
		decision.Meta = map[string]any{}
	}
	decision.Meta["profile"] = b.profile.Name
	decision.Meta["pos_factor"] = round3(posFactor)
	decision.Meta["pot_odds"] = round3(potOdds)
	if hs != nil {
		decision.Meta["hand_strength"] = round3(*hs)
	}
	decision.Meta["strength_bucket"] = bucket
	decision.Meta["street"] = string(state.Street)

	if decision.Action == Bet || decision.Action == Raise {
		b.stats.AggressiveActions++
	}

	b.logger.Debug("decision",
		"player", state.PlayerID,
		"street", state.Street,
		"action", decision.Action,
		"amount", decision.Amount,
		"bucket", bucket,
		"pot_odds", round3(potOdds))

	return decision
}

func (b *Bot) decidePreflop(state GameState, legal LegalActions, bucket string, posFactor, potOdds float64, hs *float64) Decision {
	opening := state.ToCall == 0 && legal.CanCheck

	// Later position plays slightly looser.
	playThreshold := b.profile.Tightness - 0.10*posFactor

	if hs == nil {
		pseudo := b.rng.Float64()*0.65 + 0.35*posFactor
		if pseudo < playThreshold && legal.CanFold {
			return reasoned(Fold, 0, "preflop_pseudo_fold")
		}
		bucket = bucketMedium
		hs = &pseudo
	}

	if bucket == bucketWeak {
		if state.ToCall > 0 && legal.CanFold {
			threatLevel := float64(state.ToCall) / float64(max(1, state.BigBlind))
			if threatLevel > 4 {
				return reasoned(Fold, 0, "weak_fold_big_raise")
			}
			// Good pot odds in late position defend sometimes.
			if potOdds < 0.18 && posFactor > 0.6 && b.rng.Float64() > 0.6 {
				if legal.CanCall {
					return reasoned(Call, state.ToCall, "weak_defend_good_odds")
				}
				return reasoned(Fold, 0, "weak_defend_good_odds")
			}
			return reasoned(Fold, 0, "weak_fold")
		}
		if opening && legal.CanCheck {
			return reasoned(Check, 0, "weak_check_opening")
		}
	}

	if bucket == bucketMedium {
		if opening {
			if legal.CanBet && b.rng.Float64() < 0.25+0.55*b.profile.Aggression*posFactor {
				return reasoned(Bet, b.sizeOpenRaise(state, legal, false), "medium_open_bet")
			}
			return reasoned(Check, 0, "medium_check_opening")
		}
		if legal.CanCall {
			if b.riskTooHigh(state.ToCall, state.Stack) && legal.CanFold {
				return reasoned(Fold, 0, "medium_fold_risk_cap")
			}
			if potOdds < 0.25 || *hs > 0.5 {
				return reasoned(Call, state.ToCall, "medium_call")
			}
			if legal.CanFold {
				return reasoned(Fold, 0, "medium_fold_bad_odds")
			}
		}
	}

	if bucket == bucketStrong {
		if opening {
			if legal.CanBet {
				return reasoned(Bet, b.sizeOpenRaise(state, legal, true), "strong_open_bet")
			}
			return reasoned(Check, 0, "strong_check_fallback")
		}
		if legal.CanRaise && b.rng.Float64() < 0.35+0.55*b.profile.Aggression {
			return reasoned(Raise, b.sizeRaise(state, legal, true), "strong_reraise")
		}
		if legal.CanCall {
			return reasoned(Call, state.ToCall, "strong_call")
		}
	}

	return b.fallback(state, legal, "preflop")
}

func (b *Bot) decidePostflop(state GameState, legal LegalActions, bucket string, posFactor, potOdds float64, hs *float64) Decision {
	var hsv float64
	if hs == nil {
		hsv = 0.25 + 0.50*b.rng.Float64()
		bucket = bucketStrength(&hsv, posFactor)
	} else {
		hsv = *hs
	}

	facingBet := state.ToCall > 0 && legal.CanCall

	var threatLevel float64
	if facingBet {
		threatLevel = float64(state.ToCall) / float64(max(1, state.BigBlind))
	}

	if bucket == bucketWeak {
		// Bluff opportunity.
		if !facingBet && (legal.CanBet || legal.CanRaise) {
			if b.rng.Float64() < b.profile.BluffFreq*(0.6+0.6*posFactor)*(1+b.profile.TiltFactor) {
				if legal.CanBet {
					return reasoned(Bet, b.sizeBet(state, legal, sizeSmall), "weak_bluff")
				}
				return reasoned(Raise, b.sizeRaise(state, legal, false), "weak_bluff")
			}
		}
		if facingBet {
			adjusted := hsv
			if threatLevel > 4 {
				adjusted = max(0, hsv-0.17)
			}
			if potOdds < 0.14 && adjusted >= potOdds*0.8 {
				return reasoned(Call, state.ToCall, "weak_peel_good_odds")
			}
			if legal.CanFold {
				return reasoned(Fold, 0, "weak_fold_postflop")
			}
		}
		if legal.CanCheck {
			return reasoned(Check, 0, "weak_check")
		}
	}

	if bucket == bucketMedium {
		if facingBet {
			if b.riskTooHigh(state.ToCall, state.Stack) && legal.CanFold {
				return reasoned(Fold, 0, "medium_fold_risk_cap_postflop")
			}
			if hsv >= potOdds {
				if legal.CanRaise && hsv > 0.55 && b.rng.Float64() < 0.12+0.25*b.profile.Aggression*posFactor {
					return reasoned(Raise, b.sizeRaise(state, legal, false), "medium_raise_semibluff")
				}
				return reasoned(Call, state.ToCall, "medium_call_postflop")
			}
			if legal.CanFold {
				return reasoned(Fold, 0, "medium_fold_bad_odds")
			}
		}
		if legal.CanBet && b.rng.Float64() < 0.25+0.35*b.profile.Aggression {
			return reasoned(Bet, b.sizeBet(state, legal, sizeMedium), "medium_value_bet")
		}
		if legal.CanCheck {
			return reasoned(Check, 0, "medium_check")
		}
	}

	if bucket == bucketStrong {
		isLateStreet := state.Street == Turn || state.Street == River

		if facingBet && legal.CanRaise && b.rng.Float64() < 0.35+0.45*b.profile.Aggression {
			return reasoned(Raise, b.sizeRaise(state, legal, true), "strong_raise_value")
		}
		if facingBet && legal.CanCall {
			return reasoned(Call, state.ToCall, "strong_call_trap")
		}
		if !facingBet && legal.CanBet {
			size := sizeMedium
			if isLateStreet && hsv > 0.75 {
				size = sizeLarge
			}
			return reasoned(Bet, b.sizeBet(state, legal, size), "strong_value_bet")
		}
	}

	return b.fallback(state, legal, "postflop")
}

// fallback is the guaranteed-legal chain: check, else call, else fold.
func (b *Bot) fallback(state GameState, legal LegalActions, phase string) Decision {
	if legal.CanCheck {
		return reasoned(Check, 0, phase+"_fallback_check")
	}
	if legal.CanCall {
		return reasoned(Call, state.ToCall, phase+"_fallback_call")
	}
	return reasoned(Fold, 0, phase+"_fallback_fold")
}

type betSize int

const (
	sizeSmall betSize = iota
	sizeMedium
	sizeLarge
)

func (b *Bot) sizeOpenRaise(state GameState, legal LegalActions, strong bool) int {
	bb := max(1, state.BigBlind)
	mult := 2.4
	if strong {
		mult = 2.9
	}
	amt := int(mult * float64(bb))
	amt += b.rng.IntN(max(1, int(0.6*float64(bb))) + 1)
	if legal.CanBet {
		return clamp(amt, legal.MinBet, legal.MaxBet)
	}
	return amt
}

func (b *Bot) sizeBet(state GameState, legal LegalActions, size betSize) int {
	if !legal.CanBet {
		return 0
	}
	pot := max(1, state.Pot)
	var frac float64
	switch size {
	case sizeSmall:
		frac = b.profile.BetPotFractionSmall
	case sizeLarge:
		frac = b.profile.BetPotFractionLarge
	default:
		frac = b.profile.BetPotFractionMedium
	}
	amt := int(float64(pot) * frac)
	amt += b.rng.IntN(max(1, int(0.08*float64(pot))) + 1)
	return clamp(amt, legal.MinBet, legal.MaxBet)
}

func (b *Bot) sizeRaise(state GameState, legal LegalActions, large bool) int {
	if !legal.CanRaise {
		return 0
	}
	pot := max(1, state.Pot)
	frac := 0.40
	if large {
		frac = 0.65
	}
	amt := state.ToCall + int(float64(pot)*frac)
	amt += b.rng.IntN(max(1, int(0.06*float64(pot))) + 1)
	return clamp(amt, legal.MinRaise, legal.MaxRaise)
}

func (b *Bot) riskTooHigh(amount, stack int) bool {
	if stack <= 0 {
		return true
	}
	return float64(amount)/float64(stack) > b.profile.MaxRiskFraction
}

func positionFactor(positionIndex, numPlayers int) float64 {
	if numPlayers <= 1 {
		return 0.5
	}
	f := float64(positionIndex) / float64(numPlayers-1)
	return clampFloat(f, 0, 1)
}

// potOdds is to_call / (pot + to_call), clamped to [0, 1]. Lower is better
// for calling.
func potOdds(toCall, pot int) float64 {
	denom := pot + max(0, toCall)
	if denom <= 0 {
		return 1.0
	}
	return clampFloat(float64(toCall)/float64(denom), 0, 1)
}

// bucketStrength converts a strength signal into weak/medium/strong. The
// thresholds shift slightly with position so later seats play more hands.
func bucketStrength(hs *float64, posFactor float64) string {
	if hs == nil {
		return bucketMedium
	}
	adj := clampFloat(*hs+0.06*(posFactor-0.5), 0, 1)
	switch {
	case adj < 0.38:
		return bucketWeak
	case adj < 0.70:
		return bucketMedium
	default:
		return bucketStrong
	}
}

func reasoned(action ActionType, amount int, reason string) Decision {
	return Decision{Action: action, Amount: amount, Meta: map[string]any{"reason": reason}}
}

func clamp(x, lo, hi int) int {
	return max(lo, min(hi, x))
}

func clampFloat(x, lo, hi float64) float64 {
	return max(lo, min(hi, x))
}

func round3(x float64) float64 {
	return float64(int(x*1000+0.5)) / 1000
}
