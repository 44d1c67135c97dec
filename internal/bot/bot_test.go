package bot

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handgen/internal/deck"
	"github.com/lox/handgen/internal/randutil"
	"github.com/lox/handgen/internal/strength"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func testTable(t *testing.T) strength.Table {
	t.Helper()
	table, err := strength.Load()
	require.NoError(t, err)
	return table
}

func floatPtr(v float64) *float64 { return &v }

// The agent must never return an action absent from the legal set, across
// many decision points and profiles.
func TestActAlwaysLegal(t *testing.T) {
	table := testTable(t)
	profiles := []Profile{
		DefaultProfile(),
		{Name: "maniac", Tightness: 0.1, Aggression: 1.0, BluffFreq: 0.5, MaxRiskFraction: 1.0,
			BetPotFractionSmall: 0.33, BetPotFractionMedium: 0.55, BetPotFractionLarge: 0.8},
		{Name: "nit", Tightness: 0.95, Aggression: 0.05, BluffFreq: 0.0, MaxRiskFraction: 0.05,
			BetPotFractionSmall: 0.33, BetPotFractionMedium: 0.55, BetPotFractionLarge: 0.8},
	}

	legals := []LegalActions{
		{CanFold: true, CanCall: true, CallAmount: 50, CanRaise: true, MinRaise: 100, MaxRaise: 1000},
		{CanCheck: true, CanBet: true, MinBet: 5, MaxBet: 1000},
		{CanCheck: true}, // no bet possible
		{CanFold: true, CanCall: true, CallAmount: 500},
		{CanFold: true}, // can only fold
	}

	rng := randutil.New(11)
	dealRNG := randutil.New(12)
	for _, profile := range profiles {
		b := New(profile, rng, table, testLogger())
		for i := 0; i < 400; i++ {
			d := deck.New(dealRNG)
			hole, err := d.Deal(2)
			require.NoError(t, err)

			street := []Street{Preflop, Flop, Turn, River}[i%4]
			legal := legals[i%len(legals)]
			state := GameState{
				HandID:        "h1",
				PlayerID:      "p1",
				Street:        street,
				PositionIndex: i % 6,
				NumPlayers:    2 + i%5,
				Stack:         1000,
				Pot:           7 + i*3,
				ToCall:        legal.CallAmount,
				BigBlind:      5,
				HoleCards:     hole,
			}

			dec := b.Act(state, legal)
			require.True(t, legal.Allows(dec.Action),
				"profile %s decision %s not in legal set %+v", profile.Name, dec.Action, legal)

			if dec.Action == Bet {
				assert.GreaterOrEqual(t, dec.Amount, legal.MinBet)
				assert.LessOrEqual(t, dec.Amount, legal.MaxBet)
			}
			if dec.Action == Raise {
				assert.GreaterOrEqual(t, dec.Amount, legal.MinRaise)
				assert.LessOrEqual(t, dec.Amount, legal.MaxRaise)
			}
		}
	}
}

// A legal set with can_check=true and can_bet=false must never produce a bet.
func TestNoBetWhenBettingDisallowed(t *testing.T) {
	table := testTable(t)
	rng := randutil.New(21)
	dealRNG := randutil.New(22)

	legal := LegalActions{CanCheck: true, CanBet: false}
	profile := Profile{
		Name: "aggro", Tightness: 0.1, Aggression: 1.0, BluffFreq: 1.0, MaxRiskFraction: 1.0,
		BetPotFractionSmall: 0.33, BetPotFractionMedium: 0.55, BetPotFractionLarge: 0.8,
	}
	b := New(profile, rng, table, testLogger())

	for i := 0; i < 500; i++ {
		d := deck.New(dealRNG)
		hole, err := d.Deal(2)
		require.NoError(t, err)
		state := GameState{
			Street:        []Street{Preflop, Flop, Turn, River}[i%4],
			PositionIndex: i % 6,
			NumPlayers:    4,
			Stack:         1000,
			Pot:           50,
			BigBlind:      5,
			HoleCards:     hole,
		}
		dec := b.Act(state, legal)
		require.NotEqual(t, Bet, dec.Action)
		require.True(t, legal.Allows(dec.Action), "got %s", dec.Action)
	}
}

func TestFallbackChain(t *testing.T) {
	b := New(DefaultProfile(), randutil.New(1), nil, testLogger())

	// Check preferred over call over fold.
	dec := b.fallback(GameState{}, LegalActions{CanCheck: true, CanCall: true, CanFold: true}, "x")
	assert.Equal(t, Check, dec.Action)

	dec = b.fallback(GameState{ToCall: 10}, LegalActions{CanCall: true, CanFold: true, CallAmount: 10}, "x")
	assert.Equal(t, Call, dec.Action)

	dec = b.fallback(GameState{}, LegalActions{CanFold: true}, "x")
	assert.Equal(t, Fold, dec.Action)
}

func TestActDeterministicForSeed(t *testing.T) {
	table := testTable(t)
	hole := deck.MustParseCards("AhKd")

	run := func() []Decision {
		b := New(DefaultProfile(), randutil.New(77), table, testLogger())
		var decs []Decision
		for i := 0; i < 50; i++ {
			state := GameState{
				Street:        Flop,
				PositionIndex: i % 6,
				NumPlayers:    3,
				Stack:         800,
				Pot:           60,
				ToCall:        0,
				BigBlind:      5,
				HoleCards:     hole,
			}
			decs = append(decs, b.Act(state, LegalActions{CanCheck: true, CanBet: true, MinBet: 15, MaxBet: 800}))
		}
		return decs
	}

	a, b := run(), run()
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Action, b[i].Action, "decision %d", i)
		assert.Equal(t, a[i].Amount, b[i].Amount, "decision %d", i)
	}
}

func TestStrongHandsFoldLessThanWeakOnes(t *testing.T) {
	table := testTable(t)
	legal := LegalActions{CanFold: true, CanCall: true, CallAmount: 10, CanRaise: true, MinRaise: 20, MaxRaise: 1000}

	countFolds := func(hole []deck.Card) int {
		b := New(DefaultProfile(), randutil.New(5), table, testLogger())
		folds := 0
		for i := 0; i < 300; i++ {
			state := GameState{
				Street:        Preflop,
				PositionIndex: i % 6,
				NumPlayers:    6,
				Stack:         1000,
				Pot:           7,
				ToCall:        10,
				BigBlind:      5,
				HoleCards:     hole,
			}
			if b.Act(state, legal).Action == Fold {
				folds++
			}
		}
		return folds
	}

	aces := countFolds(deck.MustParseCards("AsAh"))
	trash := countFolds(deck.MustParseCards("7h2c"))
	assert.Less(t, aces, trash, "aces folded %d times, 72o folded %d times", aces, trash)
}

func TestBucketStrength(t *testing.T) {
	assert.Equal(t, bucketMedium, bucketStrength(nil, 0.5))
	assert.Equal(t, bucketWeak, bucketStrength(floatPtr(0.20), 0.5))
	assert.Equal(t, bucketMedium, bucketStrength(floatPtr(0.50), 0.5))
	assert.Equal(t, bucketStrong, bucketStrength(floatPtr(0.80), 0.5))

	// Position shifts the thresholds: a borderline hand is weak early and
	// medium late.
	assert.Equal(t, bucketWeak, bucketStrength(floatPtr(0.37), 0.0))
	assert.Equal(t, bucketMedium, bucketStrength(floatPtr(0.37), 1.0))
}

func TestPotOdds(t *testing.T) {
	assert.InDelta(t, 0.25, potOdds(25, 75), 1e-9)
	assert.Equal(t, 0.0, potOdds(0, 100))
	assert.Equal(t, 1.0, potOdds(10, -10))
}

func TestStatsCounting(t *testing.T) {
	b := New(DefaultProfile(), randutil.New(3), nil, testLogger())
	legal := LegalActions{CanCheck: true}
	for i := 0; i < 10; i++ {
		b.Act(GameState{Street: Flop, NumPlayers: 2, Stack: 100, Pot: 10, BigBlind: 5}, legal)
	}
	assert.Equal(t, 10, b.Stats().DecisionsSeen)
}
