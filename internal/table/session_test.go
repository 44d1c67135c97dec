package table

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handgen/internal/bot"
)

func testConfig() Config {
	return Config{
		SmallBlind:   2,
		BigBlind:     5,
		MaxSeats:     6,
		RakeRate:     0.05,
		HeroStackMin: 800,
		HeroStackMax: 1200,
		BotStackMin:  400,
		BotStackMax:  1500,
		LeaveProb:    0.10,
		JoinProb:     0.15,
		Secret:       "test-secret",
		Profiles:     []bot.Profile{bot.DefaultProfile()},
	}
}

func newTestSession(t *testing.T, seed int64) *Session {
	t.Helper()
	return NewSession("t1", testConfig(), seed, nil, log.New(io.Discard))
}

func TestInitSeatsHeroAndBots(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		s := newTestSession(t, seed)
		s.Init()

		require.GreaterOrEqual(t, s.HeroSeat(), 1)
		require.LessOrEqual(t, s.HeroSeat(), 6)

		hero := s.PlayerAt(s.HeroSeat())
		require.NotNil(t, hero)
		assert.Equal(t, s.HeroUID(), hero.UID)
		assert.GreaterOrEqual(t, hero.Stack, 800)
		assert.LessOrEqual(t, hero.Stack, 1200)

		// Hero plus 3..5 bots.
		n := len(s.ActivePlayers())
		assert.GreaterOrEqual(t, n, 4, "seed %d", seed)
		assert.LessOrEqual(t, n, 6, "seed %d", seed)

		// Button on an occupied seat.
		assert.NotNil(t, s.PlayerAt(s.ButtonSeat()), "seed %d", seed)
	}
}

func TestHeroUIDDerivedFromSecret(t *testing.T) {
	a := newTestSession(t, 1)
	b := newTestSession(t, 99)
	assert.Equal(t, a.HeroUID(), b.HeroUID(), "hero uid must be stable across sessions with the same secret")

	cfg := testConfig()
	cfg.Secret = "other-secret"
	c := NewSession("t2", cfg, 1, nil, log.New(io.Discard))
	assert.NotEqual(t, a.HeroUID(), c.HeroUID())
}

func TestBotUIDsAreAnonymized(t *testing.T) {
	s := newTestSession(t, 4)
	s.Init()
	for _, p := range s.ActivePlayers() {
		if p.UID == s.HeroUID() {
			continue
		}
		assert.True(t, strings.HasPrefix(p.UID, "p_"), "uid %q", p.UID)
		assert.Len(t, p.UID, 2+64, "uid should be p_ plus a sha256 hex digest")
	}
}

func TestRotateButtonCyclesOccupiedSeats(t *testing.T) {
	s := newTestSession(t, 7)
	s.Init()

	occupied := s.OccupiedSeats()
	start := s.ButtonSeat()
	seen := map[int]bool{start: true}
	for i := 0; i < len(occupied)-1; i++ {
		s.RotateButton()
		seat := s.ButtonSeat()
		assert.NotNil(t, s.PlayerAt(seat))
		assert.False(t, seen[seat], "button revisited seat %d before completing the orbit", seat)
		seen[seat] = true
	}
	s.RotateButton()
	assert.Equal(t, start, s.ButtonSeat(), "button should complete a full orbit")
}

func TestBeginHandRemovesBustedBots(t *testing.T) {
	s := newTestSession(t, 9)
	s.Init()

	var busted *Player
	for _, p := range s.ActivePlayers() {
		if p.UID != s.HeroUID() {
			busted = p
			break
		}
	}
	require.NotNil(t, busted)
	busted.Stack = 0

	_, err := s.BeginHand()
	require.NoError(t, err)
	assert.Nil(t, s.PlayerAt(busted.Seat), "busted bot should have been removed")
}

func TestBeginHandTopsUpHero(t *testing.T) {
	s := newTestSession(t, 10)
	s.Init()
	s.PlayerAt(s.HeroSeat()).Stack = 0

	_, err := s.BeginHand()
	require.NoError(t, err)
	hero := s.PlayerAt(s.HeroSeat())
	assert.GreaterOrEqual(t, hero.Stack, 800)
	assert.LessOrEqual(t, hero.Stack, 1200)
}

func TestBeginHandNotEnoughPlayers(t *testing.T) {
	s := newTestSession(t, 11)
	s.Init()
	for _, p := range s.ActivePlayers() {
		if p.UID != s.HeroUID() {
			p.Stack = 0
		}
	}

	_, err := s.BeginHand()
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
}

func TestBeginHandResetsPerHandState(t *testing.T) {
	s := newTestSession(t, 12)
	s.Init()

	players, err := s.BeginHand()
	require.NoError(t, err)
	p := players[0]
	p.Folded = true
	p.InvestedThisStreet = 50
	p.TotalInvested = 120
	before := p.HandsPlayed

	_, err = s.BeginHand()
	require.NoError(t, err)
	assert.False(t, p.Folded)
	assert.Zero(t, p.InvestedThisStreet)
	assert.Zero(t, p.TotalInvested)
	assert.Nil(t, p.HoleCards)
	assert.Equal(t, before+1, p.HandsPlayed)
	assert.Equal(t, 2, s.HandNumber)
}

func TestChurnNeverRemovesHero(t *testing.T) {
	cfg := testConfig()
	cfg.LeaveProb = 1.0
	cfg.JoinProb = 0.0
	s := NewSession("t1", cfg, 13, nil, log.New(io.Discard))
	s.Init()

	for i := 0; i < 50; i++ {
		s.HandleChurn()
		require.NotNil(t, s.PlayerAt(s.HeroSeat()), "hero left the table on churn %d", i)
	}
	// Leaves stop once only one non-hero player remains.
	assert.GreaterOrEqual(t, len(s.ActivePlayers()), 2)
}

func TestChurnJoinFillsEmptySeat(t *testing.T) {
	cfg := testConfig()
	cfg.LeaveProb = 0.0
	cfg.JoinProb = 1.0
	s := NewSession("t1", cfg, 14, nil, log.New(io.Discard))
	s.Init()

	for i := 0; i < 20; i++ {
		s.HandleChurn()
	}
	assert.Len(t, s.ActivePlayers(), 6, "joins should fill the table")
}

func TestChurnRecyclesIDs(t *testing.T) {
	cfg := testConfig()
	cfg.LeaveProb = 1.0
	cfg.JoinProb = 1.0
	s := NewSession("t1", cfg, 15, nil, log.New(io.Discard))
	s.Init()

	for i := 0; i < 200; i++ {
		s.HandleChurn()
		for _, p := range s.ActivePlayers() {
			if p.UID == s.HeroUID() {
				continue
			}
			require.True(t, strings.HasPrefix(p.UID, "p_"), "churned-in uid %q", p.UID)
		}
	}
}

func TestSeatPlayerAndSetButton(t *testing.T) {
	s := newTestSession(t, 16)
	require.NoError(t, s.SeatPlayer(&Player{UID: "p_x", Seat: 2, Stack: 500}))
	require.Error(t, s.SeatPlayer(&Player{UID: "p_y", Seat: 2, Stack: 500}), "double seating")
	require.Error(t, s.SeatPlayer(&Player{UID: "p_z", Seat: 7, Stack: 500}), "seat out of range")

	require.NoError(t, s.SetButton(2))
	assert.Equal(t, 2, s.ButtonSeat())
	require.Error(t, s.SetButton(3), "button on empty seat")
}
