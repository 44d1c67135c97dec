// Package table manages a seated poker table across a session of hands:
// seat assignment, button rotation and the join/leave churn between hands.
package table

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/handgen/internal/bot"
	"github.com/lox/handgen/internal/randutil"
	"github.com/lox/handgen/internal/strength"
)

// ErrNotEnoughPlayers signals that fewer than two players with chips are
// seated. Callers treat it as a recoverable skip, not a failure.
var ErrNotEnoughPlayers = errors.New("table: fewer than two active players")

// Config holds the table parameters for a session. Chip amounts are cents.
type Config struct {
	SmallBlind int
	BigBlind   int
	MaxSeats   int
	RakeRate   float64

	HeroStackMin int
	HeroStackMax int
	BotStackMin  int
	BotStackMax  int

	LeaveProb float64
	JoinProb  float64

	Secret   string
	Profiles []bot.Profile
}

// Session owns the seats for one table. At most one player per seat; the
// button always points at an occupied seat before a hand begins.
type Session struct {
	ID  string
	cfg Config

	rng       *rand.Rand
	strengths strength.Table
	logger    *log.Logger

	seats    []*Player // index = seat-1, nil = empty
	button   int       // seat index (0-based) of the dealer button
	heroSeat int       // 1-based
	heroUID  string

	namePool   []string
	HandNumber int
}

// NewSession creates an empty session. Call Init to seat players.
func NewSession(id string, cfg Config, seed int64, strengths strength.Table, logger *log.Logger) *Session {
	rng := randutil.New(seed)
	return &Session{
		ID:        id,
		cfg:       cfg,
		rng:       rng,
		strengths: strengths,
		logger:    logger.WithPrefix("table"),
		seats:     make([]*Player, cfg.MaxSeats),
		heroUID:   heroUID(cfg.Secret),
		namePool:  newNamePool(cfg.Secret, seed, rng),
	}
}

// Config returns the session's table parameters.
func (s *Session) Config() Config { return s.cfg }

// RNG exposes the session's random stream. The engine shares it so that a
// session seed reproduces identical hands.
func (s *Session) RNG() *rand.Rand { return s.rng }

// HeroUID returns the persistent hero identifier.
func (s *Session) HeroUID() string { return s.heroUID }

// HeroSeat returns the hero's current 1-based seat.
func (s *Session) HeroSeat() int { return s.heroSeat }

// ButtonSeat returns the current 1-based button seat.
func (s *Session) ButtonSeat() int { return s.button + 1 }

// Init seats the hero at a random seat plus 3..maxSeats-1 other profiled
// players, then picks a random initial button among the occupied seats.
func (s *Session) Init() {
	s.heroSeat = s.rng.IntN(s.cfg.MaxSeats) + 1
	s.seats[s.heroSeat-1] = &Player{
		UID:     s.heroUID,
		Seat:    s.heroSeat,
		Stack:   s.randomStack(s.cfg.HeroStackMin, s.cfg.HeroStackMax),
		Profile: s.randomProfile(),
	}
	s.seats[s.heroSeat-1].Agent = s.newAgent(s.seats[s.heroSeat-1].Profile)

	numBots := 3 + s.rng.IntN(s.cfg.MaxSeats-3)
	free := make([]int, 0, s.cfg.MaxSeats-1)
	for seat := 1; seat <= s.cfg.MaxSeats; seat++ {
		if seat != s.heroSeat {
			free = append(free, seat)
		}
	}
	s.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	for _, seat := range free[:min(numBots, len(free))] {
		s.addPlayer(seat)
	}

	occupied := s.occupiedSeats()
	s.button = occupied[s.rng.IntN(len(occupied))]
}

// RotateButton advances the button to the next occupied seat clockwise.
func (s *Session) RotateButton() {
	occupied := s.occupiedSeats()
	if len(occupied) == 0 {
		return
	}
	curr := -1
	for i, idx := range occupied {
		if idx == s.button {
			curr = i
			break
		}
	}
	if curr == -1 {
		s.button = occupied[0]
		return
	}
	s.button = occupied[(curr+1)%len(occupied)]
}

// HandleChurn applies the between-hands join/leave dynamics: a weighted
// chance for a non-hero player to leave (short stacks leave more often) and
// a chance for a new player to take a random empty seat.
func (s *Session) HandleChurn() {
	heroIdx := s.heroSeat - 1

	var occupiedNonHero []int
	var emptySeats []int
	for i := range s.seats {
		if i == heroIdx {
			continue
		}
		if s.seats[i] != nil {
			occupiedNonHero = append(occupiedNonHero, i)
		} else {
			emptySeats = append(emptySeats, i+1)
		}
	}

	if len(occupiedNonHero) > 1 && s.rng.Float64() < s.cfg.LeaveProb {
		weights := make([]float64, len(occupiedNonHero))
		var total float64
		for i, idx := range occupiedNonHero {
			w := 1.0
			if s.seats[idx].Stack < s.cfg.BigBlind*3 {
				w = 3.0 // short stacks bust out of the pool more often
			}
			weights[i] = w
			total += w
		}
		pick := s.rng.Float64() * total
		for i, idx := range occupiedNonHero {
			pick -= weights[i]
			if pick <= 0 {
				s.removePlayer(idx + 1)
				break
			}
		}
	}

	if len(emptySeats) > 0 && s.rng.Float64() < s.cfg.JoinProb {
		s.addPlayer(emptySeats[s.rng.IntN(len(emptySeats))])
	}
}

// BeginHand performs the per-hand maintenance pass and returns the active
// players in seat order: the hero is reseated and topped up if necessary,
// busted non-hero players are removed, and per-hand state is reset.
// Returns ErrNotEnoughPlayers when fewer than two players remain.
func (s *Session) BeginHand() ([]*Player, error) {
	heroIdx := s.heroSeat - 1
	if s.seats[heroIdx] == nil {
		s.seats[heroIdx] = &Player{
			UID:     s.heroUID,
			Seat:    s.heroSeat,
			Stack:   s.randomStack(s.cfg.HeroStackMin, s.cfg.HeroStackMax),
			Profile: s.randomProfile(),
		}
		s.seats[heroIdx].Agent = s.newAgent(s.seats[heroIdx].Profile)
		s.logger.Debug("hero reseated", "seat", s.heroSeat)
	}
	if s.seats[heroIdx].Stack <= 0 {
		s.seats[heroIdx].Stack = s.randomStack(s.cfg.HeroStackMin, s.cfg.HeroStackMax)
		s.logger.Debug("hero topped up", "stack", s.seats[heroIdx].Stack)
	}

	for i, p := range s.seats {
		if i == heroIdx || p == nil {
			continue
		}
		if p.Stack <= 0 {
			s.removePlayer(i + 1)
		}
	}

	active := s.ActivePlayers()
	if len(active) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	if !s.seatOccupied(s.button) {
		s.button = s.occupiedSeats()[0]
	}

	for _, p := range active {
		p.ResetForHand()
	}
	s.HandNumber++
	return active, nil
}

// SeatPlayer places a prepared player at their seat. It is used to build
// fixed tables; Init covers the randomized production path.
func (s *Session) SeatPlayer(p *Player) error {
	if p.Seat < 1 || p.Seat > s.cfg.MaxSeats {
		return fmt.Errorf("seat %d out of range 1..%d", p.Seat, s.cfg.MaxSeats)
	}
	if s.seats[p.Seat-1] != nil {
		return fmt.Errorf("seat %d already occupied", p.Seat)
	}
	s.seats[p.Seat-1] = p
	return nil
}

// SetHeroSeat designates the hero's 1-based seat.
func (s *Session) SetHeroSeat(seat int) {
	s.heroSeat = seat
}

// SetButton places the button at a 1-based occupied seat.
func (s *Session) SetButton(seat int) error {
	if !s.seatOccupied(seat - 1) {
		return fmt.Errorf("button seat %d is not occupied", seat)
	}
	s.button = seat - 1
	return nil
}

// ActivePlayers returns all seated players in seat order.
func (s *Session) ActivePlayers() []*Player {
	var players []*Player
	for _, p := range s.seats {
		if p != nil {
			players = append(players, p)
		}
	}
	return players
}

// PlayerAt returns the player in a 1-based seat, or nil.
func (s *Session) PlayerAt(seat int) *Player {
	return s.seats[seat-1]
}

// OccupiedSeats returns the 0-based indexes of occupied seats in order.
func (s *Session) OccupiedSeats() []int {
	return s.occupiedSeats()
}

func (s *Session) addPlayer(seat int) {
	if seat == s.heroSeat || s.seats[seat-1] != nil || len(s.namePool) == 0 {
		return
	}
	uid := s.namePool[len(s.namePool)-1]
	s.namePool = s.namePool[:len(s.namePool)-1]
	profile := s.randomProfile()
	p := &Player{
		UID:     "p_" + uid,
		Seat:    seat,
		Stack:   s.randomStack(s.cfg.BotStackMin, s.cfg.BotStackMax),
		Profile: profile,
	}
	p.Agent = s.newAgent(profile)
	s.seats[seat-1] = p
}

func (s *Session) removePlayer(seat int) {
	if seat == s.heroSeat || s.seats[seat-1] == nil {
		return
	}
	uid := s.seats[seat-1].UID
	if len(uid) > 2 && uid[:2] == "p_" {
		uid = uid[2:]
	}
	s.namePool = append(s.namePool, uid)
	s.seats[seat-1] = nil
}

func (s *Session) occupiedSeats() []int {
	var occupied []int
	for i, p := range s.seats {
		if p != nil {
			occupied = append(occupied, i)
		}
	}
	return occupied
}

func (s *Session) seatOccupied(idx int) bool {
	return idx >= 0 && idx < len(s.seats) && s.seats[idx] != nil
}

func (s *Session) randomProfile() bot.Profile {
	if len(s.cfg.Profiles) == 0 {
		return bot.DefaultProfile()
	}
	return s.cfg.Profiles[s.rng.IntN(len(s.cfg.Profiles))]
}

func (s *Session) randomStack(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.IntN(hi-lo+1)
}

func (s *Session) newAgent(profile bot.Profile) bot.Agent {
	return bot.New(profile, s.rng, s.strengths, s.logger)
}
