package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeRotatesButtonToSeatOne(t *testing.T) {
	h := &Hand{
		Metadata: Metadata{MaxSeats: 6, ButtonSeat: 4, HeroSeat: 5},
		Players: []Player{
			{PlayerUID: "a", Seat: 4},
			{PlayerUID: "b", Seat: 5},
			{PlayerUID: "c", Seat: 6},
		},
		Actions: []Action{
			{ActorSeat: 5},
			{ActorSeat: 6},
			{ActorSeat: 4},
		},
	}
	Canonicalize(h)

	assert.Equal(t, 1, h.Metadata.ButtonSeat)
	assert.Equal(t, 2, h.Metadata.HeroSeat)

	// Players sorted by new seat; relative order around the table preserved.
	require.Len(t, h.Players, 3)
	assert.Equal(t, "a", h.Players[0].PlayerUID)
	assert.Equal(t, 1, h.Players[0].Seat)
	assert.Equal(t, "b", h.Players[1].PlayerUID)
	assert.Equal(t, 2, h.Players[1].Seat)
	assert.Equal(t, "c", h.Players[2].PlayerUID)
	assert.Equal(t, 3, h.Players[2].Seat)

	assert.Equal(t, 2, h.Actions[0].ActorSeat)
	assert.Equal(t, 3, h.Actions[1].ActorSeat)
	assert.Equal(t, 1, h.Actions[2].ActorSeat)
}

func TestCanonicalizeContiguizesGaps(t *testing.T) {
	// Button already on seat 1, but churn left seats 1, 3 and 6 occupied.
	h := &Hand{
		Metadata: Metadata{MaxSeats: 6, ButtonSeat: 1, HeroSeat: 3},
		Players: []Player{
			{PlayerUID: "a", Seat: 1},
			{PlayerUID: "b", Seat: 3},
			{PlayerUID: "c", Seat: 6},
		},
		Actions: []Action{{ActorSeat: 3}, {ActorSeat: 6}},
	}
	Canonicalize(h)

	seats := []int{h.Players[0].Seat, h.Players[1].Seat, h.Players[2].Seat}
	assert.Equal(t, []int{1, 2, 3}, seats)
	assert.Equal(t, 2, h.Metadata.HeroSeat)
	assert.Equal(t, 1, h.Metadata.ButtonSeat)
	assert.Equal(t, 2, h.Actions[0].ActorSeat)
	assert.Equal(t, 3, h.Actions[1].ActorSeat)
}

func TestCanonicalizeWrapsSeatsBelowButton(t *testing.T) {
	// Button on the last seat: seats before it wrap around.
	h := &Hand{
		Metadata: Metadata{MaxSeats: 6, ButtonSeat: 6, HeroSeat: 1},
		Players: []Player{
			{PlayerUID: "hero", Seat: 1},
			{PlayerUID: "btn", Seat: 6},
		},
		Actions: []Action{{ActorSeat: 1}, {ActorSeat: 6}},
	}
	Canonicalize(h)

	assert.Equal(t, 1, h.Metadata.ButtonSeat)
	assert.Equal(t, "btn", h.Players[0].PlayerUID)
	assert.Equal(t, 1, h.Players[0].Seat)
	assert.Equal(t, "hero", h.Players[1].PlayerUID)
	assert.Equal(t, 2, h.Players[1].Seat)
	assert.Equal(t, 2, h.Metadata.HeroSeat)
}

func TestCanonicalizeIsANoOpWhenAlreadyCanonical(t *testing.T) {
	h := &Hand{
		Metadata: Metadata{MaxSeats: 6, ButtonSeat: 1, HeroSeat: 2},
		Players: []Player{
			{PlayerUID: "a", Seat: 1},
			{PlayerUID: "b", Seat: 2},
		},
		Actions: []Action{{ActorSeat: 1}},
	}
	Canonicalize(h)

	assert.Equal(t, 1, h.Metadata.ButtonSeat)
	assert.Equal(t, 2, h.Metadata.HeroSeat)
	assert.Equal(t, 1, h.Players[0].Seat)
	assert.Equal(t, 2, h.Players[1].Seat)
	assert.Equal(t, 1, h.Actions[0].ActorSeat)
}
