package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

// ErrInsufficientCards is returned when a deal requests more cards than the
// deck still holds. Within a hand this indicates a configuration error
// (impossible seat count); it is never recovered by drawing with replacement.
var ErrInsufficientCards = errors.New("deck: not enough cards remaining")

// Deck is an ordered set of the 52 unique cards, consumed by popping from the
// end. A deck is owned by exactly one hand's dealing process and discarded
// afterwards.
type Deck struct {
	cards []Card
}

// New builds a full 52-card deck shuffled with the provided RNG.
func New(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, Card{Rank: rank, Suit: suit})
		}
	}
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	return d
}

// Deal removes and returns exactly n cards from the end of the deck.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrInsufficientCards, n, len(d.cards))
	}
	cards := make([]Card, n)
	for i := 0; i < n; i++ {
		cards[i] = d.cards[len(d.cards)-1]
		d.cards = d.cards[:len(d.cards)-1]
	}
	return cards, nil
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// DealWithReplacement draws n independent random cards. The result may
// contain duplicates, so this must never be used to deal within a hand; it
// exists only for offline strength-table sampling where collisions are
// tolerable.
func DealWithReplacement(rng *rand.Rand, n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = Card{
			Rank: Rank(rng.IntN(13)) + Two,
			Suit: Suit(rng.IntN(4)),
		}
	}
	return cards
}
