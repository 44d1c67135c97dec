package deck

import (
	"errors"
	"testing"

	"github.com/lox/handgen/internal/randutil"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	d := New(randutil.New(1))
	if d.Remaining() != 52 {
		t.Fatalf("fresh deck has %d cards, want 52", d.Remaining())
	}

	cards, err := d.Deal(52)
	if err != nil {
		t.Fatalf("dealing the whole deck: %v", err)
	}
	seen := make(map[Card]bool, 52)
	for _, c := range cards {
		if seen[c] {
			t.Fatalf("duplicate card %s in a fresh deck", c)
		}
		seen[c] = true
	}
}

// Dealing 2 hole cards to 6 players must never repeat a card within the hand.
func TestDealHoleCardsNoDuplicates(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		d := New(randutil.New(seed))
		seen := make(map[Card]bool)
		for player := 0; player < 6; player++ {
			cards, err := d.Deal(2)
			if err != nil {
				t.Fatalf("seed %d: deal to player %d: %v", seed, player, err)
			}
			for _, c := range cards {
				if seen[c] {
					t.Fatalf("seed %d: card %s dealt twice", seed, c)
				}
				seen[c] = true
			}
		}
	}
}

func TestDealInsufficientCards(t *testing.T) {
	d := New(randutil.New(1))
	if _, err := d.Deal(40); err != nil {
		t.Fatalf("dealing 40 of 52: %v", err)
	}
	_, err := d.Deal(13)
	if !errors.Is(err, ErrInsufficientCards) {
		t.Fatalf("want ErrInsufficientCards, got %v", err)
	}
	if d.Remaining() != 12 {
		t.Fatalf("failed deal consumed cards: %d remaining, want 12", d.Remaining())
	}
}

func TestDealWithReplacementProducesValidCards(t *testing.T) {
	rng := randutil.New(9)
	cards := DealWithReplacement(rng, 500)
	if len(cards) != 500 {
		t.Fatalf("got %d cards, want 500", len(cards))
	}
	for _, c := range cards {
		if c.Rank < Two || c.Rank > Ace {
			t.Fatalf("invalid rank in %v", c)
		}
		if c.Suit < Spades || c.Suit > Clubs {
			t.Fatalf("invalid suit in %v", c)
		}
	}
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		in   string
		want Card
	}{
		{"As", Card{Ace, Spades}},
		{"Td", Card{Ten, Diamonds}},
		{"2c", Card{Two, Clubs}},
		{"kh", Card{King, Hearts}},
	}
	for _, tt := range tests {
		got, err := ParseCard(tt.in)
		if err != nil {
			t.Errorf("ParseCard(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCard(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "A", "Asd", "Xs", "Az", "1h"} {
		if _, err := ParseCard(bad); err == nil {
			t.Errorf("ParseCard(%q) succeeded, want error", bad)
		}
	}
}

func TestCardStringRoundTrip(t *testing.T) {
	d := New(randutil.New(3))
	cards, _ := d.Deal(52)
	for _, c := range cards {
		parsed, err := ParseCard(c.String())
		if err != nil {
			t.Fatalf("round trip %s: %v", c, err)
		}
		if parsed != c {
			t.Fatalf("round trip %s -> %v", c, parsed)
		}
	}
}

func TestParseCards(t *testing.T) {
	cards, err := ParseCards("AsKsQh")
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 3 || cards[0].String() != "As" || cards[2].String() != "Qh" {
		t.Fatalf("unexpected parse result %v", cards)
	}

	if _, err := ParseCards("AsK"); err == nil {
		t.Fatal("odd-length card string parsed without error")
	}
}
