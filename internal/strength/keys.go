package strength

import "github.com/lox/handgen/internal/deck"

// Key returns the canonical 169-bucket starting-hand key for two hole cards:
// higher rank first, "s" for suited combos, "o" for offsuit. Pocket pairs
// always use the "o" convention ("QQo") to match the table's key format.
func Key(c1, c2 deck.Card) string {
	if c1.Rank == c2.Rank {
		return c1.Rank.String() + c2.Rank.String() + "o"
	}
	hi, lo := c1, c2
	if lo.Value() > hi.Value() {
		hi, lo = lo, hi
	}
	suffix := "o"
	if c1.Suit == c2.Suit {
		suffix = "s"
	}
	return hi.Rank.String() + lo.Rank.String() + suffix
}
