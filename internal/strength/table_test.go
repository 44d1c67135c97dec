package strength

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handgen/internal/deck"
)

func TestKeyNormalization(t *testing.T) {
	tests := []struct {
		cards string
		want  string
	}{
		{"AsKs", "AKs"},
		{"KsAs", "AKs"},
		{"AhKs", "AKo"},
		{"QdQh", "QQo"},
		{"2s2c", "22o"},
		{"Td9d", "T9s"},
		{"9dTd", "T9s"},
		{"7h2c", "72o"},
	}
	for _, tt := range tests {
		cards := deck.MustParseCards(tt.cards)
		assert.Equal(t, tt.want, Key(cards[0], cards[1]), "cards %s", tt.cards)
	}
}

func TestEmbeddedTableCoversAllBuckets(t *testing.T) {
	table, err := Load()
	require.NoError(t, err)
	require.Len(t, table, 169)

	for key, v := range table {
		assert.GreaterOrEqual(t, v, 0.0, "bucket %s", key)
		assert.LessOrEqual(t, v, 1.0, "bucket %s", key)
	}
}

func TestEveryHoleComboHasABucket(t *testing.T) {
	table, err := Load()
	require.NoError(t, err)

	var cards []deck.Card
	for suit := deck.Spades; suit <= deck.Clubs; suit++ {
		for rank := deck.Two; rank <= deck.Ace; rank++ {
			cards = append(cards, deck.Card{Rank: rank, Suit: suit})
		}
	}
	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			if _, ok := table.Lookup(cards[i], cards[j]); !ok {
				t.Fatalf("no bucket for %s %s", cards[i], cards[j])
			}
		}
	}
}

func TestLookupOrderInsensitive(t *testing.T) {
	table, err := Load()
	require.NoError(t, err)

	a := deck.MustParseCards("AhKs")
	s1, ok1 := table.Lookup(a[0], a[1])
	s2, ok2 := table.Lookup(a[1], a[0])
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, s1, s2)
}

func TestNilTableLookupMisses(t *testing.T) {
	var table Table
	cards := deck.MustParseCards("AhKs")
	_, ok := table.Lookup(cards[0], cards[1])
	assert.False(t, ok)
}

func TestStrongerHandsRankHigher(t *testing.T) {
	table, err := Load()
	require.NoError(t, err)

	// Spot checks that the table ordering is sane.
	assert.Greater(t, table["AAo"], table["22o"])
	assert.Greater(t, table["AKs"], table["AKo"])
	assert.Greater(t, table["KKo"], table["72o"])
}
