// Command gen-strengths precomputes the 169-bucket starting-hand strength
// table by Monte Carlo showdown simulation and writes it as the CSV the
// decision agent embeds.
package main

import (
	"encoding/csv"
	"fmt"
	rand "math/rand/v2"
	"os"
	"sort"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	poker "github.com/paulhankin/poker"

	"github.com/lox/handgen/internal/deck"
	"github.com/lox/handgen/internal/randutil"
	"github.com/lox/handgen/internal/strength"
)

type CLI struct {
	Output    string `short:"o" default:"hole_strengths.csv" help:"Output CSV file"`
	Trials    int    `default:"20000" help:"Monte Carlo trials per bucket"`
	Opponents int    `default:"3" help:"Number of opponents at showdown"`
	Seed      int64  `default:"0" help:"RNG seed (0 for random)"`
	Verbose   bool   `short:"v" help:"Verbose logging"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli)

	if cli.Seed == 0 {
		cli.Seed = time.Now().UnixNano()
	}
	level := log.InfoLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	kctx.FatalIfErrorf(run(cli, logger))
}

func run(cli CLI, logger *log.Logger) error {
	rng := randutil.New(cli.Seed)
	logger.Info("simulating", "trials", cli.Trials, "opponents", cli.Opponents, "seed", cli.Seed)

	buckets := allBuckets()
	results := make(map[string]float64, len(buckets))
	start := time.Now()

	for i, b := range buckets {
		results[b.key] = simulateBucket(rng, b, cli.Trials, cli.Opponents)
		logger.Debug("bucket done", "key", b.key, "strength", results[b.key], "progress", fmt.Sprintf("%d/%d", i+1, len(buckets)))
	}

	if err := writeCSV(cli.Output, buckets, results); err != nil {
		return err
	}
	logger.Info("strength table written",
		"file", cli.Output, "buckets", len(buckets), "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// bucket is one canonical starting hand with a concrete representative pair.
type bucket struct {
	key   string
	cards [2]deck.Card
}

// allBuckets enumerates the 169 canonical starting hands. Suit choice within
// a bucket does not matter beyond the suited/offsuit distinction, so each
// bucket gets a fixed representative pair.
func allBuckets() []bucket {
	var buckets []bucket
	for hi := deck.Ace; hi >= deck.Two; hi-- {
		for lo := hi; lo >= deck.Two; lo-- {
			if hi == lo {
				buckets = append(buckets, bucket{
					key:   strength.Key(deck.Card{Rank: hi, Suit: deck.Spades}, deck.Card{Rank: lo, Suit: deck.Hearts}),
					cards: [2]deck.Card{{Rank: hi, Suit: deck.Spades}, {Rank: lo, Suit: deck.Hearts}},
				})
				continue
			}
			buckets = append(buckets,
				bucket{
					key:   strength.Key(deck.Card{Rank: hi, Suit: deck.Spades}, deck.Card{Rank: lo, Suit: deck.Spades}),
					cards: [2]deck.Card{{Rank: hi, Suit: deck.Spades}, {Rank: lo, Suit: deck.Spades}},
				},
				bucket{
					key:   strength.Key(deck.Card{Rank: hi, Suit: deck.Spades}, deck.Card{Rank: lo, Suit: deck.Hearts}),
					cards: [2]deck.Card{{Rank: hi, Suit: deck.Spades}, {Rank: lo, Suit: deck.Hearts}},
				},
			)
		}
	}
	return buckets
}

// simulateBucket estimates the bucket's all-in equity against random hands.
// Opponent and board cards are drawn with replacement; trials containing any
// duplicate card are redrawn, which leaves the draw distribution uniform
// over valid deals.
func simulateBucket(rng *rand.Rand, b bucket, trials, opponents int) float64 {
	need := opponents*2 + 5
	var score float64

	for t := 0; t < trials; t++ {
		var drawn []deck.Card
		for {
			drawn = deck.DealWithReplacement(rng, need)
			if uniqueAgainst(drawn, b.cards[:]) {
				break
			}
		}
		board := drawn[opponents*2:]

		hero := eval7(b.cards[:], board)
		best := hero
		winners := 1
		heroWins := true
		for o := 0; o < opponents; o++ {
			opp := eval7(drawn[o*2:o*2+2], board)
			switch {
			case opp > best:
				best = opp
				winners = 1
				heroWins = false
			case opp == best:
				winners++
			}
		}
		if heroWins && hero == best {
			score += 1.0 / float64(winners)
		}
	}
	return score / float64(trials)
}

// uniqueAgainst reports whether drawn plus reserved contains no duplicates.
func uniqueAgainst(drawn, reserved []deck.Card) bool {
	var seen [52]bool
	for _, c := range reserved {
		seen[cardIndex(c)] = true
	}
	for _, c := range drawn {
		idx := cardIndex(c)
		if seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

func cardIndex(c deck.Card) int {
	return int(c.Suit)*13 + int(c.Rank) - 2
}

func eval7(hole, board []deck.Card) int16 {
	var cards [7]poker.Card
	for i, c := range hole {
		cards[i] = toPokerCard(c)
	}
	for i, c := range board {
		cards[2+i] = toPokerCard(c)
	}
	return poker.Eval7(&cards)
}

// toPokerCard converts to the evaluator's representation. The evaluator
// numbers aces 1 and suits in its own order.
func toPokerCard(c deck.Card) poker.Card {
	var s poker.Suit
	switch c.Suit {
	case deck.Clubs:
		s = poker.Club
	case deck.Diamonds:
		s = poker.Diamond
	case deck.Hearts:
		s = poker.Heart
	default:
		s = poker.Spade
	}
	r := poker.Rank(c.Value())
	if c.Rank == deck.Ace {
		r = poker.Rank(1)
	}
	card, err := poker.MakeCard(s, r)
	if err != nil {
		panic(fmt.Sprintf("invalid card %s: %v", c, err))
	}
	return card
}

func writeCSV(path string, buckets []bucket, results map[string]float64) error {
	keys := make([]string, 0, len(buckets))
	for _, b := range buckets {
		keys = append(keys, b.key)
	}
	sort.Slice(keys, func(i, j int) bool { return results[keys[j]] < results[keys[i]] })

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Holes", "Strengths"}); err != nil {
		return err
	}
	for _, key := range keys {
		if err := w.Write([]string{key, fmt.Sprintf("%.4f", results[key])}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
