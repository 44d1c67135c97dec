// Package strength provides the precomputed starting-hand strength table the
// decision agent consults before acting preflop. The table maps each of the
// 169 canonical starting-hand buckets to a win-rate estimate in [0, 1].
package strength

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lox/handgen/internal/deck"
)

//go:embed hole_strengths.csv
var embedded string

// Table maps canonical starting-hand keys ("AKs", "77o") to strengths.
// A nil or empty table is valid: lookups miss and the agent falls back to its
// pseudo-random strength path.
type Table map[string]float64

// Load returns the table embedded in the binary.
func Load() (Table, error) {
	return parse(strings.NewReader(embedded))
}

// LoadFile reads a strength table from an external CSV with a Holes,Strengths
// header, overriding the embedded data.
func LoadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open strength table: %w", err)
	}
	defer f.Close()
	return parse(f)
}

// Lookup resolves the strength for a pair of hole cards.
func (t Table) Lookup(c1, c2 deck.Card) (float64, bool) {
	s, ok := t[Key(c1, c2)]
	return s, ok
}

func parse(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read strength table: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("strength table is empty")
	}
	table := make(Table, len(records)-1)
	for i, rec := range records {
		if i == 0 && rec[0] == "Holes" {
			continue
		}
		if len(rec) != 2 {
			return nil, fmt.Errorf("strength table row %d: want 2 fields, got %d", i, len(rec))
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("strength table row %d: %w", i, err)
		}
		table[rec[0]] = v
	}
	return table, nil
}
