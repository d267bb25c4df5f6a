// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

// Package puzzle carries the catalogue of unsolved Bitcoin puzzle
// transactions. Each entry pins a key range of known bit width to a
// funded address; sweeping the address requires finding the private
// key inside that range.
package puzzle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/puzzlehunt/puzzlehunt/keyspace"
)

// ErrNotFound is returned when a puzzle number is not in the catalogue.
var ErrNotFound = errors.New("puzzle not found")

// Puzzle is one catalogue entry. The puzzle number equals the bit
// length of its key, and the range boundaries are inclusive hex
// strings without a 0x prefix.
type Puzzle struct {
	Number     uint32  `json:"puzzle"`
	Bits       uint32  `json:"bits"`
	RangeStart string  `json:"range_start"`
	RangeEnd   string  `json:"range_end"`
	Address    string  `json:"address"`
	RewardBTC  float64 `json:"reward_btc"`
}

// Range parses the puzzle's key range.
func (p Puzzle) Range() (keyspace.Range, error) {
	return keyspace.ParseRange(p.RangeStart, p.RangeEnd)
}

var builtin = []Puzzle{
	{Number: 67, Bits: 67, RangeStart: "40000000000000000", RangeEnd: "7ffffffffffffffff", Address: "1BY8GQbnueYofwSuFAT3USAhGjPrkxDdW9", RewardBTC: 6.7},
	{Number: 68, Bits: 68, RangeStart: "80000000000000000", RangeEnd: "fffffffffffffffff", Address: "1MVDYgVaSN6iKKEsbzRUAYFrYJadLYZvvZ", RewardBTC: 6.8},
	{Number: 69, Bits: 69, RangeStart: "100000000000000000", RangeEnd: "1ffffffffffffffffff", Address: "19vkiEajfhuZ8bs8Zu2jgmC6oqZbWqhxhG", RewardBTC: 6.9},
	{Number: 71, Bits: 71, RangeStart: "400000000000000000", RangeEnd: "7ffffffffffffffffff", Address: "1PWo3JeB9jrGwfHDNpdGK54CRas7fsVzXU", RewardBTC: 7.1},
	{Number: 72, Bits: 72, RangeStart: "800000000000000000", RangeEnd: "ffffffffffffffffff", Address: "1JTK7s9YVYywfm5XUH7RNhHJH1LshCaRFR", RewardBTC: 7.2},
	{Number: 135, Bits: 135, RangeStart: "4000000000000000000000000000000000", RangeEnd: "7fffffffffffffffffffffffffffffffff", Address: "16RGFo6hjq9ym6Pj7N5H7L1NR1rVPJyw2v", RewardBTC: 13.5},
}

// Builtin returns the catalogue shipped with the binary. The slice is
// a copy, callers may reorder it freely.
func Builtin() []Puzzle {
	out := make([]Puzzle, len(builtin))
	copy(out, builtin)
	return out
}

// Load reads a puzzle catalogue from a JSON file, replacing the
// builtin table for operators who track the full list themselves.
func Load(path string) ([]Puzzle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading puzzle file: %w", err)
	}

	var puzzles []Puzzle
	if err := json.Unmarshal(data, &puzzles); err != nil {
		return nil, fmt.Errorf("parsing puzzle file %s: %w", path, err)
	}

	return puzzles, nil
}

// ByNumber finds a puzzle in the catalogue by its number.
func ByNumber(puzzles []Puzzle, number uint32) (Puzzle, error) {
	for _, p := range puzzles {
		if p.Number == number {
			return p, nil
		}
	}
	return Puzzle{}, fmt.Errorf("%w: #%d", ErrNotFound, number)
}

// Easiest returns the count lowest-bit puzzles, ties kept in
// catalogue order.
func Easiest(puzzles []Puzzle, count int) []Puzzle {
	sorted := make([]Puzzle, len(puzzles))
	copy(sorted, puzzles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Bits < sorted[j].Bits
	})

	if count > len(sorted) {
		count = len(sorted)
	}
	if count < 0 {
		count = 0
	}
	return sorted[:count]
}
