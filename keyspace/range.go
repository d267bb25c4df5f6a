// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package keyspace

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/puzzlehunt/puzzlehunt/utils"
)

var ErrInvalidRange = errors.New("invalid range: start exceeds end")

// Range is an inclusive span of private keys. Boundaries are copied on
// the way in and on the way out, so a Range never aliases caller-owned
// integers. The zero Range is not valid; build one with NewRange or
// ParseRange.
type Range struct {
	start *big.Int
	end   *big.Int
}

func NewRange(start, end *big.Int) (Range, error) {
	if start == nil || end == nil || start.Sign() < 0 {
		return Range{}, ErrInvalidRange
	}
	if start.Cmp(end) > 0 {
		return Range{}, fmt.Errorf("%w: start=%s end=%s", ErrInvalidRange, start.Text(16), end.Text(16))
	}
	return Range{start: new(big.Int).Set(start), end: new(big.Int).Set(end)}, nil
}

func ParseRange(startHex, endHex string) (Range, error) {
	start, err := utils.ParseHexKey(startHex)
	if err != nil {
		return Range{}, fmt.Errorf("range start: %w", err)
	}
	end, err := utils.ParseHexKey(endHex)
	if err != nil {
		return Range{}, fmt.Errorf("range end: %w", err)
	}
	return NewRange(start, end)
}

// Valid reports whether the range was properly constructed; the zero
// Range is not.
func (r Range) Valid() bool {
	return r.start != nil && r.end != nil && r.start.Cmp(r.end) <= 0
}

func (r Range) Start() *big.Int { return new(big.Int).Set(r.start) }

func (r Range) End() *big.Int { return new(big.Int).Set(r.end) }

// Width is the number of keys in the range, end-start+1.
func (r Range) Width() *big.Int {
	w := new(big.Int).Sub(r.end, r.start)
	return w.Add(w, big.NewInt(1))
}

func (r Range) Contains(k *big.Int) bool {
	return k != nil && r.start.Cmp(k) <= 0 && k.Cmp(r.end) <= 0
}

func (r Range) String() string {
	return fmt.Sprintf("0x%s..0x%s", r.start.Text(16), r.end.Text(16))
}
