// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package walk

import (
	"math/big"
	"math/rand/v2"

	. "github.com/puzzlehunt/puzzlehunt/hunt/search/common"
)

// Stride variants follow the Fibonacci numbers so consecutive picks
// land on distinct scales instead of clustering.
var fibVariants = []int64{1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233, 377, 610, 987, 1597}

const (
	forwardBias   = 0.6
	seenClearTick = 4
)

// walkState is the mutable core of one adaptive walk. Positions are
// offsets in [0, width); the candidate key is start+pos. All methods
// run on the walk's own goroutine.
type walkState struct {
	rng   *rand.Rand
	start *big.Int
	width *big.Int
	pos   *big.Int
	step  *big.Int
	seen  map[string]struct{}
	ticks uint64
}

func newWalkState(w *Walk) *walkState {
	rng := rand.New(rand.NewPCG(w.Seed, uint64(w.ID)+1))
	width := w.Range.Width()

	return &walkState{
		rng:   rng,
		start: w.Range.Start(),
		width: width,
		pos:   new(big.Int).Mod(new(big.Int).SetUint64(rng.Uint64()), width),
		step:  big.NewInt(1 + int64(rng.IntN(100))),
		seen:  make(map[string]struct{}),
	}
}

// next advances one hop and returns the candidate key, or nil when the
// position was already visited; revisits teleport the walk so it does
// not spin inside a closed cycle.
func (ws *walkState) next() *big.Int {
	if ws.rng.Float64() < forwardBias {
		ws.pos.Add(ws.pos, ws.step)
	} else {
		ws.pos.Sub(ws.pos, ws.step)
	}
	ws.pos.Mod(ws.pos, ws.width)

	posKey := ws.pos.Text(16)
	if _, dup := ws.seen[posKey]; dup {
		recenter{}.apply(ws)
		return nil
	}
	ws.seen[posKey] = struct{}{}

	return new(big.Int).Add(ws.start, ws.pos)
}

// adapt mutates the walk according to one randomly drawn strategy and
// returns its name. Every few ticks the visited set is wiped so the
// walk may recross old ground with its new stride.
func (ws *walkState) adapt() string {
	s := pickStrategy(ws.rng)
	s.apply(ws)

	ws.ticks++
	if ws.ticks%seenClearTick == 0 {
		ws.seen = make(map[string]struct{})
	}
	return s.name()
}

// strategy is one way of mutating a walk at an adaptation tick.
type strategy interface {
	name() string
	apply(ws *walkState)
}

func pickStrategy(rng *rand.Rand) strategy {
	switch r := rng.Float64(); {
	case r < 0.5:
		return hop{}
	case r < 0.8:
		return stride{}
	default:
		return recenter{}
	}
}

// hop swaps in a fresh Fibonacci stride scaled by a small factor, with
// an occasional long-range burst.
type hop struct{}

func (hop) name() string { return "hop" }

func (hop) apply(ws *walkState) {
	variant := fibVariants[ws.rng.IntN(len(fibVariants))]
	factor := int64(1 + ws.rng.IntN(19))
	if ws.rng.Float64() < 0.1 {
		factor = int64(100 + ws.rng.IntN(900))
	}
	ws.step = big.NewInt(variant * factor)
}

// stride multiplies the current step, pushing the walk onto a coarser
// lattice when progress stalls.
type stride struct{}

func (stride) name() string { return "stride" }

func (stride) apply(ws *walkState) {
	ws.step.Mul(ws.step, big.NewInt(int64(2+ws.rng.IntN(8))))
	ws.step.Mod(ws.step, ws.width)
	if ws.step.Sign() == 0 {
		ws.step.SetInt64(1)
	}
}

// recenter teleports to a fresh position with a fresh stride and wipes
// the visited set, breaking out of detected cycles.
type recenter struct{}

func (recenter) name() string { return "recenter" }

func (recenter) apply(ws *walkState) {
	ws.pos = new(big.Int).Mod(new(big.Int).SetUint64(ws.rng.Uint64()), ws.width)
	variant := fibVariants[ws.rng.IntN(len(fibVariants))]
	ws.step = big.NewInt(variant * int64(1+ws.rng.IntN(19)))
	ws.seen = make(map[string]struct{})
}
