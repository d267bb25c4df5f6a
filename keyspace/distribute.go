// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package keyspace

import (
	"errors"
	"fmt"
	"math/big"
	"time"
)

var (
	ErrNoWorkers     = errors.New("no workers to distribute across")
	ErrInvalidWindow = errors.New("non-positive target window")
)

// Assignment pairs a worker with its slice of the keyspace. Subrange is
// nil when the worker's share floors to zero keys.
type Assignment struct {
	Worker   Worker
	Subrange *Range
}

func (a Assignment) Width() *big.Int {
	if a.Subrange == nil {
		return new(big.Int)
	}
	return a.Subrange.Width()
}

// EstimatedSeconds is how long the worker needs to sweep its subrange
// at its benchmarked rate.
func (a Assignment) EstimatedSeconds() float64 {
	if a.Subrange == nil {
		return 0
	}
	keys, _ := new(big.Float).SetInt(a.Subrange.Width()).Float64()
	return keys / a.Worker.throughput
}

// Distribution is the result of splitting a range across a roster.
// Assignments keep roster order; funded subranges are disjoint and
// contiguous from the range start.
type Distribution struct {
	Assignments []Assignment
	Remainder   *Range        // unassigned tail, nil when the split is exact
	TargetSync  time.Duration // advisory window the split was shaped for
}

// MaxEstimatedSeconds is the completion time of the slowest assignment,
// which bounds the synchronization point of the whole round.
func (d *Distribution) MaxEstimatedSeconds() float64 {
	var max float64
	for _, a := range d.Assignments {
		if s := a.EstimatedSeconds(); s > max {
			max = s
		}
	}
	return max
}

// AssignedWidth sums the widths of all funded assignments.
func (d *Distribution) AssignedWidth() *big.Int {
	total := new(big.Int)
	for _, a := range d.Assignments {
		total.Add(total, a.Width())
	}
	return total
}

// Distribute splits r across workers in proportion to their benchmarked
// throughput. Every key is assigned to at most one worker. Shares are
// floored exactly, never rounded up, so a tail of at most a few keys can
// stay unassigned; it is reported as the Remainder rather than silently
// appended to the last worker.
func Distribute(workers []Worker, r Range, targetSync time.Duration) (*Distribution, error) {
	if len(workers) == 0 {
		return nil, ErrNoWorkers
	}

	total := new(big.Rat)
	rates := make([]*big.Rat, len(workers))
	for i, w := range workers {
		rate := new(big.Rat).SetFloat64(w.throughput)
		if rate == nil || rate.Sign() <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWorker, w.name)
		}
		rates[i] = rate
		total.Add(total, rate)
	}

	widthRat := new(big.Rat).SetInt(r.Width())
	cursor := r.Start()
	one := big.NewInt(1)
	assignments := make([]Assignment, 0, len(workers))
	for i, w := range workers {
		share := new(big.Rat).Mul(widthRat, rates[i])
		share.Quo(share, total)
		keys := new(big.Int).Quo(share.Num(), share.Denom())

		if keys.Sign() == 0 {
			assignments = append(assignments, Assignment{Worker: w})
			continue
		}

		end := new(big.Int).Add(cursor, keys)
		end.Sub(end, one)
		sub, err := NewRange(cursor, end)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, Assignment{Worker: w, Subrange: &sub})
		cursor.Add(cursor, keys)
	}

	dist := &Distribution{Assignments: assignments, TargetSync: targetSync}
	if cursor.Cmp(r.end) <= 0 {
		rem, err := NewRange(cursor, r.End())
		if err != nil {
			return nil, err
		}
		dist.Remainder = &rem
	}
	return dist, nil
}

// DistributeTimeBoxed hands every worker the number of keys it can cover
// within the target window at its benchmarked rate, in roster order,
// until the range runs out. Workers after the cutoff receive nothing and
// capacity beyond the window is left as the Remainder for a later round.
func DistributeTimeBoxed(workers []Worker, r Range, targetSync time.Duration) (*Distribution, error) {
	if len(workers) == 0 {
		return nil, ErrNoWorkers
	}
	if targetSync <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, targetSync)
	}

	cursor := r.Start()
	one := big.NewInt(1)
	assignments := make([]Assignment, 0, len(workers))
	for _, w := range workers {
		if cursor.Cmp(r.end) > 0 {
			break
		}

		keys, _ := new(big.Float).SetFloat64(w.throughput * targetSync.Seconds()).Int(nil)
		if keys.Sign() == 0 {
			assignments = append(assignments, Assignment{Worker: w})
			continue
		}

		end := new(big.Int).Add(cursor, keys)
		end.Sub(end, one)
		if end.Cmp(r.end) > 0 {
			end.Set(r.end)
		}
		sub, err := NewRange(cursor, end)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, Assignment{Worker: w, Subrange: &sub})
		cursor = new(big.Int).Add(end, one)
	}

	dist := &Distribution{Assignments: assignments, TargetSync: targetSync}
	if cursor.Cmp(r.end) <= 0 {
		rem, err := NewRange(cursor, r.End())
		if err != nil {
			return nil, err
		}
		dist.Remainder = &rem
	}
	return dist, nil
}
