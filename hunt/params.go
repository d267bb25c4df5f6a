// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package hunt

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/puzzlehunt/puzzlehunt/hunt/search/common"
)

var ErrNonPositiveThroughput = errors.New("non-positive throughput")

const (
	// DefaultTargetRuntime shapes walk parameters when the caller gives
	// no explicit budget.
	DefaultTargetRuntime = 90 * time.Second

	// budgetCap keeps the square-root extractions clear of uint64
	// overflow.
	budgetCap uint64 = 1 << 62

	adaptDivisor = 20
)

// Parameters shape one search run: how many concurrent walks to spawn,
// how many probes each performs, and how often a walk mutates its
// strategy.
type Parameters struct {
	WalkCount     int
	WalkLength    uint64
	AdaptInterval uint64
}

// TotalBudget is the combined probe budget of all walks.
func (p Parameters) TotalBudget() uint64 {
	return p.WalkLength * uint64(p.WalkCount)
}

// ComputeParameters sizes a run so the combined probe budget tracks
// throughput * targetRuntime. Every output is monotone in that budget:
// a faster machine or a longer runtime never yields a smaller walk
// count, walk length or adaptation interval. The shapes are
//
//	walk_count     = budget^(1/4), clamped to [1, MAX_WALK_COUNT]
//	walk_length    = budget^(1/2) * walk_count
//	adapt_interval = walk_length / 20, at least 1
//
// built from exact integer square roots, so no floating-point rounding
// can dent the monotonicity at step boundaries. A non-positive
// targetRuntime falls back to DefaultTargetRuntime.
func ComputeParameters(throughput float64, targetRuntime time.Duration) (Parameters, error) {
	if throughput <= 0 || math.IsNaN(throughput) || math.IsInf(throughput, 0) {
		return Parameters{}, fmt.Errorf("%w: %v", ErrNonPositiveThroughput, throughput)
	}
	if targetRuntime <= 0 {
		targetRuntime = DefaultTargetRuntime
	}

	budget := budgetFor(throughput, targetRuntime)

	count := isqrt(isqrt(budget))
	if count < 1 {
		count = 1
	}
	if count > common.MAX_WALK_COUNT {
		count = common.MAX_WALK_COUNT
	}

	length := isqrt(budget) * count
	if length < 1 {
		length = 1
	}

	interval := length / adaptDivisor
	if interval < 1 {
		interval = 1
	}

	return Parameters{
		WalkCount:     int(count),
		WalkLength:    length,
		AdaptInterval: interval,
	}, nil
}

func budgetFor(throughput float64, targetRuntime time.Duration) uint64 {
	b := throughput * targetRuntime.Seconds()
	if b >= float64(budgetCap) {
		return budgetCap
	}
	if b < 0 {
		return 0
	}
	return uint64(b)
}

// isqrt is the exact integer square root: the largest x with x*x <= n.
// The float seed is off by at most a few ulps and the correction loops
// repair it; n stays below budgetCap so x*x cannot overflow.
func isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := uint64(math.Sqrt(float64(n)))
	for x > 0 && x*x > n {
		x--
	}
	for (x+1)*(x+1) <= n {
		x++
	}
	return x
}
