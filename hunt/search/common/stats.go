// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/puzzlehunt/puzzlehunt/probe"
)

// Shared is the state every walk of a run mutates concurrently: the
// probe counter, which walks bump with their batched local counts, and
// the result slot, which the first finder wins.
type Shared struct {
	Probes atomic.Uint64

	result atomic.Pointer[probe.Match]

	lastProbes uint64
}

func NewShared() *Shared {
	return &Shared{}
}

// PublishMatch installs m as the winning key if no other walk got there
// first and reports whether this caller won the slot. Losing candidates
// are discarded, never overwritten.
func (s *Shared) PublishMatch(m *probe.Match) bool {
	return s.result.CompareAndSwap(nil, m)
}

func (s *Shared) Match() *probe.Match {
	return s.result.Load()
}

// LogProgress emits the periodic progress line. Only the scheduler's
// ticker goroutine calls it, so the delta bookkeeping needs no lock.
func (s *Shared) LogProgress(logger zerolog.Logger, startime time.Time) {
	total := s.Probes.Load()
	delta := total - s.lastProbes
	s.lastProbes = total

	rate := float64(total) / time.Since(startime).Seconds()
	logger.Debug().Msgf("%d keys tested | %.0f keys/s | +%d", total, rate, delta)
}
