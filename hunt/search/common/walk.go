// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

import (
	"github.com/rs/zerolog"

	"github.com/puzzlehunt/puzzlehunt/keyspace"
	"github.com/puzzlehunt/puzzlehunt/probe"
)

// Walk is one unit of concurrent search: a goroutine roaming or
// sweeping its range until it finds a target, covers its budget, or is
// cancelled. The scheduler builds walks and reads State back after the
// goroutines join; while running, a walk's searcher is the only writer.
type Walk struct {
	ID     int
	Range  keyspace.Range
	Prober probe.Prober
	Shared *Shared
	Length uint64 // probe budget; ignored by exhaustive searchers
	Adapt  uint64 // probes between adaptation ticks
	Batch  uint64 // probes between count flush and cancellation poll
	Seed   uint64
	Logger zerolog.Logger

	State State
}
