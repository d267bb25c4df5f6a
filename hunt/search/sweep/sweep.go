// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package sweep

import (
	"context"
	"math/big"

	. "github.com/puzzlehunt/puzzlehunt/hunt/search/common"
	"github.com/puzzlehunt/puzzlehunt/probe"
)

// Linear sweeps its chunk one key at a time, front to back. Coverage is
// total: every key in the chunk is probed exactly once unless a find or
// a cancellation stops the run early, so the scheduler hands each
// linear walk a disjoint chunk.
type Linear struct{}

func NewLinear() *Linear {
	return &Linear{}
}

func (l *Linear) Exhaustive() bool { return true }

func (l *Linear) Search(ctx context.Context, w *Walk) (*probe.Match, error) {
	w.State = StateRunning

	cur := w.Range.Start()
	end := w.Range.End()
	one := big.NewInt(1)

	var sinceBatch uint64
	for cur.Cmp(end) <= 0 {
		m, err := w.Prober.Probe(cur)
		switch {
		case err != nil:
			w.Logger.Debug().Err(err).Msgf("w[%d] probe failed, skipping candidate", w.ID)
		case m != nil:
			w.Shared.Probes.Add(sinceBatch + 1)
			w.State = StateFound
			return m, nil
		default:
			sinceBatch++
		}

		cur.Add(cur, one)

		if sinceBatch >= w.Batch {
			w.Shared.Probes.Add(sinceBatch)
			sinceBatch = 0

			select {
			case <-ctx.Done():
				w.State = StateCancelled
				return nil, ErrSearchCancelled
			default:
			}
		}
	}

	w.Shared.Probes.Add(sinceBatch)
	w.State = StateExhausted
	return nil, ErrSearchExhausted
}
