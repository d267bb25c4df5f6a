// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package walk

import (
	"context"

	. "github.com/puzzlehunt/puzzlehunt/hunt/search/common"
	"github.com/puzzlehunt/puzzlehunt/probe"
)

// Adaptive is a biased random walk over the whole assigned range:
// mostly forward hops with a variable stride, with periodic strategy
// changes and a teleport whenever the walk detects it is retreading
// old ground. It trades guaranteed coverage for the chance of landing
// near the key early, so several adaptive walks share one range
// instead of splitting it.
type Adaptive struct{}

func NewAdaptive() *Adaptive {
	return &Adaptive{}
}

func (a *Adaptive) Exhaustive() bool { return false }

func (a *Adaptive) Search(ctx context.Context, w *Walk) (*probe.Match, error) {
	w.State = StateRunning
	ws := newWalkState(w)

	var sinceBatch, sinceAdapt uint64
	for i := uint64(0); i < w.Length; i++ {
		// A nil key means the position was already visited and the walk
		// teleported; the iteration is spent either way.
		if key := ws.next(); key != nil {
			m, err := w.Prober.Probe(key)
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
		}
		sinceAdapt++

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

		if w.Adapt > 0 && sinceAdapt >= w.Adapt {
			w.State = StateAdapting
			name := ws.adapt()
			w.State = StateRunning
			sinceAdapt = 0
			w.Logger.Debug().Msgf("w[%d] adapting: %s | step=%s", w.ID, name, ws.step)

			select {
			case <-ctx.Done():
				w.Shared.Probes.Add(sinceBatch)
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
