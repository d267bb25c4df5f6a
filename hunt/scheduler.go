// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package hunt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/puzzlehunt/puzzlehunt/hunt/search"
	. "github.com/puzzlehunt/puzzlehunt/hunt/search/common"
	"github.com/puzzlehunt/puzzlehunt/keyspace"
	"github.com/puzzlehunt/puzzlehunt/probe"
)

var ErrInvalidParameters = errors.New("invalid search parameters")

const (
	progressInterval = time.Second

	// adaptStagger desynchronizes the walks' adaptation ticks so they
	// do not all mutate strategy on the same probe count.
	adaptStagger uint64 = 200
)

// SchedulerConfig wires one search run together.
type SchedulerConfig struct {
	Range    keyspace.Range
	Prober   probe.Prober
	Searcher search.Searcher
	Params   Parameters
	Batch    uint64 // probes per flush/poll batch, 0 means DEFAULT_BATCH_SIZE
	Seed     uint64 // walk seed, 0 seeds from the clock
	Logger   zerolog.Logger
}

// Outcome is what a run leaves behind, found key or not. Partial
// progress survives early termination.
type Outcome struct {
	RunID      string
	Match      *probe.Match
	Probes     uint64
	Elapsed    time.Duration
	WalkStates []State
}

func (o *Outcome) Found() bool { return o.Match != nil }

type Scheduler struct {
	cfg SchedulerConfig
}

func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	if cfg.Prober == nil || cfg.Searcher == nil {
		return nil, errors.New("scheduler needs a prober and a searcher")
	}
	if !cfg.Range.Valid() {
		return nil, keyspace.ErrInvalidRange
	}
	p := cfg.Params
	if p.WalkCount < 1 || p.WalkLength < 1 || p.AdaptInterval < 1 || p.AdaptInterval > p.WalkLength {
		return nil, fmt.Errorf("%w: count=%d length=%d interval=%d",
			ErrInvalidParameters, p.WalkCount, p.WalkLength, p.AdaptInterval)
	}
	if cfg.Batch == 0 {
		cfg.Batch = DEFAULT_BATCH_SIZE
	}
	return &Scheduler{cfg: cfg}, nil
}

// Run drives the walks to a terminal state and reports the outcome. The
// first walk to publish a match cancels its peers; an external
// cancellation stops every walk at its next poll. Either way Run comes
// back with whatever progress was made.
func (s *Scheduler) Run(parent context.Context) *Outcome {
	runID := uuid.NewString()
	logger := s.cfg.Logger.With().Str("run", runID[:8]).Logger()

	p := s.cfg.Params

	// Exhaustive searchers sweep disjoint chunks; roaming searchers all
	// sample the full range. A range too narrow to chunk spawns fewer
	// walks rather than empty ones.
	var ranges []keyspace.Range
	if s.cfg.Searcher.Exhaustive() {
		ranges = keyspace.Chunks(s.cfg.Range, p.WalkCount)
	} else {
		ranges = make([]keyspace.Range, p.WalkCount)
		for i := range ranges {
			ranges[i] = s.cfg.Range
		}
	}

	seedBase := s.cfg.Seed
	if seedBase == 0 {
		seedBase = uint64(time.Now().UnixNano())
	}

	shared := NewShared()
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	walks := make([]*Walk, len(ranges))
	for i, r := range ranges {
		adapt := p.AdaptInterval + uint64(i)*adaptStagger
		if adapt > p.WalkLength {
			adapt = p.WalkLength
		}
		walks[i] = &Walk{
			ID:     i,
			Range:  r,
			Prober: s.cfg.Prober,
			Shared: shared,
			Length: p.WalkLength,
			Adapt:  adapt,
			Batch:  s.cfg.Batch,
			Seed:   seedBase,
			Logger: logger,
		}
	}

	logger.Info().Msgf("🌱 starting %d walks | len=%d adapt=%d batch=%d", len(walks), p.WalkLength, p.AdaptInterval, s.cfg.Batch)
	logger.Info().Msgf("range %s", s.cfg.Range)

	startime := time.Now()

	var wg sync.WaitGroup
	for _, w := range walks {
		wg.Add(1)
		go s.runWalk(ctx, cancel, w, &wg)
	}

	go func() {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				shared.LogProgress(logger, startime)

			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()

	outcome := &Outcome{
		RunID:      runID,
		Match:      shared.Match(),
		Probes:     shared.Probes.Load(),
		Elapsed:    time.Since(startime),
		WalkStates: make([]State, len(walks)),
	}
	for i, w := range walks {
		outcome.WalkStates[i] = w.State
	}

	if outcome.Found() {
		logger.Info().Msgf("✨ key found: %s", outcome.Match.KeyHex())
		logger.Info().Msgf("✨ address: %s", outcome.Match.Address)
	} else {
		logger.Info().Msgf("🏁 no match | %d keys tested in %s", outcome.Probes, outcome.Elapsed.Round(time.Millisecond))
	}
	return outcome
}

func (s *Scheduler) runWalk(ctx context.Context, cancel context.CancelFunc, w *Walk, wg *sync.WaitGroup) {
	defer func() {
		wg.Done()
		w.Logger.Debug().Msgf("w[%d] 🏁 %s", w.ID, w.State)
	}()

	w.Logger.Debug().Msgf("w[%d] range=%s", w.ID, w.Range)

	m, err := s.cfg.Searcher.Search(ctx, w)
	if m != nil {
		// Write-once: the first finder wins the slot and stops everyone
		// else, later finders are discarded.
		if w.Shared.PublishMatch(m) {
			cancel()
		}
		return
	}
	if !errors.Is(err, ErrSearchCancelled) && !errors.Is(err, ErrSearchExhausted) {
		w.Logger.Error().Err(err).Msgf("w[%d] search failed", w.ID)
		w.State = StateCancelled
	}
}
