// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package walk

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/rs/zerolog"

	. "github.com/puzzlehunt/puzzlehunt/hunt/search/common"
	"github.com/puzzlehunt/puzzlehunt/keyspace"
	"github.com/puzzlehunt/puzzlehunt/probe"
)

type matchAllProber struct{}

func (matchAllProber) Probe(candidate *big.Int) (*probe.Match, error) {
	return &probe.Match{Key: new(big.Int).Set(candidate), Address: "hit"}, nil
}

type matchNoneProber struct{}

func (matchNoneProber) Probe(*big.Int) (*probe.Match, error) {
	return nil, nil
}

type recordingProber struct {
	keys []*big.Int
}

func (r *recordingProber) Probe(candidate *big.Int) (*probe.Match, error) {
	r.keys = append(r.keys, new(big.Int).Set(candidate))
	return nil, nil
}

func testRange(t *testing.T, startHex, endHex string) keyspace.Range {
	t.Helper()
	r, err := keyspace.ParseRange(startHex, endHex)
	if err != nil {
		t.Fatalf("ParseRange(%s, %s) returned error: %v", startHex, endHex, err)
	}
	return r
}

func newTestWalk(r keyspace.Range, p probe.Prober, length, adapt, batch uint64) *Walk {
	return &Walk{
		Range:  r,
		Prober: p,
		Shared: NewShared(),
		Length: length,
		Adapt:  adapt,
		Batch:  batch,
		Seed:   42,
		Logger: zerolog.Nop(),
	}
}

func TestAdaptiveExhaustsBudget(t *testing.T) {
	w := newTestWalk(testRange(t, "1", "2710"), matchNoneProber{}, 500, 100, 50)

	m, err := NewAdaptive().Search(context.Background(), w)
	if m != nil {
		t.Fatalf("match = %v, want nil", m)
	}
	if !errors.Is(err, ErrSearchExhausted) {
		t.Fatalf("error = %v, want ErrSearchExhausted", err)
	}
	if w.State != StateExhausted {
		t.Errorf("state = %s, want exhausted", w.State)
	}

	probes := w.Shared.Probes.Load()
	if probes == 0 || probes > 500 {
		t.Errorf("probes = %d, want within (0, 500]", probes)
	}
}

func TestAdaptiveFindsImmediately(t *testing.T) {
	w := newTestWalk(testRange(t, "64", "c8"), matchAllProber{}, 1000, 100, 50)

	m, err := NewAdaptive().Search(context.Background(), w)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if m == nil {
		t.Fatal("match = nil, want first candidate")
	}
	if w.State != StateFound {
		t.Errorf("state = %s, want found", w.State)
	}
	if !w.Range.Contains(m.Key) {
		t.Errorf("match key %s outside range %s", m.Key.Text(16), w.Range)
	}
	if got := w.Shared.Probes.Load(); got != 1 {
		t.Errorf("probes = %d, want 1", got)
	}
}

func TestAdaptiveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := newTestWalk(testRange(t, "1", "2710"), matchNoneProber{}, 100000, 1000, 1)

	m, err := NewAdaptive().Search(ctx, w)
	if m != nil {
		t.Fatalf("match = %v, want nil", m)
	}
	if !errors.Is(err, ErrSearchCancelled) {
		t.Fatalf("error = %v, want ErrSearchCancelled", err)
	}
	if w.State != StateCancelled {
		t.Errorf("state = %s, want cancelled", w.State)
	}
}

// Hops are taken modulo the range width, so every candidate must fall
// inside the assigned range no matter how the strategies mutate the
// stride.
func TestAdaptiveStaysInRange(t *testing.T) {
	rec := &recordingProber{}
	w := newTestWalk(testRange(t, "64", "c8"), rec, 400, 50, 25)

	if _, err := NewAdaptive().Search(context.Background(), w); !errors.Is(err, ErrSearchExhausted) {
		t.Fatalf("error = %v, want ErrSearchExhausted", err)
	}

	for _, k := range rec.keys {
		if !w.Range.Contains(k) {
			t.Fatalf("probed key %s outside range %s", k.Text(16), w.Range)
		}
	}
	if len(rec.keys) == 0 {
		t.Fatal("no keys probed")
	}
}

func TestAdaptiveDeterministicSeed(t *testing.T) {
	run := func(seed uint64) []*big.Int {
		rec := &recordingProber{}
		w := newTestWalk(testRange(t, "1", "f4240"), rec, 200, 50, 25)
		w.Seed = seed
		if _, err := NewAdaptive().Search(context.Background(), w); !errors.Is(err, ErrSearchExhausted) {
			t.Fatalf("error = %v, want ErrSearchExhausted", err)
		}
		return rec.keys
	}

	first, second := run(7), run(7)
	if len(first) != len(second) {
		t.Fatalf("runs with equal seeds probed %d vs %d keys", len(first), len(second))
	}
	for i := range first {
		if first[i].Cmp(second[i]) != 0 {
			t.Fatalf("runs with equal seeds diverge at probe %d: %s vs %s",
				i, first[i].Text(16), second[i].Text(16))
		}
	}

	other := run(8)
	same := len(other) == len(first)
	if same {
		for i := range first {
			if first[i].Cmp(other[i]) != 0 {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("runs with different seeds produced identical walks")
	}
}

func TestStrategiesKeepInvariants(t *testing.T) {
	w := newTestWalk(testRange(t, "1", "64"), matchNoneProber{}, 10, 5, 5)
	ws := newWalkState(w)

	for _, s := range []strategy{hop{}, stride{}, recenter{}} {
		s.apply(ws)
		if ws.step.Sign() <= 0 {
			t.Errorf("strategy %s left step = %s, want >= 1", s.name(), ws.step)
		}
		if ws.pos.Sign() < 0 || ws.pos.Cmp(ws.width) >= 0 {
			t.Errorf("strategy %s left pos = %s, want within [0, width)", s.name(), ws.pos)
		}
	}

	ws.seen["deadbeef"] = struct{}{}
	recenter{}.apply(ws)
	if len(ws.seen) != 0 {
		t.Errorf("recenter left %d visited entries, want 0", len(ws.seen))
	}
}
