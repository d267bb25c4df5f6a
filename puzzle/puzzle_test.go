// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package puzzle

import (
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinRangesParse(t *testing.T) {
	for _, p := range Builtin() {
		r, err := p.Range()
		if err != nil {
			t.Fatalf("puzzle #%d: range did not parse: %v", p.Number, err)
		}

		wantWidth := new(big.Int).Lsh(big.NewInt(1), uint(p.Bits-1))
		if r.Width().Cmp(wantWidth) != 0 {
			t.Errorf("puzzle #%d: width = %s, want 2^%d", p.Number, r.Width(), p.Bits-1)
		}
		if p.Address == "" {
			t.Errorf("puzzle #%d: empty address", p.Number)
		}
	}
}

func TestByNumber(t *testing.T) {
	p, err := ByNumber(Builtin(), 67)
	if err != nil {
		t.Fatalf("ByNumber(67): %v", err)
	}
	if p.Address != "1BY8GQbnueYofwSuFAT3USAhGjPrkxDdW9" {
		t.Errorf("puzzle #67 address = %s", p.Address)
	}
	if p.RangeStart != "40000000000000000" || p.RangeEnd != "7ffffffffffffffff" {
		t.Errorf("puzzle #67 range = [%s, %s]", p.RangeStart, p.RangeEnd)
	}

	if _, err := ByNumber(Builtin(), 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("ByNumber(3) error = %v, want ErrNotFound", err)
	}
}

func TestEasiest(t *testing.T) {
	easy := Easiest(Builtin(), 3)
	if len(easy) != 3 {
		t.Fatalf("len = %d, want 3", len(easy))
	}
	for i, want := range []uint32{67, 68, 69} {
		if easy[i].Number != want {
			t.Errorf("easy[%d] = #%d, want #%d", i, easy[i].Number, want)
		}
	}

	all := Easiest(Builtin(), 100)
	if len(all) != len(Builtin()) {
		t.Errorf("oversized count: len = %d, want %d", len(all), len(Builtin()))
	}
	if got := Easiest(Builtin(), -1); len(got) != 0 {
		t.Errorf("negative count: len = %d, want 0", len(got))
	}
}

func TestEasiestDoesNotReorderInput(t *testing.T) {
	in := []Puzzle{
		{Number: 72, Bits: 72},
		{Number: 67, Bits: 67},
	}
	Easiest(in, 2)
	if in[0].Number != 72 {
		t.Error("input slice was reordered")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "puzzles.json")
	body := `[
		{"puzzle": 40, "bits": 40, "range_start": "8000000000", "range_end": "ffffffffff", "address": "1EeAxcprB2PpCnr34VfZdFrkUWuxyiNEFv", "reward_btc": 4.0}
	]`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	puzzles, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(puzzles) != 1 || puzzles[0].Number != 40 {
		t.Fatalf("unexpected catalogue: %+v", puzzles)
	}
	if puzzles[0].RewardBTC != 4.0 {
		t.Errorf("reward = %v, want 4.0", puzzles[0].RewardBTC)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file: expected error")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed file: expected error")
	}
}
