// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package store

import (
	"encoding/json"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/puzzlehunt/puzzlehunt/hunt"
	"github.com/puzzlehunt/puzzlehunt/keyspace"
	"github.com/puzzlehunt/puzzlehunt/probe"
)

func mustWorker(t *testing.T, name string, rate float64) keyspace.Worker {
	t.Helper()
	w, err := keyspace.NewWorker(name, rate)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func mustRange(t *testing.T, start, end string) keyspace.Range {
	t.Helper()
	r, err := keyspace.ParseRange(start, end)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestLoadWorkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workers.json")
	body := `[
		{"name": "Server-1", "keys_per_second": 500000},
		{"name": "Server-2", "keys_per_second": 200000},
		{"name": "GPU-Rig", "keys_per_second": 2000000}
	]`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	workers, err := LoadWorkers(path)
	if err != nil {
		t.Fatalf("LoadWorkers: %v", err)
	}
	if len(workers) != 3 {
		t.Fatalf("len = %d, want 3", len(workers))
	}
	if workers[2].Name() != "GPU-Rig" || workers[2].Throughput() != 2000000 {
		t.Errorf("workers[2] = %s @ %v", workers[2].Name(), workers[2].Throughput())
	}
}

func TestLoadWorkersErrors(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	if _, err := LoadWorkers(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing file: expected error")
	}
	if _, err := LoadWorkers(write("bad.json", "{oops")); err == nil {
		t.Error("malformed file: expected error")
	}
	if _, err := LoadWorkers(write("empty.json", "[]")); err == nil {
		t.Error("empty roster: expected error")
	}

	badEntry := write("entry.json", `[{"name": "", "keys_per_second": 100}]`)
	if _, err := LoadWorkers(badEntry); !errors.Is(err, keyspace.ErrInvalidWorker) {
		t.Errorf("bad entry error = %v, want ErrInvalidWorker", err)
	}
	zeroRate := write("rate.json", `[{"name": "Server-1", "keys_per_second": 0}]`)
	if _, err := LoadWorkers(zeroRate); !errors.Is(err, keyspace.ErrInvalidWorker) {
		t.Errorf("zero rate error = %v, want ErrInvalidWorker", err)
	}

	dup := write("dup.json", `[
		{"name": "Server-1", "keys_per_second": 100},
		{"name": "Server-1", "keys_per_second": 200}
	]`)
	if _, err := LoadWorkers(dup); err == nil {
		t.Error("duplicate names: expected error")
	}
}

func TestSaveDistributionRoundTrip(t *testing.T) {
	workers := []keyspace.Worker{
		mustWorker(t, "Server-1", 1000),
		mustWorker(t, "Server-2", 3000),
	}
	dist, err := keyspace.Distribute(workers, mustRange(t, "1", "100"), 10*time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "distribution.json")
	if err := SaveDistribution(dist, path); err != nil {
		t.Fatalf("SaveDistribution: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var report DistributionReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("report did not parse back: %v", err)
	}

	if _, err := uuid.Parse(report.ReportID); err != nil {
		t.Errorf("report_id %q is not a uuid: %v", report.ReportID, err)
	}
	if report.TotalWorkers != 2 {
		t.Errorf("total_workers = %d, want 2", report.TotalWorkers)
	}
	if report.TargetSyncMinutes != 10 {
		t.Errorf("target_sync_minutes = %v, want 10", report.TargetSyncMinutes)
	}
	if report.RemainingRange != nil {
		t.Errorf("remaining_range = %+v, want absent", report.RemainingRange)
	}

	// 256 keys split 1:3.
	want := []AssignmentRecord{
		{WorkerName: "Server-1", KeysPerSecond: 1000, StartHex: "1", EndHex: "40", RangeSize: "64"},
		{WorkerName: "Server-2", KeysPerSecond: 3000, StartHex: "41", EndHex: "100", RangeSize: "192"},
	}
	if len(report.WorkerRanges) != len(want) {
		t.Fatalf("worker_ranges len = %d, want %d", len(report.WorkerRanges), len(want))
	}
	for i, w := range want {
		got := report.WorkerRanges[i]
		if got.WorkerName != w.WorkerName || got.StartHex != w.StartHex ||
			got.EndHex != w.EndHex || got.RangeSize != w.RangeSize {
			t.Errorf("worker_ranges[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestDistributionReportZeroShare(t *testing.T) {
	slow := mustWorker(t, "Raspberry", 0.0001)
	dist := &keyspace.Distribution{
		Assignments: []keyspace.Assignment{{Worker: slow}},
	}

	report := NewDistributionReport(dist)
	rec := report.WorkerRanges[0]
	if rec.StartHex != "" || rec.EndHex != "" {
		t.Errorf("zero-share record carries a range: %+v", rec)
	}
	if rec.RangeSize != "0" {
		t.Errorf("range_size = %q, want \"0\"", rec.RangeSize)
	}
	if rec.EstimatedTimeMinutes != 0 {
		t.Errorf("estimated_time_minutes = %v, want 0", rec.EstimatedTimeMinutes)
	}
}

func TestDistributionReportRemainder(t *testing.T) {
	workers := []keyspace.Worker{
		mustWorker(t, "Server-1", 100),
		mustWorker(t, "Server-2", 100),
		mustWorker(t, "Server-3", 100),
	}
	dist, err := keyspace.Distribute(workers, mustRange(t, "1", "a"), time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	report := NewDistributionReport(dist)
	if report.RemainingRange == nil {
		t.Fatal("remaining_range absent, want tail")
	}
	if report.RemainingRange.StartHex != "a" || report.RemainingRange.EndHex != "a" {
		t.Errorf("remaining_range = %+v, want [a, a]", report.RemainingRange)
	}
}

func TestSaveMatch(t *testing.T) {
	key, ok := new(big.Int).SetString("2832ed74f2b5e35ee", 16)
	if !ok {
		t.Fatal("bad key literal")
	}
	outcome := &hunt.Outcome{
		RunID: uuid.NewString(),
		Match: &probe.Match{
			Key:     key,
			Address: "1BY8GQbnueYofwSuFAT3USAhGjPrkxDdW9",
		},
		Probes:  123456,
		Elapsed: 90 * time.Second,
	}

	path := filepath.Join(t.TempDir(), "found_key.json")
	if err := SaveMatch(outcome, path); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rec MatchRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("record did not parse back: %v", err)
	}

	if rec.RunID != outcome.RunID {
		t.Errorf("run_id = %s, want %s", rec.RunID, outcome.RunID)
	}
	if rec.PrivateKeyHex != outcome.Match.KeyHex() {
		t.Errorf("private_key_hex = %s", rec.PrivateKeyHex)
	}
	if len(rec.PrivateKeyHex) != 64 {
		t.Errorf("private_key_hex length = %d, want 64", len(rec.PrivateKeyHex))
	}
	if rec.Address != outcome.Match.Address {
		t.Errorf("address = %s", rec.Address)
	}
	if rec.KeysTested != 123456 {
		t.Errorf("keys_tested = %d", rec.KeysTested)
	}
	if rec.ElapsedSeconds != 90 {
		t.Errorf("elapsed_seconds = %v", rec.ElapsedSeconds)
	}
}

func TestSaveMatchWithoutMatch(t *testing.T) {
	outcome := &hunt.Outcome{RunID: uuid.NewString()}
	err := SaveMatch(outcome, filepath.Join(t.TempDir(), "found_key.json"))
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("error = %v, want ErrNoMatch", err)
	}
}
