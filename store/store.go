// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

// Package store reads worker rosters and writes distribution plans and
// found keys as JSON files, the interchange format between the
// coordinator and the machines running slices of a search.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/puzzlehunt/puzzlehunt/hunt"
	"github.com/puzzlehunt/puzzlehunt/keyspace"
)

// ErrNoMatch is returned when asked to record an outcome without a
// found key.
var ErrNoMatch = errors.New("outcome holds no match")

// WorkerEntry is one roster line in a workers file.
type WorkerEntry struct {
	Name          string  `json:"name"`
	KeysPerSecond float64 `json:"keys_per_second"`
}

// LoadWorkers reads a roster file and validates every entry.
func LoadWorkers(path string) ([]keyspace.Worker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workers file: %w", err)
	}

	var entries []WorkerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing workers file %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("workers file %s: empty roster", path)
	}

	workers := make([]keyspace.Worker, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		w, err := keyspace.NewWorker(e.Name, e.KeysPerSecond)
		if err != nil {
			return nil, fmt.Errorf("workers file %s entry %d: %w", path, i, err)
		}
		// Workers are identified by name; a duplicate would make the
		// report ambiguous about who searches what.
		if _, dup := seen[w.Name()]; dup {
			return nil, fmt.Errorf("workers file %s entry %d: duplicate worker %q", path, i, w.Name())
		}
		seen[w.Name()] = struct{}{}
		workers = append(workers, w)
	}
	return workers, nil
}

// RangeRecord is an inclusive hex key range inside a report.
type RangeRecord struct {
	StartHex string `json:"start_hex"`
	EndHex   string `json:"end_hex"`
}

func newRangeRecord(r *keyspace.Range) *RangeRecord {
	if r == nil {
		return nil
	}
	return &RangeRecord{
		StartHex: fmt.Sprintf("%x", r.Start()),
		EndHex:   fmt.Sprintf("%x", r.End()),
	}
}

// AssignmentRecord describes one worker's slice of the keyspace. A
// worker whose share floored to zero keys keeps its roster line but
// carries no range. RangeSize is a decimal string since slices of the
// larger puzzles overflow uint64.
type AssignmentRecord struct {
	WorkerName           string  `json:"worker_name"`
	KeysPerSecond        float64 `json:"keys_per_second"`
	StartHex             string  `json:"start_hex,omitempty"`
	EndHex               string  `json:"end_hex,omitempty"`
	RangeSize            string  `json:"range_size"`
	EstimatedTimeMinutes float64 `json:"estimated_time_minutes"`
}

// DistributionReport is the saved output of a distribution round. The
// total estimate is the slowest worker's, everyone searches in
// parallel.
type DistributionReport struct {
	ReportID                  string             `json:"report_id"`
	GeneratedAt               time.Time          `json:"generated_at"`
	TargetSyncMinutes         float64            `json:"target_sync_minutes,omitempty"`
	WorkerRanges              []AssignmentRecord `json:"worker_ranges"`
	RemainingRange            *RangeRecord       `json:"remaining_range,omitempty"`
	TotalWorkers              int                `json:"total_workers"`
	TotalEstimatedTimeMinutes float64            `json:"total_estimated_time_minutes"`
}

func NewDistributionReport(d *keyspace.Distribution) *DistributionReport {
	records := make([]AssignmentRecord, 0, len(d.Assignments))
	for _, a := range d.Assignments {
		rec := AssignmentRecord{
			WorkerName:           a.Worker.Name(),
			KeysPerSecond:        a.Worker.Throughput(),
			RangeSize:            a.Width().String(),
			EstimatedTimeMinutes: a.EstimatedSeconds() / 60,
		}
		if a.Subrange != nil {
			rec.StartHex = fmt.Sprintf("%x", a.Subrange.Start())
			rec.EndHex = fmt.Sprintf("%x", a.Subrange.End())
		}
		records = append(records, rec)
	}

	return &DistributionReport{
		ReportID:                  uuid.NewString(),
		GeneratedAt:               time.Now().UTC(),
		TargetSyncMinutes:         d.TargetSync.Minutes(),
		WorkerRanges:              records,
		RemainingRange:            newRangeRecord(d.Remainder),
		TotalWorkers:              len(d.Assignments),
		TotalEstimatedTimeMinutes: d.MaxEstimatedSeconds() / 60,
	}
}

// SaveDistribution writes the distribution report to path.
func SaveDistribution(d *keyspace.Distribution, path string) error {
	return writeJSON(path, NewDistributionReport(d))
}

// MatchRecord is the persisted form of a found key.
type MatchRecord struct {
	RunID          string    `json:"run_id"`
	FoundAt        time.Time `json:"found_at"`
	PrivateKeyHex  string    `json:"private_key_hex"`
	Address        string    `json:"address"`
	KeysTested     uint64    `json:"keys_tested"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
}

func NewMatchRecord(o *hunt.Outcome) (*MatchRecord, error) {
	if !o.Found() {
		return nil, ErrNoMatch
	}
	return &MatchRecord{
		RunID:          o.RunID,
		FoundAt:        time.Now().UTC(),
		PrivateKeyHex:  o.Match.KeyHex(),
		Address:        o.Match.Address,
		KeysTested:     o.Probes,
		ElapsedSeconds: o.Elapsed.Seconds(),
	}, nil
}

// SaveMatch writes the outcome's found key to path. A key sitting only
// in a terminal scrollback is a key waiting to be lost.
func SaveMatch(o *hunt.Outcome, path string) error {
	rec, err := NewMatchRecord(o)
	if err != nil {
		return err
	}
	return writeJSON(path, rec)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
