// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package keyspace

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidWorker = errors.New("invalid worker")

// Worker is a benchmarked machine taking part in a distributed search.
// Throughput is in keys per second and must be positive and finite.
type Worker struct {
	name       string
	throughput float64
}

func NewWorker(name string, throughput float64) (Worker, error) {
	if name == "" {
		return Worker{}, fmt.Errorf("%w: empty name", ErrInvalidWorker)
	}
	if throughput <= 0 || math.IsNaN(throughput) || math.IsInf(throughput, 0) {
		return Worker{}, fmt.Errorf("%w: %q throughput=%v", ErrInvalidWorker, name, throughput)
	}
	return Worker{name: name, throughput: throughput}, nil
}

func (w Worker) Name() string { return w.name }

func (w Worker) Throughput() float64 { return w.throughput }
