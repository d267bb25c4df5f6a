// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package bench

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
)

// Detector reports how many hardware threads are worth using; tests
// swap it for a fixed value.
type Detector interface {
	Available() int
}

// SystemDetector asks gopsutil for the logical core count and falls
// back to the Go runtime when that fails.
type SystemDetector struct{}

func (SystemDetector) Available() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// CPUModel names the processor the benchmark ran on, best effort.
func CPUModel() string {
	infos, err := cpu.Info()
	if err != nil || len(infos) == 0 {
		return "unknown"
	}
	return infos[0].ModelName
}
