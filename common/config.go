// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

import "time"

const (
	DefaultBenchmarkDuration = 5 * time.Second

	// QuickBenchmarkDuration sizes the throughput sample taken before a
	// random-walk run to derive its parameters.
	QuickBenchmarkDuration = 3 * time.Second

	DefaultTargetSync = 10 * time.Minute
)

type Config struct {
	ConfigFile  string        `short:"c" long:"config" description:"Path to configuration file"`
	Start       string        `long:"start" description:"Start of the private key range (hex, 0x prefix optional)"`
	End         string        `long:"end" description:"End of the private key range (hex, inclusive)"`
	Targets     []string      `short:"d" long:"target" description:"Target address to search for (repeat for several)"`
	Puzzle      uint32        `short:"p" long:"puzzle" description:"Puzzle number to hunt (loads range and target automatically)"`
	PuzzleFile  string        `long:"puzzleFile" description:"JSON catalogue replacing the builtin puzzle table"`
	ListPuzzles bool          `short:"l" long:"list" description:"List the puzzle catalogue and exit"`
	Easy        int           `long:"easy" default:"5" description:"Show the N easiest puzzles and exit"`
	Threads     int           `short:"t" long:"threads" description:"Number of threads to use (default: all available threads)"`
	BatchSize   uint64        `short:"b" long:"batchSize" default:"1000" description:"Probes per progress/cancellation batch"`
	RandomWalk  bool          `short:"r" long:"randomWalk" description:"Use the adaptive random walk instead of a linear sweep"`
	Seed        uint64        `long:"seed" description:"Walk seed for reproducible runs (0 seeds from the clock)"`
	Benchmark   bool          `long:"benchmark" description:"Benchmark this machine's key rate and exit"`
	Duration    time.Duration `long:"benchmarkDuration" default:"5s" description:"Benchmark length (e.g., 5s, 1m)"`
	Runtime     time.Duration `long:"targetRuntime" default:"90s" description:"Budget a random-walk run is sized for"`
	Distribute  bool          `long:"distribute" description:"Split the range across a worker roster and exit"`
	WorkersFile string        `short:"w" long:"workers" description:"Worker roster file for --distribute"`
	TargetSync  time.Duration `long:"targetSync" default:"10m" description:"Synchronization window for --distribute"`
	TimeBoxed   bool          `long:"timeBoxed" description:"Cap each worker's slice at the sync window instead of splitting the whole range"`
	Output      string        `short:"o" long:"output" description:"Output file for reports (distribution or found key)"`
	Verbose     bool          `long:"verbose" description:"Log at debug level"`
	Version     bool          `short:"v" description:"Print version"`
}
