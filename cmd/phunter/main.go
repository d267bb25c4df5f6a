// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"os"
	"os/signal"
	"syscall"

	"github.com/puzzlehunt/puzzlehunt/bench"
	. "github.com/puzzlehunt/puzzlehunt/common"
	"github.com/puzzlehunt/puzzlehunt/hunt"
	"github.com/puzzlehunt/puzzlehunt/hunt/search"
	"github.com/puzzlehunt/puzzlehunt/keyspace"
	"github.com/puzzlehunt/puzzlehunt/probe"
	"github.com/puzzlehunt/puzzlehunt/puzzle"
	"github.com/puzzlehunt/puzzlehunt/store"
	"github.com/puzzlehunt/puzzlehunt/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename   = "phunter.conf"
	defaultDistributionFile = "worker_distribution.json"
	defaultMatchFile        = "found_key.json"
)

var (
	parser *flags.Parser
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {

	var cfg Config
	parser = flags.NewParser(&cfg, flags.Default|flags.PassDoubleDash)

	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}

	if cfg.Version {
		fmt.Println("Version:", utils.Version)
		return
	}

	configFilepath, err := utils.GetFullPath(defaultConfigFilename)
	if err != nil {
		exitWithError("unexpected error", err)
	}
	if opt := parser.FindOptionByShortName('c'); !optionDefined(opt) && utils.FileExists(configFilepath) {
		cfg.ConfigFile = configFilepath
	}

	if cfg.ConfigFile != "" {
		err := flags.NewIniParser(parser).ParseFile(cfg.ConfigFile)
		if err != nil {
			exitWithError("Failed to parse configuration file", err)
		}
	}

	logDir, err := getLogDir(cfg.ConfigFile)
	if err != nil {
		exitWithError("failed", err)
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Validate Threads
	if cfg.Threads < 0 {
		exitWithError(fmt.Sprintf("Invalid thread count: %d. It cannot be negative.", cfg.Threads), nil)
	}

	logger := utils.CreateFileLogger(filepath.Join(logDir, "phunter.log"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Benchmark {
		runBenchmark(ctx, &cfg, logger)
		return
	}

	catalogue := loadCatalogue(&cfg)

	if cfg.ListPuzzles {
		printCatalogue(catalogue)
		return
	}

	// A bare invocation has nothing to hunt; show where to start instead.
	if noModeSelected(&cfg) {
		printEasiest(catalogue, cfg.Easy)
		return
	}

	huntRange, puzzleAddr := resolveRange(&cfg, catalogue)

	if cfg.Distribute {
		runDistribute(&cfg, huntRange, logger)
		return
	}

	// Validate targets: the puzzle's address when hunting from the
	// catalogue, explicit -d flags otherwise.
	targets := cfg.Targets
	if puzzleAddr != "" {
		targets = append([]string{puzzleAddr}, targets...)
	}
	if len(targets) == 0 {
		exitWithError("Target address (-d, --target) is required when not hunting a puzzle.", nil)
	}

	runSearch(ctx, &cfg, huntRange, targets, logger)
}

func loadCatalogue(cfg *Config) []puzzle.Puzzle {
	if cfg.PuzzleFile == "" {
		return puzzle.Builtin()
	}
	puzzles, err := puzzle.Load(cfg.PuzzleFile)
	if err != nil {
		exitWithError("Failed to load puzzle catalogue", err)
	}
	return puzzles
}

func noModeSelected(cfg *Config) bool {
	return !optionDefined(parser.FindOptionByShortName('p')) &&
		!optionDefined(parser.FindOptionByLongName("start")) &&
		!optionDefined(parser.FindOptionByLongName("end")) &&
		!optionDefined(parser.FindOptionByShortName('d')) &&
		!cfg.Distribute
}

func resolveRange(cfg *Config, catalogue []puzzle.Puzzle) (keyspace.Range, string) {
	if opt := parser.FindOptionByShortName('p'); optionDefined(opt) {
		p, err := puzzle.ByNumber(catalogue, cfg.Puzzle)
		if err != nil {
			exitWithError(fmt.Sprintf("Puzzle #%d is not in the catalogue.", cfg.Puzzle), err)
		}
		r, err := p.Range()
		if err != nil {
			exitWithError(fmt.Sprintf("Puzzle #%d carries a malformed range.", cfg.Puzzle), err)
		}
		fmt.Printf("Loading puzzle #%d: %d bits, %v BTC reward\n", p.Number, p.Bits, p.RewardBTC)
		return r, p.Address
	}

	startOpt := parser.FindOptionByLongName("start")
	endOpt := parser.FindOptionByLongName("end")
	if !optionDefined(startOpt) || !optionDefined(endOpt) {
		exitWithError("Range (--start, --end) is required when not hunting a puzzle.", nil)
	}
	r, err := keyspace.ParseRange(cfg.Start, cfg.End)
	if err != nil {
		exitWithError("Invalid key range", err)
	}
	return r, ""
}

func runBenchmark(ctx context.Context, cfg *Config, logger zerolog.Logger) {
	fmt.Println("🚀 Starting CPU benchmark...")
	fmt.Printf("   CPU: %s\n", bench.CPUModel())

	res, err := bench.Run(ctx, probe.NewAddressProber(nil), bench.Options{
		Duration: cfg.Duration,
		Threads:  cfg.Threads,
		Logger:   logger,
	})
	if err != nil {
		exitWithError("Benchmark failed", err)
	}

	fmt.Println("\n📋 Benchmark results:")
	fmt.Printf("   Throughput: %.0f keys/second over %d threads\n", res.Throughput, res.Threads)
	fmt.Printf("   Keys tested: %d in %s\n", res.Samples, res.Elapsed.Round(time.Millisecond))
	fmt.Printf("   Keys in a %s sync window: %.0f\n", DefaultTargetSync, res.Throughput*DefaultTargetSync.Seconds())

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	entry, err := json.MarshalIndent([]store.WorkerEntry{{Name: hostname, KeysPerSecond: res.Throughput}}, "", "  ")
	if err != nil {
		exitWithError("unexpected error", err)
	}
	fmt.Println("\n💾 Roster entry for this machine:")
	fmt.Println(string(entry))
}

func runDistribute(cfg *Config, r keyspace.Range, logger zerolog.Logger) {
	if opt := parser.FindOptionByShortName('w'); !optionDefined(opt) {
		exitWithError("Worker roster (-w, --workers) is required for --distribute.", nil)
	}
	workers, err := store.LoadWorkers(cfg.WorkersFile)
	if err != nil {
		exitWithError("Failed to load worker roster", err)
	}

	var dist *keyspace.Distribution
	if cfg.TimeBoxed {
		dist, err = keyspace.DistributeTimeBoxed(workers, r, cfg.TargetSync)
	} else {
		dist, err = keyspace.Distribute(workers, r, cfg.TargetSync)
	}
	if err != nil {
		exitWithError("Distribution failed", err)
	}

	printDistribution(dist)

	output := cfg.Output
	if output == "" {
		output = defaultDistributionFile
	}
	if err := store.SaveDistribution(dist, output); err != nil {
		exitWithError("Failed to save distribution report", err)
	}
	fmt.Printf("\n💾 Distribution saved to %s\n", output)
	logger.Info().Msgf("distribution for %s saved to %s", r, output)
}

func runSearch(ctx context.Context, cfg *Config, r keyspace.Range, targets []string, logger zerolog.Logger) {
	mode := "linear"
	if cfg.RandomWalk {
		mode = "random-walk"
	}
	searcher, err := search.Parse(mode)
	if err != nil {
		exitWithError("unexpected error", err)
	}

	params, err := searchParameters(ctx, cfg, logger)
	if err != nil {
		exitWithError("Failed to size the search", err)
	}

	fmt.Println("\nConfiguration:")
	fmt.Printf("  Mode: %s\n", mode)
	fmt.Printf("  Range: %s\n", r)
	if len(targets) < 5 {
		fmt.Printf("  Targets (%d): %v\n", len(targets), targets)
	} else {
		fmt.Printf("  Targets (%d): %v ...\n", len(targets), targets[:5])
	}
	fmt.Printf("  Walks: %d\n", params.WalkCount)
	if cfg.RandomWalk {
		fmt.Printf("  Walk length: %d\n", params.WalkLength)
		fmt.Printf("  Adaptation interval: %d\n", params.AdaptInterval)
	}
	fmt.Printf("  Batch size: %d\n", cfg.BatchSize)
	fmt.Print("\n\n")

	scheduler, err := hunt.NewScheduler(hunt.SchedulerConfig{
		Range:    r,
		Prober:   probe.NewAddressProber(targets),
		Searcher: searcher,
		Params:   params,
		Batch:    cfg.BatchSize,
		Seed:     cfg.Seed,
		Logger:   logger,
	})
	if err != nil {
		exitWithError("Failed to build the scheduler", err)
	}

	outcome := scheduler.Run(ctx)

	fmt.Printf("\nSearch completed in %s\n", outcome.Elapsed.Round(time.Millisecond))
	fmt.Printf("Total keys checked: %d\n", outcome.Probes)
	if secs := outcome.Elapsed.Seconds(); secs > 0 {
		fmt.Printf("Keys per second: %.2f\n", float64(outcome.Probes)/secs)
	}

	if !outcome.Found() {
		fmt.Println("No match found in the specified range.")
		return
	}

	fmt.Println("🎉 MATCH FOUND!")
	fmt.Printf("Private Key: %s\n", outcome.Match.KeyHex())
	fmt.Printf("Address: %s\n", outcome.Match.Address)

	output := cfg.Output
	if output == "" {
		output = defaultMatchFile
	}
	if err := store.SaveMatch(outcome, output); err != nil {
		logger.Error().Err(err).Msg("failed to save found key")
		return
	}
	fmt.Printf("💾 Key saved to %s\n", output)
}

// searchParameters sizes the run: a linear sweep spawns one walk per
// thread, a random walk derives its shape from a quick throughput
// sample of this machine.
func searchParameters(ctx context.Context, cfg *Config, logger zerolog.Logger) (hunt.Parameters, error) {
	if !cfg.RandomWalk {
		threads := cfg.Threads
		if threads == 0 {
			threads = bench.SystemDetector{}.Available()
		}
		return hunt.Parameters{WalkCount: threads, WalkLength: 1, AdaptInterval: 1}, nil
	}

	res, err := bench.Run(ctx, probe.NewAddressProber(nil), bench.Options{
		Duration: QuickBenchmarkDuration,
		Threads:  cfg.Threads,
		Logger:   logger,
	})
	if err != nil {
		return hunt.Parameters{}, err
	}

	params, err := hunt.ComputeParameters(res.Throughput, cfg.Runtime)
	if err != nil {
		return hunt.Parameters{}, err
	}

	fmt.Println("🎯 Auto-calculated random walk parameters:")
	fmt.Printf("   Number of walks: %d\n", params.WalkCount)
	fmt.Printf("   Iterations per walk: %d\n", params.WalkLength)
	fmt.Printf("   Adaptation interval: %d\n", params.AdaptInterval)
	fmt.Printf("   Total keys to test: %d\n", params.TotalBudget())
	fmt.Printf("   Estimated runtime: %.1f seconds\n", float64(params.TotalBudget())/res.Throughput)

	return params, nil
}

func printCatalogue(puzzles []puzzle.Puzzle) {
	fmt.Println("Available unsolved Bitcoin puzzles:")
	fmt.Println("┌────────┬──────┬─────────────┬──────────────────────────────────────┐")
	fmt.Println("│ Puzzle │ Bits │ Reward (BTC)│ Address                              │")
	fmt.Println("├────────┼──────┼─────────────┼──────────────────────────────────────┤")
	for _, p := range puzzles {
		fmt.Printf("│ %6d │ %4d │ %11.1f │ %-36s │\n", p.Number, p.Bits, p.RewardBTC, p.Address)
	}
	fmt.Println("└────────┴──────┴─────────────┴──────────────────────────────────────┘")
}

func printEasiest(puzzles []puzzle.Puzzle, count int) {
	easy := puzzle.Easiest(puzzles, count)
	fmt.Printf("Top %d easiest unsolved puzzles:\n", len(easy))
	for _, p := range easy {
		fmt.Printf("Puzzle #%d: %d bits, %v BTC reward\n", p.Number, p.Bits, p.RewardBTC)
		fmt.Printf("  Range: %s to %s\n", p.RangeStart, p.RangeEnd)
		fmt.Printf("  Address: %s\n", p.Address)
		fmt.Println()
	}
}

func printDistribution(d *keyspace.Distribution) {
	fmt.Println("\n📊 Worker distribution:")
	for i, a := range d.Assignments {
		fmt.Printf("Worker #%d: %s\n", i+1, a.Worker.Name())
		if a.Subrange == nil {
			fmt.Println("  Range: none (share floored to zero keys)")
			continue
		}
		fmt.Printf("  Range: %s\n", a.Subrange)
		fmt.Printf("  Range Size: %s keys\n", a.Width())
		fmt.Printf("  Estimated Time: %.2f minutes\n", a.EstimatedSeconds()/60)
	}
	if d.Remainder != nil {
		fmt.Printf("Remaining range: %s\n", d.Remainder)
		if len(d.Assignments) == 0 {
			fmt.Println("  Note: No workers available to process this range")
		}
	}
}

func getLogDir(configPath string) (string, error) {
	if _, err := os.Stat(configPath); err == nil {
		return filepath.Dir(configPath), nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check config file: %w", err)
	}

	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return filepath.Dir(exePath), nil
}

func exitWithError(msg string, err error) {
	log.Error().Err(err).Msg(msg)
	fmt.Println()
	parser.WriteHelp(os.Stdout)
	os.Exit(1)
}

func optionDefined(opt *flags.Option) bool {
	return opt != nil && opt.IsSet()
}
