package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/cache-sim/cache-sim/sim"
)

var (
	// CLI flags shared by the simulation subcommands
	logLevel string // Log verbosity level
	sets     int    // Number of cache sets
	ways     int    // Associativity (lines per set)
	lineSize int    // Bytes per cache line
	policy   string // Replacement policy name
	preset   string // Named geometry preset from geometries.yaml
	seed     int64  // Seed for weighted-switch expansion in program traces

	// CLI flags for the timed instruction-cache variant
	hitCycles   int64 // Cycles charged per cache hit
	missCycles  int64 // Cycles charged per cache miss
	clockMHz    int64 // Clock speed for the time estimate
	logAccesses bool  // Emit the per-access log in the report
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cache-sim",
	Short: "Trace-driven cache simulator",
}

// runCmd executes the timed instruction-cache simulation
var runCmd = &cobra.Command{
	Use:   "run <trace-file>",
	Short: "Run the timed instruction-cache simulation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		geom, clock := resolveGeometry()
		cfg := sim.SimConfig{
			HitCycles:   hitCycles,
			MissCycles:  missCycles,
			LogAccesses: logAccesses,
			ClockMHz:    clock,
		}

		logrus.Infof("Starting simulation: %d sets x %d ways x %dB lines, policy=%s",
			geom.Sets, geom.Ways, geom.LineSize, policy)

		s := sim.NewSimulator(geom, policy, cfg)
		s.Seed = seed
		report, err := s.Run(readTrace(args[0]))
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		fmt.Println(report)
	},
}

// lruCmd executes the counts-only LRU simulation
var lruCmd = &cobra.Command{
	Use:   "lru <trace-file>",
	Short: "Run the counts-only LRU cache simulation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		geom, _ := resolveGeometry()

		s := &sim.Simulator{Geometry: geom, Policy: sim.PolicyLRU, Seed: seed}
		report, err := s.RunCounts(readTrace(args[0]))
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		fmt.Println(report)
	},
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// resolveGeometry builds the cache shape from flags, letting a named
// preset override the individual geometry flags when given.
func resolveGeometry() (sim.Geometry, int64) {
	if preset == "" {
		return sim.Geometry{Sets: sets, Ways: ways, LineSize: lineSize}, clockMHz
	}
	p, err := GetGeometryPreset(preset)
	if err != nil {
		logrus.Fatalf("Could not resolve geometry preset: %v", err)
	}
	return sim.Geometry{Sets: p.Sets, Ways: p.Ways, LineSize: p.LineSize}, p.ClockMHz
}

func readTrace(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("Unable to read trace file: %v", err)
	}
	return string(data)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, lruCmd} {
		c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().IntVar(&sets, "sets", sim.DefaultGeometry.Sets, "Number of cache sets (power of two)")
		c.Flags().IntVar(&ways, "ways", sim.DefaultGeometry.Ways, "Associativity: lines per set (0 = cache holds nothing)")
		c.Flags().IntVar(&lineSize, "line-size", sim.DefaultGeometry.LineSize, "Bytes per cache line (power of two)")
		c.Flags().StringVar(&preset, "preset", "", "Named geometry preset from geometries.yaml")
		c.Flags().Int64Var(&seed, "seed", 0, "Seed for weighted-switch expansion in program traces")
	}

	// timed variant only
	runCmd.Flags().StringVar(&policy, "policy", sim.PolicyLRU, "Replacement policy (lru, fifo)")
	runCmd.Flags().Int64Var(&hitCycles, "hit-cycles", 1, "Cycles charged per cache hit")
	runCmd.Flags().Int64Var(&missCycles, "miss-cycles", 100, "Cycles charged per cache miss")
	runCmd.Flags().Int64Var(&clockMHz, "clock-mhz", 1600, "Clock speed for the time estimate (0 disables it)")
	runCmd.Flags().BoolVar(&logAccesses, "log-accesses", false, "Append the per-access log to the report")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(lruCmd)
}
