// Command itqlsh is an illustrative CLI wrapper around the ITQ-LSH
// index: training a fresh index from a vector source, persisting it to
// shard files, and answering a single query against either the
// in-memory or file-backed path. The core algorithm lives in
// pkg/itq and pkg/shardstore; this command is deliberately out of THE
// CORE's scope.
package main

import (
	"log"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	itqlsh "github.com/liliang-cn/itqlsh"
)

var (
	dataDir  string
	indexDir string
	verbose  bool

	paramL    int
	paramD    int
	paramN    int
	paramS    int
	paramI    int
	paramSeed int64

	singleMaxMiB int
	maxMemoryMiB int

	queryK int
	queryR int
)

var rootCmd = &cobra.Command{
	Use:   "itqlsh",
	Short: "ITQ-LSH approximate nearest-neighbor index",
	Long:  "Train, save, and query an Iterative-Quantization LSH index over fixed-dimensional vectors.",
}

func newLogger() itqlsh.Logger {
	level := itqlsh.LevelInfo
	if verbose {
		level = itqlsh.LevelDebug
	}
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		// both branches write the same structured key=value lines to
		// stderr; interactive runs get no extra framing either.
		return itqlsh.NewLogger(os.Stderr, level)
	}
	return itqlsh.NewStdLogger(level)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "vector source directory (data.meta + data_<i>.bin shards)")
	rootCmd.PersistentFlags().StringVar(&indexDir, "index", "", "index output/input directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	buildCmd.Flags().IntVar(&paramL, "L", 4, "number of hash tables")
	buildCmd.Flags().IntVar(&paramD, "D", 0, "vector dimensionality (0: read from data.meta)")
	buildCmd.Flags().IntVar(&paramN, "N", 16, "bits per code")
	buildCmd.Flags().IntVar(&paramS, "S", 1000, "training sample size per table")
	buildCmd.Flags().IntVar(&paramI, "I", 50, "ITQ refinement iterations")
	buildCmd.Flags().Int64Var(&paramSeed, "seed", 1, "base PRNG seed")

	saveCmd.Flags().IntVar(&singleMaxMiB, "single-max-mib", 100, "target shard size in MiB")
	saveCmd.Flags().IntVar(&paramI, "I", 50, "ITQ refinement iterations the index was built with (used in the shard directory name)")

	queryCmd.Flags().IntVar(&queryK, "K", 10, "number of results")
	queryCmd.Flags().IntVar(&queryR, "r", 0, "hamming expansion radius")
	queryCmd.Flags().IntVar(&maxMemoryMiB, "max-memory-mib", 512, "shard cache memory budget in MiB")
	queryCmd.Flags().BoolVar(&fromShards, "shards", false, "query the on-disk shard store instead of the in-memory index")

	rootCmd.AddCommand(buildCmd, saveCmd, queryCmd, importSQLiteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
