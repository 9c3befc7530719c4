// Command dedup deduplicates paired-end UMI-tagged sequencing reads,
// reproducing jfjlaros/dedup's CLI argument and log shape on top of the
// in-memory trie/clustering engine.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/jfjlaros/dedup"
	"github.com/jfjlaros/dedup/config"
	"github.com/jfjlaros/dedup/internal/ngs"
)

const (
	success = 0
	failure = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		flagDistance int
		flagOutput   string
		flagLog      string
		flagPolicy   string
	)

	pflag.IntVarP(&flagDistance, "distance", "d", 1, "maximum Hamming distance between neighbours")
	pflag.StringVarP(&flagOutput, "output", "o", "-", "output path ('-' for stdout)")
	pflag.StringVarP(&flagLog, "log", "l", "-", "log path ('-' for stderr)")
	pflag.StringVar(&flagPolicy, "policy", string(dedup.PolicyAdjacency), "clustering policy: adjacency or directional")
	pflag.Parse()

	args := pflag.Args()
	if len(args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: dedup [flags] read1 read2 umi length")
		return failure
	}
	read1, read2, umi := args[0], args[1], args[2]
	wordLength, err := strconv.Atoi(args[3])
	if err != nil || wordLength <= 0 {
		fmt.Fprintln(os.Stderr, "length must be a positive integer")
		return failure
	}

	logWriter, closeLog, err := openOrStd(flagLog, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open log file: %v\n", err)
		return failure
	}
	defer closeLog()

	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(logWriter).With().Timestamp().Logger()

	out, closeOut, err := openOrStd(flagOutput, os.Stdout)
	if err != nil {
		log.Error().Err(err).Msg("could not open output file")
		return failure
	}
	defer closeOut()

	source, err := ngs.Open([]string{read1, read2, umi}, wordLength)
	if err != nil {
		log.Error().Err(err).Msg("could not open input files")
		return failure
	}
	defer source.Close()

	cfg := config.Config{L: source.Length(), D: flagDistance, Policy: dedup.Policy(flagPolicy)}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return failure
	}

	end := logPhase(log, "Reading data")
	trie, total, inserted, err := dedup.BuildIndex(source, cfg.L, cfg.EffectiveSigma())
	end()
	if err != nil {
		log.Error().Err(err).Msg("could not build index")
		return failure
	}

	end = logPhase(log, "Calculating neighbours")
	dedup.BuildNeighbours(trie, flagDistance)
	end()

	end = logPhase(log, "Calculating clusters")
	clusters, err := dedup.Cluster(trie, dedup.Policy(flagPolicy))
	end()
	if err != nil {
		log.Error().Err(err).Msg("could not cluster")
		return failure
	}

	// Emit one line per cluster, the first time it is encountered. The
	// original emitted these in original-read order via a visited flag on
	// its (driver-only) Cluster struct; here the core Cluster type carries
	// no such field, so the driver tracks emitted IDs itself with a set
	// instead, walking leaves in trie (fingerprint) order rather than
	// original read order.
	end = logPhase(log, "Writing results")
	emitted := mapset.NewThreadUnsafeSet[int]()
	for _, leaf := range trie.Walk() {
		if len(leaf.Lines()) == 0 {
			continue
		}
		id := leaf.Cluster().ID
		if emitted.Contains(id) {
			continue
		}
		fmt.Fprintln(out, id)
		emitted.Add(id)
	}
	end()

	nonDuplicates := trie.Len()

	discardPct := 0.0
	if total > 0 {
		discardPct = 100 * float64(total-inserted) / float64(total)
	}
	nonDupPct := 0.0
	if inserted > 0 {
		nonDupPct = 100 * float64(nonDuplicates) / float64(inserted)
	}
	dupPct := 0.0
	if inserted > 0 {
		dupPct = 100 * float64(len(clusters)) / float64(inserted)
	}

	line := fmt.Sprintf(
		"read %d out of %d lines of length %d (%.2f%% discarded); "+
			"left after removing perfect duplicates: %d (%.2f%%); "+
			"left after removing nonperfect duplicates (distance %d): %d (%.2f%%)",
		inserted, total, cfg.L, discardPct, nonDuplicates, nonDupPct, flagDistance, len(clusters), dupPct)
	if terminalFile(logWriter) {
		line = color.New(color.FgCyan).Sprint(line)
	}
	log.Info().Msg(line)

	return success
}

// logPhase reproduces jfjlaros/dedup's startMessage/endMessage pair
// (log.cc): log that a phase started, and return a func to call when it
// ends, which logs the elapsed duration.
func logPhase(log zerolog.Logger, name string) func() {
	start := time.Now()
	log.Info().Msg(name + "...")
	return func() {
		log.Info().Dur("elapsed", time.Since(start)).Msg(name + " done")
	}
}

// terminalFile reports whether w is an *os.File connected to a terminal,
// so the summary line's coloring tracks the actual -l destination rather
// than color's package-global default, which only inspects os.Stdout and
// would otherwise leak raw ANSI escapes into a redirected log file.
func terminalFile(w *os.File) bool {
	return isatty.IsTerminal(w.Fd())
}

// openOrStd opens path for writing, or returns std unmodified (with a
// no-op closer) when path is "-".
func openOrStd(path string, std *os.File) (*os.File, func() error, error) {
	if path == "-" {
		return std, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return f, f.Close, nil
}
