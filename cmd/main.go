package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"motiffinder/internal/config"
	"motiffinder/internal/fasta"
	"motiffinder/internal/finder"
	"motiffinder/internal/logging"
	"motiffinder/internal/render"
	"motiffinder/internal/store"
)

// version is the program version. It can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

// exitWarning is the exit status for inputs rejected by validation.
const exitWarning = 2

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("motiffinder", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inputFlag := fs.String("in", "", "input file with one sequence per line (FASTA headers ignored); - for stdin")
	outputFlag := fs.String("out", "", "write the result as JSON to this path")
	configFlag := fs.String("config", "", "path to config.json (optional)")
	kFlag := fs.Int("k", 0, "motif length")
	algFlag := fs.String("algorithm", "", "search algorithm (only \"Greedy Search\" is implemented)")
	historyFlag := fs.String("history", "", "sqlite run history path (optional)")
	noAlignment := fs.Bool("no-alignment", false, "hide the motif alignment")
	noConsensus := fs.Bool("no-consensus", false, "hide the consensus motif")
	noPWM := fs.Bool("no-pwm", false, "hide the position weight matrix")
	noLogo := fs.Bool("no-logo", false, "hide the sequence logo section")
	dryRun := fs.Bool("dry-run", false, "validate the input without searching")
	verbose := fs.Bool("verbose", false, "enable verbose (debug) logging")
	versionFlag := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return exitWarning
	}

	if *versionFlag {
		fmt.Fprintln(stdout, "motiffinder", version)
		return 0
	}

	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}

	// merge CLI flags into config (flags override config when provided)
	if *inputFlag != "" {
		cfg.Input = *inputFlag
	}
	if *outputFlag != "" {
		cfg.OutputJSON = *outputFlag
	}
	if *kFlag != 0 {
		cfg.MotifLength = *kFlag
	}
	if *algFlag != "" {
		cfg.Algorithm = *algFlag
	}
	if *historyFlag != "" {
		cfg.HistoryDB = *historyFlag
	}

	logger, closeLog := logging.New(logging.Options{Out: stderr, LogFile: cfg.LogFile, Level: cfg.LogLevel, Verbose: *verbose})
	defer closeLog()
	logger.Debug("loaded config", "input", cfg.Input, "output_json", cfg.OutputJSON, "motif_length", cfg.MotifLength, "algorithm", cfg.Algorithm, "history_db", cfg.HistoryDB, "log_level", cfg.LogLevel)

	seqs, err := readInput(cfg.Input, stdin)
	if err != nil {
		logger.Error("failed to read input", "path", cfg.Input, "err", err)
		return 1
	}
	logger.Info("parsed input", "path", cfg.Input, "sequences", len(seqs))

	f := finder.New(finder.Options{
		MinMotifLength: cfg.MinMotifLength,
		MaxMotifLength: cfg.MaxMotifLength,
		MaxWorkload:    cfg.MaxWorkload,
	}, logger)
	req := finder.Request{Sequences: seqs, MotifLength: cfg.MotifLength, Algorithm: cfg.Algorithm}

	alg, err := f.Validate(req)
	if err != nil {
		fmt.Fprintln(stdout, render.Warning(finder.Warning(err)))
		logger.Debug("validation failed", "err", err)
		return exitWarning
	}
	if *dryRun {
		logger.Info("dry-run: input is valid, skipping search", "algorithm", alg, "k", cfg.MotifLength)
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	var history *store.Store
	if cfg.HistoryDB != "" {
		history, err = store.Open(ctx, cfg.HistoryDB)
		if err != nil {
			logger.Warn("run history unavailable", "path", cfg.HistoryDB, "err", err)
		} else {
			defer history.Close()
		}
	}

	res, err := search(ctx, f, history, req, alg, logger)
	if err != nil {
		if finder.IsValidation(err) {
			fmt.Fprintln(stdout, render.Warning(finder.Warning(err)))
			return exitWarning
		}
		logger.Error("search failed", "err", err)
		return 1
	}

	alignment, consensus, pwm, logo := cfg.View()
	view := render.View{
		Alignment: alignment && !*noAlignment,
		Consensus: consensus && !*noConsensus,
		PWM:       pwm && !*noPWM,
		Logo:      logo && !*noLogo,
	}
	fmt.Fprintln(stdout, render.Report(res, view))

	if cfg.OutputJSON != "" {
		if err := writeJSON(cfg.OutputJSON, res); err != nil {
			logger.Error("failed to write output JSON", "path", cfg.OutputJSON, "err", err)
			return 1
		}
		logger.Info("wrote output JSON", "path", cfg.OutputJSON)
	}
	return 0
}

// search answers from history when an identical request was stored, and
// records fresh results otherwise.
func search(ctx context.Context, f *finder.Finder, history *store.Store, req finder.Request, alg finder.Algorithm, logger *log.Logger) (*finder.Result, error) {
	if history != nil {
		res, ok, err := history.Lookup(ctx, alg, req.MotifLength, req.Sequences)
		if err != nil {
			logger.Warn("history lookup failed", "err", err)
		} else if ok {
			logger.Info("answered from run history", "id", store.Key(alg, req.MotifLength, req.Sequences))
			return res, nil
		}
	}
	res, err := f.Run(req)
	if err != nil {
		return nil, err
	}
	if history != nil {
		if run, err := history.Save(ctx, req.Sequences, res); err != nil {
			logger.Warn("failed to save run", "err", err)
		} else {
			logger.Debug("saved run", "id", run.ID)
		}
	}
	return res, nil
}

func readInput(path string, stdin io.Reader) ([]string, error) {
	if path == "" || path == "-" {
		return fasta.ReadSequences(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fasta.ReadSequences(f)
}

func writeJSON(path string, res *finder.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
