// Package finder is the entry point front ends use to run a motif search. It
// turns raw input into sequences, applies the boundary checks (algorithm,
// sequence count and length, alphabet, motif length range, workload cap) and
// runs the selected algorithm. A search either returns a complete Result or a
// validation error; there is no partial output.
package finder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"motiffinder/internal/fasta"
	"motiffinder/internal/motif"
)

// LogoPlaceholder stands in for the sequence logo view.
const LogoPlaceholder = "Sequence logo visualization coming soon!"

var (
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrMotifLengthRange     = errors.New("motif length out of range")
	ErrWorkloadTooLarge     = errors.New("input too large")
)

// Algorithm names a search strategy.
type Algorithm string

// Greedy is the only implemented strategy.
const Greedy Algorithm = "Greedy Search"

// Algorithms lists the selectable strategies in display order.
var Algorithms = []Algorithm{Greedy}

// ParseAlgorithm resolves a user-supplied name. Empty selects Greedy.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "greedy", "greedy search", "greedy-search":
		return Greedy, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
}

// Options bounds what a Finder accepts.
type Options struct {
	MinMotifLength int
	MaxMotifLength int
	// MaxWorkload caps motif.Workload; zero or negative means no cap.
	MaxWorkload int64
}

// DefaultOptions allows motif lengths 4 to 20 and caps the workload at 2e9.
func DefaultOptions() Options {
	return Options{MinMotifLength: 4, MaxMotifLength: 20, MaxWorkload: 2_000_000_000}
}

// Request is one search invocation.
type Request struct {
	Sequences   []string
	MotifLength int
	Algorithm   string
}

// NewRequest parses raw text input into a Request.
func NewRequest(text string, k int, algorithm string) (Request, error) {
	seqs, err := fasta.Sequences(text)
	if err != nil {
		return Request{}, fmt.Errorf("read sequences: %w", err)
	}
	return Request{Sequences: seqs, MotifLength: k, Algorithm: algorithm}, nil
}

// Result is what front ends display.
type Result struct {
	Algorithm   Algorithm           `json:"algorithm"`
	MotifLength int                 `json:"motif_length"`
	Motifs      []string            `json:"motifs"`
	Consensus   string              `json:"consensus"`
	Profile     motif.ProfileMatrix `json:"profile"`
	Score       int                 `json:"score"`
	SeedScore   int                 `json:"seed_score"`
	Logo        string              `json:"logo"`
}

// Finder validates and runs searches. It holds no per-search state and is
// safe for concurrent use.
type Finder struct {
	opts   Options
	logger *log.Logger
}

// New returns a Finder. A nil logger discards log output.
func New(opts Options, logger *log.Logger) *Finder {
	if opts.MinMotifLength <= 0 {
		opts.MinMotifLength = 1
	}
	return &Finder{opts: opts, logger: logger}
}

// Options returns the bounds the Finder was built with.
func (f *Finder) Options() Options {
	return f.opts
}

// Validate applies every boundary check in order and returns the first
// failure. The returned Algorithm is only meaningful when err is nil.
func (f *Finder) Validate(req Request) (Algorithm, error) {
	alg, err := ParseAlgorithm(req.Algorithm)
	if err != nil {
		return "", err
	}
	k := req.MotifLength
	if err := motif.Validate(req.Sequences, k); err != nil {
		if errors.Is(err, motif.ErrMotifLength) {
			return "", fmt.Errorf("%w: %d", ErrMotifLengthRange, k)
		}
		return "", err
	}
	if k < f.opts.MinMotifLength || (f.opts.MaxMotifLength > 0 && k > f.opts.MaxMotifLength) {
		return "", fmt.Errorf("%w: %d not in %d-%d", ErrMotifLengthRange, k, f.opts.MinMotifLength, f.opts.MaxMotifLength)
	}
	if f.opts.MaxWorkload > 0 {
		if w := motif.Workload(req.Sequences, k); w > f.opts.MaxWorkload {
			return "", fmt.Errorf("%w: estimated %d profile lookups exceeds limit %d", ErrWorkloadTooLarge, w, f.opts.MaxWorkload)
		}
	}
	return alg, nil
}

// Run validates req and, if it passes, runs the search to completion.
func (f *Finder) Run(req Request) (*Result, error) {
	alg, err := f.Validate(req)
	if err != nil {
		f.warn("search rejected", "warning", Warning(err), "err", err)
		return nil, err
	}

	start := time.Now()
	f.debug("starting search", "algorithm", alg, "k", req.MotifLength, "sequences", len(req.Sequences), "workload", motif.Workload(req.Sequences, req.MotifLength))

	var res motif.Result
	switch alg {
	case Greedy:
		res, err = motif.GreedySearch(req.Sequences, req.MotifLength)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	if err != nil {
		return nil, err
	}

	f.info("search completed", "algorithm", alg, "consensus", res.Consensus, "score", res.Score, "seed_score", res.SeedScore, "duration_ms", time.Since(start).Milliseconds())
	return &Result{
		Algorithm:   alg,
		MotifLength: req.MotifLength,
		Motifs:      res.Motifs,
		Consensus:   res.Consensus,
		Profile:     res.Profile,
		Score:       res.Score,
		SeedScore:   res.SeedScore,
		Logo:        LogoPlaceholder,
	}, nil
}

func (f *Finder) debug(msg string, kv ...interface{}) {
	if f.logger != nil {
		f.logger.Debug(msg, kv...)
	}
}

func (f *Finder) info(msg string, kv ...interface{}) {
	if f.logger != nil {
		f.logger.Info(msg, kv...)
	}
}

func (f *Finder) warn(msg string, kv ...interface{}) {
	if f.logger != nil {
		f.logger.Warn(msg, kv...)
	}
}
