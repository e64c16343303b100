package motif

import (
	"fmt"
	"math"
)

// Result is the outcome of a motif search.
type Result struct {
	// Motifs holds one k-mer per input sequence, in input order.
	Motifs    []string
	Consensus string
	Profile   ProfileMatrix
	// Score is the mismatch count of Motifs against Consensus.
	Score int
	// SeedScore is the score of the initial motif set made of every
	// sequence's first k-mer. Score never exceeds it.
	SeedScore int
}

// Validate checks the preconditions of GreedySearch: at least two sequences,
// a positive k, every sequence at least k long and made only of A, C, G, T.
// Checks run in that order and the first failure is returned.
func Validate(seqs []string, k int) error {
	_, err := validate(seqs, k)
	return err
}

func validate(seqs []string, k int) ([][]Nucleotide, error) {
	if len(seqs) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewSequences, len(seqs))
	}
	if k < 1 {
		return nil, ErrMotifLength
	}
	for i, s := range seqs {
		if len(s) < k {
			return nil, fmt.Errorf("%w: sequence %d has length %d, k is %d", ErrSequenceTooShort, i+1, len(s), k)
		}
	}
	enc := make([][]Nucleotide, len(seqs))
	for i, s := range seqs {
		e, err := encode(s)
		if err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i+1, err)
		}
		enc[i] = e
	}
	return enc, nil
}

// Workload estimates the number of profile lookups GreedySearch performs:
// every start in the first sequence times every window of the remaining
// sequences times k. It returns 0 when the inputs would fail Validate's
// count and length checks, and math.MaxInt64 when the product overflows.
func Workload(seqs []string, k int) int64 {
	if len(seqs) < 2 || k < 1 {
		return 0
	}
	var windows int64
	for i, s := range seqs {
		if len(s) < k {
			return 0
		}
		if i > 0 {
			windows += int64(len(s) - k + 1)
		}
	}
	return mulSat(mulSat(int64(len(seqs[0])-k+1), windows), int64(k))
}

// mulSat multiplies non-negative a and b, saturating at math.MaxInt64.
func mulSat(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

// GreedySearch runs greedy motif search. For every k-mer of the first
// sequence it builds a motif set by picking, in each following sequence, the
// k-mer most probable under the profile of the motifs chosen so far. The set
// with the lowest score wins; the naive seed of first k-mers is the initial
// incumbent and earlier candidates win ties.
func GreedySearch(seqs []string, k int) (Result, error) {
	enc, err := validate(seqs, k)
	if err != nil {
		return Result{}, err
	}

	best := make([]string, len(seqs))
	bestCounts := newCountMatrix(k)
	for j, s := range seqs {
		best[j] = s[:k]
		bestCounts.add(enc[j][:k])
	}
	seedScore := mismatches(best, bestCounts.Consensus())
	bestScore := seedScore

	first := enc[0]
	for i := 0; i+k <= len(first); i++ {
		motifs := make([]string, 1, len(seqs))
		motifs[0] = seqs[0][i : i+k]
		counts := newCountMatrix(k)
		counts.add(first[i : i+k])

		for j := 1; j < len(seqs); j++ {
			off := mostProbableOffset(enc[j], k, counts.Profile())
			motifs = append(motifs, seqs[j][off:off+k])
			counts.add(enc[j][off : off+k])
		}

		if score := mismatches(motifs, counts.Consensus()); score < bestScore {
			best = motifs
			bestCounts = counts
			bestScore = score
		}
	}

	return Result{
		Motifs:    best,
		Consensus: bestCounts.Consensus(),
		Profile:   bestCounts.Profile(),
		Score:     bestScore,
		SeedScore: seedScore,
	}, nil
}
