package motif

import "fmt"

// MostProbableKmer returns the length-k substring of seq with the highest
// likelihood under profile. The leftmost candidate wins ties, so a sequence
// whose every k-mer has probability zero yields its first k-mer.
func MostProbableKmer(seq string, k int, profile ProfileMatrix) (string, error) {
	if k < 1 {
		return "", ErrMotifLength
	}
	if profile.Width() != k {
		return "", fmt.Errorf("%w: profile has width %d, k is %d", ErrProfileWidth, profile.Width(), k)
	}
	if len(seq) < k {
		return "", fmt.Errorf("%w: length %d, k is %d", ErrSequenceTooShort, len(seq), k)
	}
	enc, err := encode(seq)
	if err != nil {
		return "", err
	}
	off := mostProbableOffset(enc, k, profile)
	return seq[off : off+k], nil
}

// mostProbableOffset scans every window of seq and returns the start of the
// first one with maximal probability. Only a strictly greater probability
// replaces the current best.
func mostProbableOffset(seq []Nucleotide, k int, profile ProfileMatrix) int {
	best := 0
	max := profile.probability(seq[:k])
	for i := 1; i+k <= len(seq); i++ {
		if prob := profile.probability(seq[i : i+k]); prob > max {
			max = prob
			best = i
		}
	}
	return best
}
