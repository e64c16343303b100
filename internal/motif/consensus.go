package motif

// Consensus returns the consensus string of a motif set.
func Consensus(motifs []string) (string, error) {
	c, err := Counts(motifs)
	if err != nil {
		return "", err
	}
	return c.Consensus(), nil
}

// Score returns the total number of positions, summed over all motifs, that
// disagree with the set's consensus. Lower is better.
func Score(motifs []string) (int, error) {
	consensus, err := Consensus(motifs)
	if err != nil {
		return 0, err
	}
	return mismatches(motifs, consensus), nil
}

// mismatches sums the Hamming distance of every motif to consensus. Motifs
// must all have the consensus length.
func mismatches(motifs []string, consensus string) int {
	score := 0
	for _, m := range motifs {
		for i := 0; i < len(consensus); i++ {
			if m[i] != consensus[i] {
				score++
			}
		}
	}
	return score
}
