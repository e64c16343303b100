package motif

import (
	"encoding/json"
	"fmt"
)

// CountMatrix tallies, for each nucleotide row, how often that nucleotide
// occurs at each of the k motif positions. Every column sums to the number of
// motifs that were counted.
type CountMatrix [NumNucleotides][]int

func newCountMatrix(k int) CountMatrix {
	var c CountMatrix
	for _, n := range Alphabet {
		c[n] = make([]int, k)
	}
	return c
}

// Counts builds the count matrix of a non-empty set of equal-length motifs.
func Counts(motifs []string) (CountMatrix, error) {
	encoded, k, err := encodeMotifs(motifs)
	if err != nil {
		return CountMatrix{}, err
	}
	c := newCountMatrix(k)
	for _, m := range encoded {
		c.add(m)
	}
	return c, nil
}

func (c CountMatrix) add(motif []Nucleotide) {
	for i, n := range motif {
		c[n][i]++
	}
}

// Width returns k, the number of motif positions.
func (c CountMatrix) Width() int {
	return len(c[A])
}

// Count returns how many motifs carry n at position i.
func (c CountMatrix) Count(n Nucleotide, i int) int {
	return c[n][i]
}

// Total returns the sum of column i.
func (c CountMatrix) Total(i int) int {
	sum := 0
	for _, n := range Alphabet {
		sum += c[n][i]
	}
	return sum
}

// Profile divides every entry by the number of counted motifs. No
// pseudocounts are added, so a nucleotide never seen at a position gets
// probability exactly zero there.
func (c CountMatrix) Profile() ProfileMatrix {
	k := c.Width()
	var p ProfileMatrix
	for _, n := range Alphabet {
		p[n] = make([]float64, k)
	}
	if k == 0 {
		return p
	}
	t := float64(c.Total(0))
	for _, n := range Alphabet {
		for i, v := range c[n] {
			p[n][i] = float64(v) / t
		}
	}
	return p
}

// Consensus returns, for each position, the nucleotide with the strictly
// greatest count, scanning A, C, G, T in order so ties go to the earliest.
func (c CountMatrix) Consensus() string {
	k := c.Width()
	out := make([]byte, k)
	for i := 0; i < k; i++ {
		best := A
		max := 0
		for _, n := range Alphabet {
			if c[n][i] > max {
				max = c[n][i]
				best = n
			}
		}
		out[i] = best.Byte()
	}
	return string(out)
}

// ProfileMatrix holds per-position nucleotide probabilities. Every column of
// a profile built from counts sums to 1.
type ProfileMatrix [NumNucleotides][]float64

// Profile builds the frequency profile of a non-empty set of equal-length motifs.
func Profile(motifs []string) (ProfileMatrix, error) {
	c, err := Counts(motifs)
	if err != nil {
		return ProfileMatrix{}, err
	}
	return c.Profile(), nil
}

// Width returns k, the number of motif positions.
func (p ProfileMatrix) Width() int {
	return len(p[A])
}

// Prob returns the probability of n at position i.
func (p ProfileMatrix) Prob(n Nucleotide, i int) float64 {
	return p[n][i]
}

// Probability returns the likelihood of kmer under p: the product over its
// positions of the profile value for the nucleotide found there.
func (p ProfileMatrix) Probability(kmer string) (float64, error) {
	if len(kmer) != p.Width() {
		return 0, fmt.Errorf("%w: k-mer has length %d, profile has width %d", ErrProfileWidth, len(kmer), p.Width())
	}
	enc, err := encode(kmer)
	if err != nil {
		return 0, err
	}
	return p.probability(enc), nil
}

func (p ProfileMatrix) probability(kmer []Nucleotide) float64 {
	prob := 1.0
	for i, n := range kmer {
		prob *= p[n][i]
	}
	return prob
}

// Map returns the profile keyed by nucleotide letter.
func (p ProfileMatrix) Map() map[string][]float64 {
	m := make(map[string][]float64, NumNucleotides)
	for _, n := range Alphabet {
		row := make([]float64, len(p[n]))
		copy(row, p[n])
		m[n.String()] = row
	}
	return m
}

// MarshalJSON encodes the profile as {"A":[...],"C":[...],"G":[...],"T":[...]}.
func (p ProfileMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Map())
}

// UnmarshalJSON decodes the form written by MarshalJSON. All four rows must
// be present and of equal width.
func (p *ProfileMatrix) UnmarshalJSON(data []byte) error {
	var m map[string][]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out ProfileMatrix
	for _, n := range Alphabet {
		row, ok := m[n.String()]
		if !ok {
			return fmt.Errorf("profile row %s missing", n)
		}
		if n != A && len(row) != len(out[A]) {
			return fmt.Errorf("%w: row %s has width %d, want %d", ErrProfileWidth, n, len(row), len(out[A]))
		}
		out[n] = row
	}
	*p = out
	return nil
}

func encodeMotifs(motifs []string) ([][]Nucleotide, int, error) {
	if len(motifs) == 0 {
		return nil, 0, ErrEmptyMotifSet
	}
	k := len(motifs[0])
	if k == 0 {
		return nil, 0, ErrMotifLength
	}
	out := make([][]Nucleotide, len(motifs))
	for i, m := range motifs {
		if len(m) != k {
			return nil, 0, fmt.Errorf("%w: motif %d has length %d, want %d", ErrUnequalLength, i+1, len(m), k)
		}
		enc, err := encode(m)
		if err != nil {
			return nil, 0, fmt.Errorf("motif %d: %w", i+1, err)
		}
		out[i] = enc
	}
	return out, k, nil
}
