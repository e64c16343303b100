// Package motif implements greedy motif search over DNA sequences: count and
// profile matrices, consensus strings, motif scoring, profile-most-probable
// k-mer selection and the greedy driver that combines them.
//
// All functions are pure. Inputs are never modified and every call returns
// freshly allocated values.
package motif

import "fmt"

// Nucleotide is one symbol of the DNA alphabet. Its value doubles as the row
// index into count and profile matrices.
type Nucleotide uint8

const (
	A Nucleotide = iota
	C
	G
	T
)

// NumNucleotides is the alphabet size.
const NumNucleotides = 4

// Alphabet lists the nucleotides in scan order. Ties in consensus building
// resolve to the earliest entry.
var Alphabet = [NumNucleotides]Nucleotide{A, C, G, T}

const symbols = "ACGT"

// Byte returns the ASCII letter for n.
func (n Nucleotide) Byte() byte {
	if int(n) >= NumNucleotides {
		return '?'
	}
	return symbols[n]
}

func (n Nucleotide) String() string {
	return string(n.Byte())
}

// ParseNucleotide maps an upper-case ASCII letter to its Nucleotide.
func ParseNucleotide(b byte) (Nucleotide, error) {
	switch b {
	case 'A':
		return A, nil
	case 'C':
		return C, nil
	case 'G':
		return G, nil
	case 'T':
		return T, nil
	}
	return 0, fmt.Errorf("%w %q", ErrInvalidSymbol, b)
}

// encode converts s to nucleotides, reporting the 1-based position of the
// first symbol outside the alphabet.
func encode(s string) ([]Nucleotide, error) {
	out := make([]Nucleotide, len(s))
	for i := 0; i < len(s); i++ {
		n, err := ParseNucleotide(s[i])
		if err != nil {
			return nil, fmt.Errorf("%w at position %d", err, i+1)
		}
		out[i] = n
	}
	return out, nil
}
