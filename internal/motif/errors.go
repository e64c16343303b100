package motif

import "errors"

var (
	// ErrTooFewSequences is returned when a search is given fewer than two sequences.
	ErrTooFewSequences = errors.New("at least two sequences are required")
	// ErrSequenceTooShort is returned when a sequence is shorter than the motif length.
	ErrSequenceTooShort = errors.New("sequence shorter than motif length")
	// ErrInvalidSymbol is returned for any symbol outside A, C, G, T.
	ErrInvalidSymbol = errors.New("invalid nucleotide")
	// ErrUnequalLength is returned when motifs in a set differ in length.
	ErrUnequalLength = errors.New("motifs differ in length")
	// ErrEmptyMotifSet is returned when a matrix is requested for no motifs.
	ErrEmptyMotifSet = errors.New("empty motif set")
	// ErrMotifLength is returned for a motif length below one.
	ErrMotifLength = errors.New("motif length must be positive")
	// ErrProfileWidth is returned when a profile's width differs from k.
	ErrProfileWidth = errors.New("profile width does not match motif length")
)
