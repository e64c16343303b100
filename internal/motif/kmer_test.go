package motif

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMostProbableKmer(t *testing.T) {
	profile := ProfileMatrix{
		A: {0.2, 0.2, 0.3, 0.2, 0.3},
		C: {0.4, 0.3, 0.1, 0.5, 0.1},
		G: {0.3, 0.3, 0.5, 0.2, 0.4},
		T: {0.1, 0.2, 0.1, 0.1, 0.2},
	}
	got, err := MostProbableKmer("ACCTGTTTATTGCCTAAGTTCCGAACAAACCCAATATAGCCCGAGGGCCT", 5, profile)
	require.NoError(t, err)
	assert.Equal(t, "CCGAG", got)
}

func TestMostProbableKmerAllZeroKeepsFirst(t *testing.T) {
	profile := ProfileMatrix{A: {1, 1}, C: {0, 0}, G: {0, 0}, T: {0, 0}}
	got, err := MostProbableKmer("TTGC", 2, profile)
	require.NoError(t, err)
	assert.Equal(t, "TT", got)
}

func TestMostProbableKmerLeftmostWinsTies(t *testing.T) {
	profile := ProfileMatrix{A: {0.5, 0.5}, C: {0.5, 0.5}, G: {0, 0}, T: {0, 0}}
	got, err := MostProbableKmer("GACCAG", 2, profile)
	require.NoError(t, err)
	assert.Equal(t, "AC", got)
}

func TestMostProbableKmerWholeSequence(t *testing.T) {
	profile := ProfileMatrix{A: {0, 0, 0}, C: {0, 0, 0}, G: {0, 0, 0}, T: {1, 1, 1}}
	got, err := MostProbableKmer("ACG", 3, profile)
	require.NoError(t, err)
	assert.Equal(t, "ACG", got)
}

func TestMostProbableKmerErrors(t *testing.T) {
	profile := ProfileMatrix{A: {1, 1}, C: {0, 0}, G: {0, 0}, T: {0, 0}}

	_, err := MostProbableKmer("ACGT", 3, profile)
	assert.ErrorIs(t, err, ErrProfileWidth)
	_, err = MostProbableKmer("A", 2, profile)
	assert.ErrorIs(t, err, ErrSequenceTooShort)
	_, err = MostProbableKmer("ANGT", 2, profile)
	assert.ErrorIs(t, err, ErrInvalidSymbol)
	_, err = MostProbableKmer("ACGT", 0, profile)
	assert.ErrorIs(t, err, ErrMotifLength)
}
