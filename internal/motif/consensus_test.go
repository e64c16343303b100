package motif

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsensusTieBreak(t *testing.T) {
	tests := []struct {
		name   string
		motifs []string
		want   string
	}{
		{"two way tie", []string{"AC", "CA"}, "AA"},
		{"four way tie", []string{"A", "C", "G", "T"}, "A"},
		{"later tie after lead", []string{"GT", "GT", "TG", "TG"}, "GG"},
		{"three way tie mid motif", []string{"TTA", "TGA", "TCC"}, "TCA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Consensus(tt.motifs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScore(t *testing.T) {
	score, err := Score([]string{"AC", "CA"})
	require.NoError(t, err)
	assert.Equal(t, 2, score)

	score, err = Score([]string{"CAG", "CAG", "CAA", "CAA", "CAA"})
	require.NoError(t, err)
	assert.Equal(t, 2, score)

	score, err = Score([]string{"ACGT", "ACGT"})
	require.NoError(t, err)
	assert.Equal(t, 0, score)

	_, err = Score([]string{"ACGT", "ACG"})
	assert.ErrorIs(t, err, ErrUnequalLength)
}
