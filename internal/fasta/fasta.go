package fasta

// Package fasta reads motif-search input: plain text with one sequence per
// line, where FASTA header lines are tolerated and dropped. Multi-line FASTA
// records are not joined; every non-header line is its own sequence.

import (
	"bufio"
	"io"
	"strings"
)

// maxLineSize bounds a single sequence line. Longer lines fail with
// bufio.ErrTooLong rather than being cut short.
const maxLineSize = 16 << 20

// ReadSequences reads r line by line. Lines beginning with '>' are headers and
// are discarded; every other line is trimmed of surrounding whitespace,
// upper-cased, and kept if non-empty. Sequences are returned in input order.
func ReadSequences(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var seqs []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seqs = append(seqs, strings.ToUpper(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return seqs, nil
}

// Sequences is ReadSequences over an in-memory string.
func Sequences(text string) ([]string, error) {
	return ReadSequences(strings.NewReader(text))
}
