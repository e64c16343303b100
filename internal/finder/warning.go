package finder

import (
	"errors"

	"motiffinder/internal/motif"
)

// Warning maps a validation error to the message shown to the user. Errors
// that are not validation failures return the empty string.
func Warning(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, motif.ErrTooFewSequences):
		return "Please enter at least two DNA sequences."
	case errors.Is(err, motif.ErrSequenceTooShort):
		return "All sequences must be longer than the selected motif length."
	case errors.Is(err, motif.ErrInvalidSymbol):
		return "Sequences may only contain the nucleotides A, C, G and T."
	case errors.Is(err, ErrMotifLengthRange):
		return "The selected motif length is outside the allowed range."
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return "The selected algorithm is not implemented yet."
	case errors.Is(err, ErrWorkloadTooLarge):
		return "The input is too large to search; use fewer or shorter sequences."
	}
	return ""
}

// IsValidation reports whether err is a boundary check failure rather than
// an internal error.
func IsValidation(err error) bool {
	return Warning(err) != ""
}
