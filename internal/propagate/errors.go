package propagate

import "errors"

var (
	// ErrVerify is returned when the encoded document does not read back with
	// the values that were just assigned.
	ErrVerify = errors.New("encoded document does not contain the assigned values")
	// ErrFormatMismatch is returned when a target's format disagrees with its file extension.
	ErrFormatMismatch = errors.New("target format does not match file extension")
)
