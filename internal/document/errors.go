package document

import "errors"

var (
	// ErrUnsupportedFormat is returned for files that are neither TOML nor JSON.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrMissingKeyPath is returned when a parent table of a key-path does not exist.
	ErrMissingKeyPath = errors.New("missing expected key-path")
	// ErrNotTable is returned when a parent of a key-path holds a value instead of a table.
	ErrNotTable = errors.New("key-path parent is not a table")
	// ErrKeyIsTable is returned when a key-path names a table rather than a value.
	ErrKeyIsTable = errors.New("key-path names a table, not a value")
)
