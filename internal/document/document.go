package document

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies the on-disk encoding of a document.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Document is a decoded configuration file that can be edited at key-paths.
type Document interface {
	// Get returns the value stored at path.
	Get(path []string) (any, bool)
	// Set stores value at path. Every parent of path must already be a table;
	// the final key is created when absent.
	Set(path []string, value string) error
	// Encode serialises the document in its original format.
	Encode() ([]byte, error)
}

// FormatOf infers the document format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Decode parses data as a document of the given format.
func Decode(format Format, data []byte) (Document, error) {
	switch format {
	case FormatTOML:
		doc, err := decodeTOML(data)
		if err != nil {
			return nil, err
		}
		return doc, nil
	case FormatJSON:
		doc, err := decodeJSON(data)
		if err != nil {
			return nil, err
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// KeyPath renders path in dotted form.
func KeyPath(path []string) string {
	return strings.Join(path, ".")
}

func lookup(tree map[string]any, path []string) (any, bool) {
	var cur any = tree
	for _, key := range path {
		table, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = table[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}
