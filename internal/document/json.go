package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/buger/jsonparser"
	"github.com/ohler55/ojg/jp"
)

const jsonIndent = "    "

// jsonDocument edits the raw bytes so that key order and number literals
// survive, and keeps a decoded copy for lookups.
type jsonDocument struct {
	raw             []byte
	root            any
	trailingNewline bool
}

func decodeJSON(data []byte) (*jsonDocument, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse JSON: unexpected data after top-level value")
	}

	return &jsonDocument{
		raw:             bytes.Clone(data),
		root:            root,
		trailingNewline: bytes.HasSuffix(bytes.TrimRight(data, " \t\r"), []byte("\n")),
	}, nil
}

func (d *jsonDocument) Get(path []string) (any, bool) {
	if len(path) == 0 {
		return d.root, true
	}
	parent, ok := d.object(path[:len(path)-1])
	if !ok {
		return nil, false
	}
	v, ok := parent[path[len(path)-1]]
	return v, ok
}

func (d *jsonDocument) Set(path []string, value string) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: empty key-path", ErrMissingKeyPath)
	}
	parentPath, leaf := path[:len(path)-1], path[len(path)-1]

	if len(parentPath) > 0 && keyExpr(parentPath).First(d.root) == nil {
		return fmt.Errorf("%w: %s", ErrMissingKeyPath, KeyPath(parentPath))
	}
	parent, ok := d.object(parentPath)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotTable, KeyPath(parentPath))
	}

	switch parent[leaf].(type) {
	case map[string]any, []any:
		return fmt.Errorf("%w: %s", ErrKeyIsTable, KeyPath(path))
	}

	quoted, err := quoteJSON(value)
	if err != nil {
		return fmt.Errorf("encode value for %s: %w", KeyPath(path), err)
	}
	raw, err := jsonparser.Set(d.raw, quoted, path...)
	if err != nil {
		return fmt.Errorf("set %s: %w", KeyPath(path), err)
	}
	d.raw = raw
	parent[leaf] = value
	return nil
}

func (d *jsonDocument) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, d.raw, "", jsonIndent); err != nil {
		return nil, fmt.Errorf("encode JSON: %w", err)
	}

	out := bytes.TrimRight(buf.Bytes(), " \t\r\n")
	if d.trailingNewline {
		out = append(out, '\n')
	}
	return out, nil
}

// object resolves path to a JSON object. The empty path is the document root.
func (d *jsonDocument) object(path []string) (map[string]any, bool) {
	var v any = d.root
	if len(path) > 0 {
		v = keyExpr(path).First(d.root)
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

func keyExpr(path []string) jp.Expr {
	x := jp.R()
	for _, key := range path {
		x = x.C(key)
	}
	return x
}

// quoteJSON renders s as a JSON string literal without HTML escaping.
func quoteJSON(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
