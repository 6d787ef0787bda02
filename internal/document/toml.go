package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/creachadair/tomledit"
	"github.com/creachadair/tomledit/parser"
	"github.com/creachadair/tomledit/transform"
)

// tomlDocument keeps two views of the same file: the tomledit syntax tree that
// is edited and written back, and a decoded value tree used for lookups.
type tomlDocument struct {
	doc  *tomledit.Document
	tree map[string]any
}

func decodeTOML(data []byte) (*tomlDocument, error) {
	doc, err := tomledit.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	if doc.Global == nil {
		doc.Global = &tomledit.Section{}
	}

	tree := make(map[string]any)
	if _, err := toml.Decode(string(data), &tree); err != nil {
		return nil, fmt.Errorf("decode TOML: %w", err)
	}

	return &tomlDocument{doc: doc, tree: tree}, nil
}

func (d *tomlDocument) Get(path []string) (any, bool) {
	return lookup(d.tree, path)
}

func (d *tomlDocument) Set(path []string, value string) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: empty key-path", ErrMissingKeyPath)
	}
	v, err := parser.ParseValue(quoteTOML(value))
	if err != nil {
		return fmt.Errorf("encode value for %s: %w", KeyPath(path), err)
	}

	if e := d.doc.First(path...); e != nil {
		if !e.IsMapping() {
			return fmt.Errorf("%w: %s", ErrKeyIsTable, KeyPath(path))
		}
		e.KeyValue.Value.X = v.X
		return d.setTree(path, value)
	}

	parent, leaf := path[:len(path)-1], path[len(path)-1]
	if len(parent) > 0 {
		t, ok := lookup(d.tree, parent)
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingKeyPath, KeyPath(parent))
		}
		if _, ok := t.(map[string]any); !ok {
			return fmt.Errorf("%w: %s", ErrNotTable, KeyPath(parent))
		}
	}

	if err := d.insert(parent, leaf, v); err != nil {
		return err
	}
	return d.setTree(path, value)
}

// insert adds leaf to the table parent, which is known to exist. A table
// with its own header gets a plain mapping. An inline table gets the key
// appended. A table defined through dotted keys or only through its subtables
// gets a dotted mapping in the section holding its other keys, or else in the
// closest enclosing section.
func (d *tomlDocument) insert(parent []string, leaf string, v parser.Value) error {
	kv := &parser.KeyValue{Name: parser.Key{leaf}, Value: v}
	if len(parent) == 0 {
		transform.InsertMapping(d.doc.Global, kv, false)
		return nil
	}
	if table := transform.FindTable(d.doc, parent...); table != nil {
		transform.InsertMapping(table.Section, kv, false)
		return nil
	}

	want := parser.Key(parent)
	var (
		found  *tomledit.Entry
		inline bool
	)
	d.doc.Scan(func(full parser.Key, e *tomledit.Entry) bool {
		if !e.IsMapping() || !want.IsPrefixOf(full) {
			return true
		}
		inline = full.Equals(want)
		if inline || len(e.Section.TableName()) <= len(want) {
			found = e
			return false
		}
		return true
	})

	switch {
	case inline:
		tab, ok := found.KeyValue.Value.X.(parser.Inline)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotTable, KeyPath(parent))
		}
		found.KeyValue.Value.X = append(tab, kv)
	case found != nil:
		kv.Name = dottedKey(parent[len(found.Section.TableName()):], leaf)
		transform.InsertMapping(found.Section, kv, false)
	default:
		section := d.doc.Global
		for n := len(parent) - 1; n > 0; n-- {
			if table := transform.FindTable(d.doc, parent[:n]...); table != nil && !table.IsArray {
				section = table.Section
				break
			}
		}
		kv.Name = dottedKey(parent[len(section.TableName()):], leaf)
		transform.InsertMapping(section, kv, false)
	}
	return nil
}

func (d *tomlDocument) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := tomledit.Format(&buf, d.doc); err != nil {
		return nil, fmt.Errorf("format TOML: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *tomlDocument) setTree(path []string, value string) error {
	table := d.tree
	for _, key := range path[:len(path)-1] {
		next, ok := table[key].(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotTable, KeyPath(path))
		}
		table = next
	}
	table[path[len(path)-1]] = value
	return nil
}

func dottedKey(prefix []string, leaf string) parser.Key {
	key := make(parser.Key, 0, len(prefix)+1)
	key = append(key, prefix...)
	return append(key, leaf)
}

// quoteTOML renders s as a TOML basic string.
func quoteTOML(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
