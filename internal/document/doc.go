// Package document decodes, edits and re-encodes the structured configuration
// files the propagator rewrites. TOML files are edited in place with tomledit so
// comments and the layout of untouched keys survive; JSON files are re-encoded
// with 4-space indentation.
package document
