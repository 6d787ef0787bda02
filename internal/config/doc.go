// Package config resolves edgeconf settings from a YAML file and CLI flags with
// precedence: CLI flags > YAML config > Defaults. Nothing is read from the
// environment.
package config
