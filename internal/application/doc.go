// Package application wires configuration, logging and the propagator together.
// It resolves the target files for a build variant, runs the propagation and
// reports every per-file outcome, keeping the main package focused on flag
// parsing and operator prompts.
package application
