package propagate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/eugenenazirov/edgeconf/internal/document"
)

// Propagator applies targets one at a time. A failure in one target never
// prevents the remaining targets from being processed.
type Propagator struct {
	dryRun bool
}

// Option configures a Propagator.
type Option func(*Propagator)

// WithDryRun makes the propagator edit documents in memory only.
func WithDryRun(enabled bool) Option {
	return func(p *Propagator) {
		p.dryRun = enabled
	}
}

// New constructs a Propagator.
func New(opts ...Option) *Propagator {
	p := &Propagator{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run applies every target in order and returns one result per target.
// Once ctx is done, the remaining targets are reported as failed without
// being touched.
func (p *Propagator) Run(ctx context.Context, targets []Target, in Inputs) []Result {
	results := make([]Result, 0, len(targets))
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Target: target, Status: StatusFailed, Err: err})
			continue
		}
		results = append(results, p.Apply(target, in))
	}
	return results
}

// Apply loads target, rewrites its assignments and stores it back.
func (p *Propagator) Apply(target Target, in Inputs) Result {
	changes, err := p.apply(target, in)
	switch {
	case err == nil && p.dryRun:
		return Result{Target: target, Status: StatusPlanned, Changes: changes}
	case err == nil:
		return Result{Target: target, Status: StatusUpdated, Changes: changes}
	case errors.Is(err, fs.ErrNotExist):
		return Result{Target: target, Status: StatusNotFound, Err: err}
	default:
		return Result{Target: target, Status: StatusFailed, Changes: changes, Err: err}
	}
}

func (p *Propagator) apply(target Target, in Inputs) ([]Change, error) {
	if format, err := document.FormatOf(target.Path); err != nil {
		return nil, err
	} else if format != target.Format {
		return nil, fmt.Errorf("%w: %s is %s, target declares %s", ErrFormatMismatch, target.Path, format, target.Format)
	}

	data, mode, err := document.ReadFile(target.Path)
	if err != nil {
		return nil, err
	}

	doc, err := document.Decode(target.Format, data)
	if err != nil {
		return nil, err
	}

	changes := make([]Change, 0, len(target.Assignments))
	values := make(map[string]string, len(target.Assignments))
	for _, a := range target.Assignments {
		value, err := a.Value(in)
		if err != nil {
			return nil, err
		}

		change := Change{Key: a.Key(), New: value}
		if old, ok := doc.Get(a.Path); ok {
			change.Old = fmt.Sprint(old)
			change.Existed = true
		}

		if err := doc.Set(a.Path, value); err != nil {
			return nil, err
		}
		values[a.Key()] = value
		changes = append(changes, change)
	}

	out, err := doc.Encode()
	if err != nil {
		return nil, err
	}
	if err := verify(target, out, values); err != nil {
		return nil, err
	}

	if p.dryRun {
		return changes, nil
	}
	if err := document.WriteFile(target.Path, out, mode); err != nil {
		return nil, err
	}
	return changes, nil
}

// verify decodes the encoded bytes again and checks every assigned key.
func verify(target Target, out []byte, want map[string]string) error {
	doc, err := document.Decode(target.Format, out)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerify, err)
	}
	for _, a := range target.Assignments {
		got, ok := doc.Get(a.Path)
		if s, isString := got.(string); !ok || !isString || s != want[a.Key()] {
			return fmt.Errorf("%w: %s = %v", ErrVerify, a.Key(), got)
		}
	}
	return nil
}
