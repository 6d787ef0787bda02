package propagate

import "fmt"

// Status is the outcome of propagating addresses into one target.
type Status int

const (
	// StatusUpdated means the file was rewritten.
	StatusUpdated Status = iota
	// StatusPlanned means the edits succeeded in memory but nothing was written.
	StatusPlanned
	// StatusNotFound means the file does not exist; nothing was created.
	StatusNotFound
	// StatusFailed means the file could not be read, edited or written.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusUpdated:
		return "updated"
	case StatusPlanned:
		return "planned"
	case StatusNotFound:
		return "not_found"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Change records the value of one key-path before and after propagation.
// Old is empty when the key did not exist.
type Change struct {
	Key     string
	Old     string
	New     string
	Existed bool
}

// Result is the tagged outcome for one target.
type Result struct {
	Target  Target
	Status  Status
	Changes []Change
	Err     error
}

// OK reports whether the target was updated or, in a dry run, could have been.
func (r Result) OK() bool {
	return r.Status == StatusUpdated || r.Status == StatusPlanned
}

// Summary counts results by status.
type Summary struct {
	Updated  int
	Planned  int
	NotFound int
	Failed   int
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusUpdated:
			s.Updated++
		case StatusPlanned:
			s.Planned++
		case StatusNotFound:
			s.NotFound++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}
