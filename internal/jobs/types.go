package jobs

import "time"

type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome is anything a processed item reports back to the dispatcher.
type Outcome interface {
	JobStatus() Status
}

// Tally counts outcomes per status.
type Tally struct {
	Success int
	Skipped int
	Failed  int
}

func (t Tally) Total() int {
	return t.Success + t.Skipped + t.Failed
}

func (t *Tally) add(s Status) {
	switch s {
	case StatusSuccess:
		t.Success++
	case StatusSkipped:
		t.Skipped++
	default:
		t.Failed++
	}
}

// Record is the per-item entry kept for reporting. Outcome holds the zero
// value when the item panicked; Err carries the recovered panic then.
type Record[O Outcome] struct {
	Item     string
	Status   Status
	Outcome  O
	Err      error
	Duration time.Duration
}
