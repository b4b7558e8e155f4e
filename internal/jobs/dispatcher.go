package jobs

import (
	"fmt"
	"sync"
	"time"

	"github.com/MimeLyc/mkv-organizer/pkg/log"
)

// Dispatcher runs one process call per item over a fixed set of workers.
type Dispatcher[O Outcome] struct {
	workerCount int
	onResult    func(Record[O])

	mu      sync.Mutex
	tally   Tally
	records []Record[O]
}

type Option[O Outcome] func(*Dispatcher[O])

// WithCallback registers fn to be called once per finished item. Calls are
// serialized with the tally update.
func WithCallback[O Outcome](fn func(Record[O])) Option[O] {
	return func(d *Dispatcher[O]) {
		d.onResult = fn
	}
}

func NewDispatcher[O Outcome](workerCount int, opts ...Option[O]) *Dispatcher[O] {
	if workerCount <= 0 {
		workerCount = 1
	}
	d := &Dispatcher[O]{workerCount: workerCount}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher[O]) Workers() int {
	return d.workerCount
}

// Dispatch processes every item and returns once each produced exactly one
// record. Items run in no particular order. A panic in process is recovered
// and counted as a failure for that item only.
func (d *Dispatcher[O]) Dispatch(items []string, process func(string) O) Tally {
	d.mu.Lock()
	d.tally = Tally{}
	d.records = make([]Record[O], 0, len(items))
	d.mu.Unlock()

	if len(items) == 0 {
		return Tally{}
	}

	workers := min(d.workerCount, len(items))
	pending := make(chan string)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go d.worker(&wg, pending, process)
	}

	for _, item := range items {
		pending <- item
	}
	close(pending)
	wg.Wait()

	return d.Tally()
}

func (d *Dispatcher[O]) worker(wg *sync.WaitGroup, pending <-chan string, process func(string) O) {
	defer wg.Done()

	for item := range pending {
		d.record(d.runOne(item, process))
	}
}

func (d *Dispatcher[O]) runOne(item string, process func(string) O) (rec Record[O]) {
	start := time.Now()
	rec.Item = item

	defer func() {
		rec.Duration = time.Since(start)
		if r := recover(); r != nil {
			log.Error("Processing %s panicked: %v", item, r)
			var zero O
			rec.Outcome = zero
			rec.Status = StatusFailed
			rec.Err = fmt.Errorf("panic: %v", r)
		}
	}()

	rec.Outcome = process(item)
	rec.Status = rec.Outcome.JobStatus()
	return rec
}

func (d *Dispatcher[O]) record(rec Record[O]) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.tally.add(rec.Status)
	d.records = append(d.records, rec)
	if d.onResult != nil {
		d.onResult(rec)
	}
}

// Tally returns the counts of the last Dispatch.
func (d *Dispatcher[O]) Tally() Tally {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tally
}

// Results returns the records of the last Dispatch in completion order.
func (d *Dispatcher[O]) Results() []Record[O] {
	d.mu.Lock()
	defer d.mu.Unlock()

	ret := make([]Record[O], len(d.records))
	copy(ret, d.records)
	return ret
}
