package jobs

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOutcome struct {
	status Status
}

func (o fakeOutcome) JobStatus() Status {
	return o.status
}

func statusFor(item string) fakeOutcome {
	switch {
	case strings.HasPrefix(item, "skip"):
		return fakeOutcome{status: StatusSkipped}
	case strings.HasPrefix(item, "fail"):
		return fakeOutcome{status: StatusFailed}
	default:
		return fakeOutcome{status: StatusSuccess}
	}
}

func items(n int) []string {
	ret := make([]string, 0, n)
	for i := range n {
		switch i % 3 {
		case 0:
			ret = append(ret, fmt.Sprintf("ok-%d", i))
		case 1:
			ret = append(ret, fmt.Sprintf("skip-%d", i))
		default:
			ret = append(ret, fmt.Sprintf("fail-%d", i))
		}
	}
	return ret
}

func TestDispatcher_TallyIndependentOfWorkerCount(t *testing.T) {
	work := items(30)

	for _, workers := range []int{1, 2, 4, 16, 64} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			d := NewDispatcher[fakeOutcome](workers)
			tally := d.Dispatch(work, statusFor)

			assert.Equal(t, Tally{Success: 10, Skipped: 10, Failed: 10}, tally)
			assert.Equal(t, len(work), tally.Total())
			assert.Len(t, d.Results(), len(work))
		})
	}
}

func TestDispatcher_EachItemProcessedOnce(t *testing.T) {
	work := items(50)

	var mu sync.Mutex
	seen := make(map[string]int)
	d := NewDispatcher[fakeOutcome](8)
	d.Dispatch(work, func(item string) fakeOutcome {
		mu.Lock()
		seen[item]++
		mu.Unlock()
		return statusFor(item)
	})

	require.Len(t, seen, len(work))
	for item, n := range seen {
		assert.Equal(t, 1, n, item)
	}
}

func TestDispatcher_BoundedConcurrency(t *testing.T) {
	var running, peak atomic.Int32

	d := NewDispatcher[fakeOutcome](3)
	d.Dispatch(items(20), func(item string) fakeOutcome {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return statusFor(item)
	})

	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.GreaterOrEqual(t, peak.Load(), int32(1))
}

func TestDispatcher_PanicIsolated(t *testing.T) {
	d := NewDispatcher[fakeOutcome](2)

	tally := d.Dispatch([]string{"ok-1", "boom", "ok-2", "skip-1"}, func(item string) fakeOutcome {
		if item == "boom" {
			panic("muxer exploded")
		}
		return statusFor(item)
	})

	assert.Equal(t, Tally{Success: 2, Skipped: 1, Failed: 1}, tally)

	var panicked []Record[fakeOutcome]
	for _, rec := range d.Results() {
		if rec.Err != nil {
			panicked = append(panicked, rec)
		}
	}
	require.Len(t, panicked, 1)
	assert.Equal(t, "boom", panicked[0].Item)
	assert.Equal(t, StatusFailed, panicked[0].Status)
	assert.Contains(t, panicked[0].Err.Error(), "muxer exploded")
}

func TestDispatcher_Callback(t *testing.T) {
	var got []string
	d := NewDispatcher(1, WithCallback(func(rec Record[fakeOutcome]) {
		got = append(got, rec.Item+":"+string(rec.Status))
	}))

	d.Dispatch([]string{"ok-1", "fail-1"}, statusFor)

	assert.Equal(t, []string{"ok-1:success", "fail-1:failed"}, got)
}

func TestDispatcher_EmptyInput(t *testing.T) {
	d := NewDispatcher[fakeOutcome](4)

	called := false
	tally := d.Dispatch(nil, func(string) fakeOutcome {
		called = true
		return fakeOutcome{}
	})

	assert.False(t, called)
	assert.Equal(t, Tally{}, tally)
	assert.Empty(t, d.Results())
}

func TestDispatcher_ResetsBetweenRuns(t *testing.T) {
	d := NewDispatcher[fakeOutcome](2)

	d.Dispatch(items(6), statusFor)
	tally := d.Dispatch([]string{"ok-1"}, statusFor)

	assert.Equal(t, Tally{Success: 1}, tally)
	assert.Len(t, d.Results(), 1)
}

func TestNewDispatcher_NonPositiveWorkers(t *testing.T) {
	assert.Equal(t, 1, NewDispatcher[fakeOutcome](0).Workers())
	assert.Equal(t, 1, NewDispatcher[fakeOutcome](-5).Workers())
	assert.Equal(t, 7, NewDispatcher[fakeOutcome](7).Workers())
}
